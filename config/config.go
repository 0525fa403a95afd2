// Package config holds the TT16 simulator configuration.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Reserved opcode policies.
const (
	// ReservedNop executes opcode 00 as a no-op that leaves registers unchanged.
	ReservedNop = "nop"
	// ReservedTrap rejects opcode 00 with an unspecified-behavior error.
	ReservedTrap = "trap"
)

// Shift rules.
const (
	// ShiftReference reproduces the reference vectors: (a << b) >> 1.
	ShiftReference = "reference"
	// ShiftLogical is a conventional logical left shift.
	ShiftLogical = "logical"
)

// Config holds the tunable behavior of the simulator.
type Config struct {
	// ReservedPolicy selects how opcode 00 is executed.
	// Default: "nop".
	ReservedPolicy string `json:"reserved_policy"`

	// ShiftRule selects the SLL implementation.
	// Default: "reference".
	ShiftRule string `json:"shift_rule"`

	// MaxInstructions bounds the number of retired instructions.
	// Default: 0 (no limit).
	MaxInstructions uint64 `json:"max_instructions"`

	// LogLevel is the slog level name used by the command line tools
	// ("trace", "debug", "info", "warn", "error"). Default: "info".
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns a Config matching the reference hardware behavior.
func DefaultConfig() *Config {
	return &Config{
		ReservedPolicy:  ReservedNop,
		ShiftRule:       ShiftReference,
		MaxInstructions: 0,
		LogLevel:        "info",
	}
}

// LoadConfig loads a Config from a JSON file. Missing keys keep their
// default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that every setting names a known option.
func (c *Config) Validate() error {
	switch c.ReservedPolicy {
	case ReservedNop, ReservedTrap:
	default:
		return fmt.Errorf("reserved_policy must be %q or %q, got %q",
			ReservedNop, ReservedTrap, c.ReservedPolicy)
	}

	switch c.ShiftRule {
	case ShiftReference, ShiftLogical:
	default:
		return fmt.Errorf("shift_rule must be %q or %q, got %q",
			ShiftReference, ShiftLogical, c.ShiftRule)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// LevelTrace is below slog.LevelDebug and is used for per-instruction
// retirement logs.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	if name == "trace" {
		return LevelTrace, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}

	return level, nil
}
