// Package vectors runs TT16 test-vector files against the emulator.
//
// A vector file is YAML:
//
//	name: processor_basic
//	equ:
//	  THREE: 3
//	steps:
//	  - asm: li r0, THREE
//	    expect: 0x03
//	  - word: 0x2102
//
// Every step issues exactly one instruction, given either as assembly or as
// a raw word. When expect is present the output latch sampled after the
// step must equal it.
package vectors

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/tt16sim/config"
	"github.com/sarchlab/tt16sim/insts"
)

// Step is one instruction issue.
type Step struct {
	Asm    string  `yaml:"asm,omitempty"`
	Word   *uint16 `yaml:"word,omitempty"`
	Expect *uint8  `yaml:"expect,omitempty"`
	Note   string  `yaml:"note,omitempty"`
}

// File is a named sequence of steps run on a freshly reset emulator.
type File struct {
	Name string `yaml:"name"`

	// ReservedPolicy and ShiftRule override the runner configuration for
	// this file when set.
	ReservedPolicy string `yaml:"reserved_policy,omitempty"`
	ShiftRule      string `yaml:"shift_rule,omitempty"`

	Equ   map[string]int64 `yaml:"equ,omitempty"`
	Steps []Step           `yaml:"steps"`

	// Path is the file the vectors were loaded from, if any.
	Path string `yaml:"-"`
}

// Parse decodes a vector file.
func Parse(r io.Reader) (*File, error) {
	f := &File{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("failed to parse vectors: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// LoadFile reads and parses a vector file.
func LoadFile(filePath string) (*File, error) {
	fh, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open vectors: %w", err)
	}
	defer func() { _ = fh.Close() }()

	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	f.Path = filePath

	return f, nil
}

// Validate checks the structure of the file.
func (f *File) Validate() error {
	if len(f.Steps) == 0 {
		return fmt.Errorf("vectors %q have no steps", f.Name)
	}

	for i, s := range f.Steps {
		if (s.Asm == "") == (s.Word == nil) {
			return fmt.Errorf("step %d: exactly one of asm or word is required", i+1)
		}
	}

	probe := config.DefaultConfig()
	if f.ReservedPolicy != "" {
		probe.ReservedPolicy = f.ReservedPolicy
	}
	if f.ShiftRule != "" {
		probe.ShiftRule = f.ShiftRule
	}

	return probe.Validate()
}

// Words assembles every step into its instruction word.
func (f *File) Words() ([]uint16, error) {
	asm := insts.NewAssembler()
	for name, v := range f.Equ {
		asm.Predefine(name, v)
	}

	words := make([]uint16, len(f.Steps))
	for i, s := range f.Steps {
		if s.Word != nil {
			words[i] = *s.Word
			continue
		}

		word, ok, err := asm.AssembleLine(s.Asm)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if !ok {
			return nil, fmt.Errorf("step %d: %q issues no instruction", i+1, s.Asm)
		}
		words[i] = word
	}

	return words, nil
}

// configure applies the per-file overrides to a copy of base.
func (f *File) configure(base *config.Config) *config.Config {
	cfg := base.Clone()
	if f.ReservedPolicy != "" {
		cfg.ReservedPolicy = f.ReservedPolicy
	}
	if f.ShiftRule != "" {
		cfg.ShiftRule = f.ShiftRule
	}
	return cfg
}

//go:embed corpus/*.yaml
var corpusFS embed.FS

// Corpus returns the vector files shipped with the simulator.
func Corpus() ([]*File, error) {
	entries, err := fs.ReadDir(corpusFS, "corpus")
	if err != nil {
		return nil, err
	}

	files := make([]*File, 0, len(entries))
	for _, entry := range entries {
		name := path.Join("corpus", entry.Name())

		fh, err := corpusFS.Open(name)
		if err != nil {
			return nil, err
		}
		f, err := Parse(fh)
		_ = fh.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		f.Path = name

		files = append(files, f)
	}

	return files, nil
}

func u8(v uint8) *uint8 { return &v }

// Reference returns the instruction sequence of the original processor
// bench: two load immediates followed by ADD, ADDI, SLL and AND, with the
// four ALU results checked.
func Reference() *File {
	return &File{
		Name: "processor_basic",
		Steps: []Step{
			{Asm: "li r0, 3", Note: "load imm 0x3 into r0"},
			{Asm: "li r1, 4", Note: "load imm 0x4 into r1"},
			{Asm: "add r2, r0, r1", Expect: u8(0x07)},
			{Asm: "addi r3, r0, 2", Expect: u8(0x05)},
			{Asm: "sll r4, r0, r1", Expect: u8(0x18), Note: "upper bits of 3 << 4 are cut"},
			{Asm: "and r5, r0, r1", Expect: u8(0x00)},
		},
	}
}
