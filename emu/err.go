package emu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnspecifiedBehavior reports an instruction without reference
	// behavior, raised for opcode 00 under ReservedTrap.
	ErrUnspecifiedBehavior = errors.New("unspecified behavior")

	// ErrMaxInstructions reports that the instruction limit was reached.
	ErrMaxInstructions = errors.New("max instructions reached")
)

// UnspecifiedBehaviorError identifies the instruction word that has no
// reference behavior.
type UnspecifiedBehaviorError struct {
	Word uint16
}

func (err *UnspecifiedBehaviorError) Error() string {
	return fmt.Sprintf("reserved opcode in word 0x%04X: %v", err.Word, ErrUnspecifiedBehavior)
}

func (err *UnspecifiedBehaviorError) Unwrap() error {
	return ErrUnspecifiedBehavior
}
