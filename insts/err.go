package insts

import (
	"errors"
	"fmt"
)

// Assembler errors.
var (
	ErrOpcodeInvalid   = errors.New("opcode invalid")
	ErrRegisterInvalid = errors.New("register invalid")
	ErrOperandCount    = errors.New("wrong number of operands")
	ErrImmediateRange  = errors.New("immediate out of range")
	ErrNumberInvalid   = errors.New("not a number")
	ErrEquateSyntax    = errors.New(".equ syntax")
	ErrEquateDuplicate = errors.New(".equ duplicated")
	ErrExpression      = errors.New("invalid expression")
)

// SyntaxError locates an assembler error in its source.
type SyntaxError struct {
	LineNo int
	Line   string
	Err    error
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("line %d '%v': %v", err.LineNo, err.Line, err.Err)
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}
