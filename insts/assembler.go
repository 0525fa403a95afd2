package insts

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler translates TT16 assembly text into instruction words.
//
// Syntax, one statement per line:
//
//	li    rW, imm
//	add   rW, r1, rB      ; and, sll, alu.N
//	addi  rW, r1, imm     ; andi, slli, alui.N
//	.word value           ; raw 16-bit word
//	.equ  NAME value      ; named constant
//
// Values are decimal, 0x hex, 0b binary, an equate name, or a $(expr)
// Starlark expression over the equates. Comments start with ';' or '#'.
type Assembler struct {
	Equate map[string]int64 // Equates visible to the current parse.

	predefine map[string]int64
}

// NewAssembler creates an assembler with no predefined equates.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Predefine defines an equate that is visible to every subsequent parse.
func (asm *Assembler) Predefine(name string, value int64) {
	if asm.predefine == nil {
		asm.predefine = map[string]int64{}
	}
	asm.predefine[name] = value
}

// Parse assembles a whole source text.
func (asm *Assembler) Parse(input io.Reader) (words []uint16, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &SyntaxError{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.reset()

	for scanner.Scan() {
		lineno++
		line = strings.TrimSpace(scanner.Text())

		var word uint16
		var ok bool
		word, ok, err = asm.assemble(line)
		if err != nil {
			return nil, err
		}
		if ok {
			words = append(words, word)
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, err
	}

	return words, nil
}

// AssembleLine assembles a single statement using the equates of the last
// Parse (or the predefines if Parse was never called). ok is false for
// blank lines, comments and directives that emit no word.
func (asm *Assembler) AssembleLine(line string) (word uint16, ok bool, err error) {
	if asm.Equate == nil {
		asm.reset()
	}

	word, ok, err = asm.assemble(strings.TrimSpace(line))
	if err != nil {
		err = &SyntaxError{LineNo: 1, Line: line, Err: err}
	}

	return word, ok, err
}

func (asm *Assembler) reset() {
	asm.Equate = maps.Clone(asm.predefine)
	if asm.Equate == nil {
		asm.Equate = map[string]int64{}
	}
}

func stripComment(line string) string {
	if i := strings.IndexAny(line, ";#"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func (asm *Assembler) assemble(line string) (word uint16, ok bool, err error) {
	line = stripComment(line)
	if line == "" {
		return 0, false, nil
	}

	line, err = asm.expandExpressions(line)
	if err != nil {
		return 0, false, err
	}

	fields := splitOperands(line)
	if len(fields) == 0 {
		return 0, false, nil
	}
	mnemonic := strings.ToLower(fields[0])
	args := fields[1:]

	switch mnemonic {
	case ".equ":
		return 0, false, asm.defineEquate(args)
	case ".word":
		if len(args) != 1 {
			return 0, false, ErrOperandCount
		}
		var v int64
		v, err = asm.valueOf(args[0])
		if err != nil {
			return 0, false, err
		}
		if v < 0 || v > 0xFFFF {
			return 0, false, ErrImmediateRange
		}
		return uint16(v), true, nil
	case "li":
		if len(args) != 2 {
			return 0, false, ErrOperandCount
		}
		var rw, imm uint8
		if rw, err = parseRegister(args[0]); err != nil {
			return 0, false, err
		}
		if imm, err = asm.immediate(args[1]); err != nil {
			return 0, false, err
		}
		return LI(rw, imm), true, nil
	}

	fn, class, err := parseALUMnemonic(mnemonic)
	if err != nil {
		return 0, false, err
	}
	if len(args) != 3 {
		return 0, false, ErrOperandCount
	}

	var rw, r1, b uint8
	if rw, err = parseRegister(args[0]); err != nil {
		return 0, false, err
	}
	if r1, err = parseRegister(args[1]); err != nil {
		return 0, false, err
	}

	if class == ClassALUReg {
		if b, err = parseRegister(args[2]); err != nil {
			return 0, false, err
		}
		return ALU(fn, rw, r1, b), true, nil
	}

	if b, err = asm.immediate(args[2]); err != nil {
		return 0, false, err
	}
	return ALUImm(fn, rw, r1, b), true, nil
}

var aluMnemonics = map[string]Func{
	"and": FuncAND,
	"add": FuncADD,
	"sll": FuncSLL,
}

// parseALUMnemonic accepts and/add/sll, alu.N and their immediate forms.
func parseALUMnemonic(mnemonic string) (Func, Class, error) {
	if fn, ok := aluMnemonics[mnemonic]; ok {
		return fn, ClassALUReg, nil
	}
	if base, ok := strings.CutSuffix(mnemonic, "i"); ok {
		if fn, ok := aluMnemonics[base]; ok {
			return fn, ClassALUImm, nil
		}
	}

	class := ClassALUReg
	code, ok := strings.CutPrefix(mnemonic, "alu.")
	if !ok {
		code, ok = strings.CutPrefix(mnemonic, "alui.")
		class = ClassALUImm
	}
	if !ok {
		return 0, 0, ErrOpcodeInvalid
	}

	n, err := strconv.ParseUint(code, 0, 8)
	if err != nil || n > funcMask {
		return 0, 0, ErrOpcodeInvalid
	}

	return Func(n), class, nil
}

func splitOperands(rest string) []string {
	return strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

func parseRegister(word string) (uint8, error) {
	word = strings.ToLower(word)
	if len(word) != 2 || word[0] != 'r' || word[1] < '0' || word[1] > '7' {
		return 0, fmt.Errorf("%w: %q", ErrRegisterInvalid, word)
	}
	return word[1] - '0', nil
}

func (asm *Assembler) immediate(word string) (uint8, error) {
	v, err := asm.valueOf(word)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > MaxImm {
		return 0, fmt.Errorf("%w: %d", ErrImmediateRange, v)
	}
	return uint8(v), nil
}

// valueOf resolves a literal number or an equate name.
func (asm *Assembler) valueOf(word string) (int64, error) {
	if v, ok := asm.Equate[word]; ok {
		return v, nil
	}

	v, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumberInvalid, word)
	}
	return v, nil
}

func (asm *Assembler) defineEquate(args []string) error {
	if len(args) != 2 {
		return ErrEquateSyntax
	}

	name := args[0]
	if _, dup := asm.Equate[name]; dup {
		return fmt.Errorf("%w: %v", ErrEquateDuplicate, name)
	}

	v, err := asm.valueOf(args[1])
	if err != nil {
		return err
	}
	asm.Equate[name] = v

	return nil
}

// expandExpressions replaces every $(expr) in the line by its decimal value.
func (asm *Assembler) expandExpressions(line string) (string, error) {
	for {
		start := strings.Index(line, "$(")
		if start < 0 {
			return line, nil
		}

		depth := 0
		end := -1
		for i := start + 1; i < len(line) && end < 0; i++ {
			switch line[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = i
				}
			}
		}
		if end < 0 {
			return "", fmt.Errorf("%w: unbalanced %q", ErrExpression, line[start:])
		}

		v, err := asm.eval(line[start+2 : end])
		if err != nil {
			return "", err
		}

		line = line[:start] + strconv.FormatInt(v, 10) + line[end+1:]
	}
}

// eval evaluates a Starlark expression with the equates in scope.
func (asm *Assembler) eval(expr string) (int64, error) {
	thread := &starlark.Thread{Name: "asm"}
	opts := &syntax.FileOptions{}

	env := starlark.StringDict{}
	for name, v := range asm.Equate {
		env[name] = starlark.MakeInt64(v)
	}

	rv, err := starlark.EvalOptions(opts, thread, "expr", expr, env)
	if err != nil {
		return 0, fmt.Errorf("%w: $(%v): %v", ErrExpression, expr, err)
	}

	i, ok := rv.(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("%w: $(%v) is %v", ErrExpression, expr, rv.Type())
	}
	v, ok := i.Int64()
	if !ok {
		return 0, fmt.Errorf("%w: $(%v) overflows", ErrExpression, expr)
	}

	return v, nil
}
