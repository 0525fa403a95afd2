// Package loader provides program image loading for TT16 instruction streams.
package loader

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sarchlab/tt16sim/insts"
)

// Format identifies a program image encoding.
type Format uint8

const (
	// FormatUnknown is returned for unrecognized file extensions.
	FormatUnknown Format = iota
	// FormatBinary is a raw stream of little-endian 16-bit words: the low
	// byte is driven on ui_in and the high byte on uio_in.
	FormatBinary
	// FormatHex is one hexadecimal word per line.
	FormatHex
	// FormatAssembly is TT16 assembly source.
	FormatAssembly
)

func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatHex:
		return "hex"
	case FormatAssembly:
		return "assembly"
	}
	return "unknown"
}

// Program represents a loaded instruction stream ready for execution.
type Program struct {
	// Path is the file the program was loaded from, if any.
	Path string
	// Format is the encoding the program was read from.
	Format Format
	// Words contains the instruction words in issue order.
	Words []uint16
}

// FormatForPath picks an image format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin":
		return FormatBinary
	case ".hex":
		return FormatHex
	case ".s", ".asm":
		return FormatAssembly
	}
	return FormatUnknown
}

// Load reads a program image, choosing the format from the extension.
func Load(path string) (*Program, error) {
	format := FormatForPath(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unknown program format for %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	prog.Path = path

	return prog, nil
}

// Read decodes a program image from r.
func Read(r io.Reader, format Format) (*Program, error) {
	var words []uint16
	var err error

	switch format {
	case FormatBinary:
		words, err = readBinary(r)
	case FormatHex:
		words, err = readHex(r)
	case FormatAssembly:
		words, err = insts.NewAssembler().Parse(r)
	default:
		err = fmt.Errorf("unsupported program format %v", format)
	}
	if err != nil {
		return nil, err
	}

	return &Program{Format: format, Words: words}, nil
}

func readBinary(r io.Reader) ([]uint16, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read binary image: %w", err)
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("binary image has odd length %d", len(data))
	}

	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(data[2*i:])
	}

	return words, nil
}

func readHex(r io.Reader) ([]uint16, error) {
	var words []uint16

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++

		line := scanner.Text()
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(line), "0x"), 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid hex word at line %d: %q", lineno, line)
		}
		words = append(words, uint16(v))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hex image: %w", err)
	}

	return words, nil
}

// WriteBinary encodes words as a raw little-endian image.
func WriteBinary(w io.Writer, words []uint16) error {
	buf := &bytes.Buffer{}
	for _, word := range words {
		_ = binary.Write(buf, binary.LittleEndian, word)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteHex encodes words one per line in hexadecimal.
func WriteHex(w io.Writer, words []uint16) error {
	bw := bufio.NewWriter(w)
	for _, word := range words {
		if _, err := fmt.Fprintf(bw, "%04X\n", word); err != nil {
			return err
		}
	}
	return bw.Flush()
}
