package emulator

import (
	"bufio"
	stdio "io"
	"strconv"
	"strings"

	"github.com/ezrec/mr2a/io"
	"github.com/ezrec/mr2a/translate"
)

// Image is a program image: the bytes loaded into RAM from address 0.
type Image []uint8

// NewImage validates and copies a program image.
func NewImage(data []uint8) (image Image, err error) {
	if len(data) > io.RAM_SIZE {
		err = &ErrImage{Err: &io.ErrRamOverflow{Size: len(data)}}
		return
	}

	image = Image(append([]uint8{}, data...))

	return
}

// ReadImage reads a raw binary program image.
func ReadImage(r stdio.Reader) (image Image, err error) {
	data, err := stdio.ReadAll(stdio.LimitReader(r, io.RAM_SIZE+1))
	if err != nil {
		err = &ErrImage{Err: err}
		return
	}

	return NewImage(data)
}

// ParseImage parses a program image from hex text.
//
// Bytes are one or two hex digits, optionally prefixed with 0x, separated by
// whitespace. A ';' or '#' comments out the rest of the line.
func ParseImage(r stdio.Reader) (image Image, err error) {
	var data []uint8

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if n := strings.IndexAny(line, ";#"); n >= 0 {
			line = line[:n]
		}
		for _, word := range strings.Fields(line) {
			digits := strings.TrimPrefix(strings.ToLower(word), "0x")
			if len(digits) == 0 || len(digits) > 2 {
				err = &ErrImage{LineNo: lineno, Err: ErrImageSyntax(word)}
				return
			}
			var value uint64
			value, err = strconv.ParseUint(digits, 16, 8)
			if err != nil {
				err = &ErrImage{LineNo: lineno, Err: ErrImageSyntax(word)}
				return
			}
			data = append(data, uint8(value))
		}
	}
	if err = scanner.Err(); err != nil {
		err = &ErrImage{LineNo: lineno, Err: err}
		return
	}

	return NewImage(data)
}

// String returns the image as hex text, sixteen bytes per line.
func (image Image) String() string {
	var sb strings.Builder

	for n, value := range image {
		switch {
		case n == 0:
		case n%16 == 0:
			sb.WriteByte('\n')
		default:
			sb.WriteByte(' ')
		}
		sb.WriteString(translate.Hex(value))
	}
	if len(image) > 0 {
		sb.WriteByte('\n')
	}

	return sb.String()
}
