package dqi

// decode.go turns uploaded bytes into text before tabular parsing.
//
// Spreadsheet exports commonly carry a UTF-8 BOM and the occasional invalid
// byte. The BOM is dropped and invalid sequences are replaced with U+FFFD so
// the reader never fails on encoding alone.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomSkippingReader drops a leading UTF-8 BOM from the wrapped reader.
type bomSkippingReader struct {
	br      *bufio.Reader
	checked bool
}

func newBOMSkippingReader(r io.Reader) *bomSkippingReader {
	return &bomSkippingReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (r *bomSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		head, err := r.br.Peek(len(utf8BOM))
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			if _, err := r.br.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return r.br.Read(p)
}

// Decode reads r to completion and returns its content as valid UTF-8 text.
// Any read error is wrapped with ErrRead.
func Decode(r io.Reader) (string, error) {
	var b strings.Builder
	if _, err := io.Copy(&b, newBOMSkippingReader(r)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	return strings.ToValidUTF8(b.String(), "�"), nil
}
