package renderer

import (
	"bytes"
	"io"
)

// ConditionalBlock renders block into a buffer and copies it to w only when
// block reports that the section is worth printing.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	var buf bytes.Buffer
	if block(&buf) {
		buf.WriteTo(w)
	}
}
