// Package output provides tab-delimited result writers.
package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/vibe-indel/internal/variant"
)

// PairWriter writes variant-pair comparison results in tab-delimited format.
type PairWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewPairWriter creates a new pair result writer.
func NewPairWriter(w io.Writer) *PairWriter {
	return &PairWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Variant1",
			"Variant2",
			"Type",
			"Equivalent",
		},
	}
}

// WriteHeader writes the header line.
func (pw *PairWriter) WriteHeader() error {
	_, err := pw.w.WriteString(strings.Join(pw.columns, "\t") + "\n")
	return err
}

// Write writes the result of comparing a with b.
func (pw *PairWriter) Write(a, b *variant.Variant, equivalent bool) error {
	kind := a.Kind().String()
	if b.Kind() != a.Kind() {
		kind = "mixed"
	}

	eq := "NO"
	if equivalent {
		eq = "YES"
	}

	values := []string{a.String(), b.String(), kind, eq}
	_, err := pw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (pw *PairWriter) Flush() error {
	return pw.w.Flush()
}
