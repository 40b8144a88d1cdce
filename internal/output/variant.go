package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-indel/internal/variant"
)

// VariantWriter writes variants in tab-delimited format, one per line.
type VariantWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewVariantWriter creates a new variant writer.
func NewVariantWriter(w io.Writer) *VariantWriter {
	return &VariantWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Variant",
			"Chrom",
			"Pos",
			"Type",
			"Ref",
			"Alt",
			"Sequence",
		},
	}
}

// WriteHeader writes the header line.
func (vw *VariantWriter) WriteHeader() error {
	_, err := vw.w.WriteString(strings.Join(vw.columns, "\t") + "\n")
	return err
}

// Write writes a single variant.
func (vw *VariantWriter) Write(v *variant.Variant) error {
	values := []string{
		v.String(),
		v.Chrom().ShortName(),
		strconv.FormatUint(uint64(v.Pos()), 10),
		v.Kind().String(),
		v.Ref(),
		v.Alt(),
		v.Sequence(),
	}
	_, err := vw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (vw *VariantWriter) Flush() error {
	return vw.w.Flush()
}
