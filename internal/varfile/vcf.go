package varfile

import (
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-indel/internal/chrom"
	"github.com/inodb/vibe-indel/internal/variant"
)

// VCFReader reads insertions, deletions and single-base substitutions from
// a VCF file. Columns are tab-separated. Multi-allelic records are split. Indels must be anchored: the
// shorter allele a prefix of the longer one, as VCF writes them. Records
// that cannot be expressed as a variant (complex or symbolic alleles,
// unknown chromosomes) are skipped and counted.
type VCFReader struct {
	src     *source
	pending []*variant.Variant
	skipped int
}

// NewVCFReader opens path for reading; "-" reads standard input. Gzipped
// input is detected by its magic bytes.
func NewVCFReader(path string) (*VCFReader, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	src.split = splitTabs
	return &VCFReader{src: src}, nil
}

// NewVCFReaderFrom reads VCF records from r.
func NewVCFReaderFrom(r io.Reader) (*VCFReader, error) {
	src, err := newSource(r)
	if err != nil {
		return nil, err
	}
	src.split = splitTabs
	return &VCFReader{src: src}, nil
}

// Next reads the next variant.
// Returns nil, nil when there are no more variants.
func (r *VCFReader) Next() (*variant.Variant, error) {
	for len(r.pending) == 0 {
		fields, err := r.src.next()
		if err != nil || fields == nil {
			return nil, err
		}
		if err := r.parseRecord(fields); err != nil {
			return nil, err
		}
	}

	v := r.pending[0]
	r.pending = r.pending[1:]
	return v, nil
}

func (r *VCFReader) parseRecord(fields []string) error {
	if len(fields) < 5 {
		return r.src.errorf("expected at least 5 columns, found %d", len(fields))
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || !variant.ValidPosition(pos) {
		return r.src.errorf("invalid position: %s", fields[1])
	}

	c := chrom.Lookup(fields[0])
	for _, alt := range strings.Split(fields[4], ",") {
		v, ok := fromVCF(c, pos, fields[3], alt)
		if !ok {
			r.skipped++
			continue
		}
		r.pending = append(r.pending, v)
	}
	return nil
}

// splitTabs splits a VCF line into its tab-separated columns.
func splitTabs(line string) []string {
	return strings.Split(line, "\t")
}

// fromVCF converts one anchored VCF allele pair to a variant.
func fromVCF(c chrom.Number, pos int64, ref, alt string) (*variant.Variant, bool) {
	if c == 0 || ref == "" || alt == "" {
		return nil, false
	}
	ref, alt = strings.ToUpper(ref), strings.ToUpper(alt)

	var seq string
	switch {
	case len(ref) == 1 && len(alt) == 1:
		seq = "S" + ref + alt
	case len(alt) > len(ref) && strings.HasPrefix(alt, ref):
		seq = "I" + alt[len(ref):]
		pos += int64(len(ref))
	case len(ref) > len(alt) && strings.HasPrefix(ref, alt):
		seq = "D" + ref[len(alt):]
		pos += int64(len(alt))
	default:
		return nil, false
	}

	if !variant.ValidPosition(pos) {
		return nil, false
	}
	v, err := variant.New(c, uint32(pos), seq)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Skipped returns the number of alleles that could not be converted.
func (r *VCFReader) Skipped() int { return r.skipped }

// LineNumber returns the current line number being processed.
func (r *VCFReader) LineNumber() int { return r.src.lineNumber }

// Close closes the reader and underlying file.
func (r *VCFReader) Close() error { return r.src.close() }
