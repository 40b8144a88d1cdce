// Package genome holds decoded windows of a reference genome and answers base
// and indel queries against them.
package genome

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-indel/internal/chrom"
	"github.com/inodb/vibe-indel/internal/indel"
	"github.com/inodb/vibe-indel/internal/twobit"
)

// Unknown is returned for positions outside the window.
const Unknown byte = 'N'

// Reference is an immutable window [Begin, End] of one chromosome.
//
// Queries outside the window are not errors: they return Unknown. A
// Reference must not be shared between goroutines without external
// synchronization; callers normally load one per query.
type Reference struct {
	chrom      chrom.Number
	name       string
	begin, end uint32
	bases      []byte
}

// Options configure Load.
type Options struct {
	BufferSize int
	Logger     *zap.Logger
}

// Load decodes bases begin..end of the target chromosome from a 2bit file.
// The end is clamped to the chromosome length.
func Load(path string, target twobit.Target, begin, end uint32, opts Options) (*Reference, error) {
	var topts []twobit.Option
	if opts.BufferSize > 0 {
		topts = append(topts, twobit.WithBufferSize(opts.BufferSize))
	}
	if opts.Logger != nil {
		topts = append(topts, twobit.WithLogger(opts.Logger))
	}

	w, err := twobit.Decode(path, target, begin, end, topts...)
	if err != nil {
		return nil, fmt.Errorf("load reference: %w", err)
	}

	return &Reference{
		chrom: target.Chrom,
		name:  w.Name,
		begin: w.Begin,
		end:   w.End,
		bases: w.Bases,
	}, nil
}

// New wraps an in-memory sequence whose first base is at position begin.
func New(c chrom.Number, begin uint32, bases string) *Reference {
	return &Reference{
		chrom: c,
		name:  c.LongName(),
		begin: begin,
		end:   begin + uint32(len(bases)) - 1,
		bases: []byte(bases),
	}
}

// Chrom returns the chromosome number, or 0 for a raw-name target.
func (r *Reference) Chrom() chrom.Number { return r.chrom }

// Name returns the sequence name as stored in the source.
func (r *Reference) Name() string { return r.name }

// Begin returns the first position of the window.
func (r *Reference) Begin() uint32 { return r.begin }

// End returns the last position of the window.
func (r *Reference) End() uint32 { return r.end }

// Len returns the number of bases held.
func (r *Reference) Len() int { return len(r.bases) }

// Base returns the base at pos, or Unknown outside the window.
func (r *Reference) Base(pos uint32) byte {
	if len(r.bases) == 0 || pos < r.begin || pos > r.end {
		return Unknown
	}
	return r.bases[pos-r.begin]
}

// Sequence returns the bases from begin to end; positions outside the window
// read as Unknown.
func (r *Reference) Sequence(begin, end uint32) string {
	if end < begin {
		return ""
	}
	out := make([]byte, 0, end-begin+1)
	for pos := begin; ; pos++ {
		out = append(out, r.Base(pos))
		if pos == end {
			break
		}
	}
	return string(out)
}

// ValidDeletion reports whether seq matches the reference starting at pos.
func (r *Reference) ValidDeletion(pos uint32, seq string) bool {
	for i := 0; i < len(seq); i++ {
		if seq[i] != r.Base(pos+uint32(i)) {
			return false
		}
	}
	return true
}

// EquivalentInsertions reports whether the two insertions yield the same
// sequence against this window.
func (r *Reference) EquivalentInsertions(pos1 uint32, seq1 string, pos2 uint32, seq2 string) bool {
	return indel.EquivalentInsertions(r, pos1, seq1, pos2, seq2)
}

// EquivalentDeletions reports whether the two deletions yield the same
// sequence against this window.
func (r *Reference) EquivalentDeletions(pos1 uint32, seq1 string, pos2 uint32, seq2 string) bool {
	return indel.EquivalentDeletions(r, pos1, seq1, pos2, seq2)
}

func (r *Reference) String() string {
	return fmt.Sprintf("%s:%d-%d", r.name, r.begin, r.end)
}
