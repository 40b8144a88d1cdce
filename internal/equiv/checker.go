// Package equiv decides whether two variant calls describe the same change to
// a reference genome stored in a 2bit file.
package equiv

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/inodb/vibe-indel/internal/genome"
	"github.com/inodb/vibe-indel/internal/indel"
	"github.com/inodb/vibe-indel/internal/twobit"
	"github.com/inodb/vibe-indel/internal/varfile"
	"github.com/inodb/vibe-indel/internal/variant"
)

// PairSource supplies variant pairs; Next returns nil, nil when exhausted.
type PairSource interface {
	Next() (*varfile.Pair, error)
}

// ResultWriter receives comparison results in input order.
type ResultWriter interface {
	Write(a, b *variant.Variant, equivalent bool) error
}

// Checker compares pairs of variants against a 2bit reference.
//
// Each comparison that needs reference bases decodes its own window, so a
// Checker may be used from several goroutines once configured.
type Checker struct {
	path        string
	maxDistance uint32
	bufferSize  int
	logger      *zap.Logger
}

// NewChecker creates a checker reading reference bases from the 2bit file at
// path.
func NewChecker(path string) *Checker {
	return &Checker{
		path:        path,
		maxDistance: indel.MaxEquivDistance,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and debug messages.
func (c *Checker) SetLogger(l *zap.Logger) {
	c.logger = l
}

// SetMaxDistance sets the largest distance between two indels that may be
// reported equivalent. Zero restores MaxEquivDistance.
func (c *Checker) SetMaxDistance(d uint32) {
	if d == 0 {
		d = indel.MaxEquivDistance
	}
	c.maxDistance = d
}

// SetBufferSize sets the read buffer size used when decoding windows.
func (c *Checker) SetBufferSize(n int) {
	c.bufferSize = n
}

// Path returns the 2bit file the checker reads.
func (c *Checker) Path() string { return c.path }

// Equivalent reports whether a and b yield the same sequence.
//
// Variants on different chromosomes or of different kinds are never
// equivalent. Substitutions are equivalent only when identical. Indels are
// compared with the reference window around them unless they are farther
// apart than the configured maximum distance.
func (c *Checker) Equivalent(a, b *variant.Variant) (bool, error) {
	if a.Chrom() != b.Chrom() || a.Kind() != b.Kind() {
		return false, nil
	}
	if a.IsSubstitution() {
		return a.Pos() == b.Pos() && a.Sequence() == b.Sequence(), nil
	}

	x, y := a.Allele(), b.Allele()
	if len(x) != len(y) {
		return false, nil
	}
	if a.Pos() == b.Pos() {
		return x == y, nil
	}
	if distance(a.Pos(), b.Pos()) > c.maxDistance {
		return false, nil
	}

	var begin, end uint32
	if a.IsInsertion() {
		begin, end = indel.InsertionWindow(a.Pos(), b.Pos())
	} else {
		begin, end = indel.DeletionWindow(a.Pos(), b.Pos(), len(x))
	}

	ref, err := genome.Load(c.path, twobit.ByChrom(a.Chrom()), begin, end, genome.Options{
		BufferSize: c.bufferSize,
		Logger:     c.logger,
	})
	if err != nil {
		return false, fmt.Errorf("compare %s with %s: %w", a, b, err)
	}

	if a.IsInsertion() {
		return ref.EquivalentInsertions(a.Pos(), x, b.Pos(), y), nil
	}

	for _, v := range []*variant.Variant{a, b} {
		if !ref.ValidDeletion(v.Pos(), v.Allele()) {
			c.logger.Warn("deletion does not match reference",
				zap.Stringer("variant", v),
				zap.String("reference", ref.Sequence(v.Pos(), v.Pos()+uint32(len(v.Allele()))-1)))
		}
	}
	return ref.EquivalentDeletions(a.Pos(), x, b.Pos(), y), nil
}

func distance(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// CheckAll compares every pair from src using workers goroutines and writes
// the results to w in input order. Pairs that cannot be compared are logged
// and skipped. It returns the number of pairs written.
func (c *Checker) CheckAll(src PairSource, w ResultWriter, workers int) (int, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	items := make(chan PairItem, 2*workers)
	var readErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			p, err := src.Next()
			if err != nil {
				readErr = fmt.Errorf("read pair: %w", err)
				return
			}
			if p == nil {
				return
			}
			items <- PairItem{Seq: seq, A: p.A, B: p.B, Extra: p.Line}
			seq++
		}
	}()

	written := 0
	err := OrderedCollect(c.ParallelCheck(items, workers), func(r PairResult) error {
		if r.Err != nil {
			c.logger.Warn("failed to compare variants",
				zap.Stringer("variant1", r.A),
				zap.Stringer("variant2", r.B),
				zap.Any("line", r.Extra),
				zap.Error(r.Err))
			return nil
		}
		if err := w.Write(r.A, r.B, r.Equivalent); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		written++
		return nil
	})
	if err != nil {
		return written, err
	}
	return written, readErr
}
