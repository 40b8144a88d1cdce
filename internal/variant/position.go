package variant

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/inodb/vibe-indel/internal/chrom"
)

// Position holds the distinct variants observed at one chromosome position,
// keyed by canonical sequence.
type Position struct {
	chrom    chrom.Number
	pos      uint32
	variants map[string]*Variant
}

// NewPosition validates its arguments and constructs an empty Position.
func NewPosition(c chrom.Number, pos uint32) (*Position, error) {
	if !c.Valid() || !ValidPosition(int64(pos)) {
		return nil, fmt.Errorf("%w: %d:%d", ErrInvalidPosition, uint8(c), pos)
	}
	return &Position{chrom: c, pos: pos, variants: make(map[string]*Variant)}, nil
}

// ParsePosition parses "<chrom><sep><pos>", where sep is ':' or '.'.
func ParsePosition(s string) (*Position, error) {
	n := len(s)

	i := 0
	for i < n && s[i] != ':' && s[i] != '.' {
		i++
	}
	if i == 0 || i >= n-1 {
		return nil, fmt.Errorf("%w %q", ErrInvalidPosition, s)
	}

	c := chrom.Lookup(s[:i])
	if c == 0 {
		return nil, fmt.Errorf("%w %q", ErrInvalidPosition, s)
	}
	pos, ok := parsePosition(s[i+1:])
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrInvalidPosition, s)
	}

	return &Position{chrom: c, pos: pos, variants: make(map[string]*Variant)}, nil
}

// Chrom returns the chromosome number.
func (p *Position) Chrom() chrom.Number { return p.chrom }

// Pos returns the 1-based position.
func (p *Position) Pos() uint32 { return p.pos }

// Len returns the number of distinct variants stored.
func (p *Position) Len() int { return len(p.variants) }

// Lookup returns the stored variant with the given canonical sequence.
func (p *Position) Lookup(sequence string) (*Variant, bool) {
	v, ok := p.variants[sequence]
	return v, ok
}

// Variants returns the stored variants ordered by canonical sequence.
func (p *Position) Variants() []*Variant {
	out := make([]*Variant, 0, len(p.variants))
	for _, v := range p.variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// save stores v unless a variant with the same sequence is already present,
// and returns the stored instance.
func (p *Position) save(v *Variant) *Variant {
	if stored, ok := p.variants[v.seq]; ok {
		return stored
	}
	p.variants[v.seq] = v
	return v
}

func (p *Position) String() string {
	return p.chrom.LongName() + "." + strconv.FormatUint(uint64(p.pos), 10)
}

// PositionMap maps positions within one chromosome to their Position.
type PositionMap map[uint32]*Position

// Save stores v in the map and returns the stored instance. If a variant with
// the same position and sequence is already stored, v is discarded and the
// earlier instance is returned. All variants saved in one PositionMap must
// belong to the same chromosome; Chromosome.Save enforces this.
func (m PositionMap) Save(v *Variant) *Variant {
	p, ok := m[v.pos]
	if !ok {
		p = &Position{chrom: v.chrom, pos: v.pos, variants: make(map[string]*Variant)}
		m[v.pos] = p
	}
	return p.save(v)
}

// Sorted returns the positions in ascending order.
func (m PositionMap) Sorted() []*Position {
	out := make([]*Position, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	return out
}
