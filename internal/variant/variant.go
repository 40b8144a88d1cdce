// Package variant provides a canonical representation of indels and SNVs and
// content-addressed deduplication of variant calls.
package variant

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/vibe-indel/internal/chrom"
)

// MaxPosition is the largest valid position within a chromosome.
const MaxPosition = 300000000

var (
	ErrInvalidVariant  = errors.New("invalid variant specification")
	ErrInvalidPosition = errors.New("invalid position specification")
)

// Kind is the type tag that starts a canonical sequence.
type Kind byte

const (
	Insertion    Kind = 'I'
	Deletion     Kind = 'D'
	Substitution Kind = 'S'
)

func (k Kind) String() string {
	switch k {
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	case Substitution:
		return "substitution"
	}
	return fmt.Sprintf("Kind(%q)", byte(k))
}

// Variant is an insertion, deletion or single-base substitution at a
// chromosome position. Variants are immutable.
//
// The canonical sequence is the kind tag followed by the upper-cased allele
// payload: "I<alt>", "D<ref>" or "S<ref><alt>".
type Variant struct {
	chrom chrom.Number
	pos   uint32
	seq   string
}

// ValidPosition reports whether pos is in 1..MaxPosition.
func ValidPosition(pos int64) bool {
	return pos >= 1 && pos <= MaxPosition
}

// New validates its arguments and constructs a Variant. The sequence is
// case-insensitive.
func New(c chrom.Number, pos uint32, sequence string) (*Variant, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: chromosome %d", ErrInvalidVariant, uint8(c))
	}
	if !ValidPosition(int64(pos)) {
		return nil, fmt.Errorf("%w: position %d", ErrInvalidVariant, pos)
	}
	if len(sequence) < 2 {
		return nil, fmt.Errorf("%w: sequence %q", ErrInvalidVariant, sequence)
	}

	seq := strings.ToUpper(sequence)
	payload := seq[1:]

	switch Kind(seq[0]) {
	case Insertion:
		if IsAllACGT(payload) {
			return &Variant{chrom: c, pos: pos, seq: seq}, nil
		}
	case Deletion:
		if IsAllACGTN(payload) {
			return &Variant{chrom: c, pos: pos, seq: seq}, nil
		}
	case Substitution:
		if len(payload) == 2 && IsAllACGT(payload) && payload[0] != payload[1] {
			return &Variant{chrom: c, pos: pos, seq: seq}, nil
		}
	}
	return nil, fmt.Errorf("%w: sequence %q", ErrInvalidVariant, sequence)
}

// Parse parses "<chrom><sep><pos>.<ref>.<alt>", where sep is ':' or '.'.
// A ref of "-" denotes an insertion of alt, an alt of "-" a deletion of ref,
// and distinct single-base ref and alt a substitution. For example
// "chr5:1000.A.T", "chr3.500.-.ACGT" and "X:42.CAG.-".
func Parse(s string) (*Variant, error) {
	n := len(s)

	i := 0
	for i < n && s[i] != ':' && s[i] != '.' {
		i++
	}
	if i == 0 || i >= n-5 {
		return nil, invalidSpec(s)
	}

	c := chrom.Lookup(s[:i])
	if c == 0 {
		return nil, invalidSpec(s)
	}

	j := i + 1
	for j < n && s[j] != '.' {
		j++
	}
	if j == i+1 || j >= n-3 {
		return nil, invalidSpec(s)
	}

	pos, ok := parsePosition(s[i+1 : j])
	if !ok {
		return nil, invalidSpec(s)
	}

	k := j + 1
	for k < n && s[k] != '.' {
		k++
	}
	if k == j+1 || k >= n-1 {
		return nil, invalidSpec(s)
	}

	ref := strings.ToUpper(s[j+1 : k])
	alt := strings.ToUpper(s[k+1:])

	var seq string
	switch {
	case ref == "-" && IsAllACGT(alt):
		seq = string(Insertion) + alt
	case alt == "-" && IsAllACGTN(ref):
		seq = string(Deletion) + ref
	case len(ref) == 1 && len(alt) == 1 && IsACGT(ref[0]) && IsACGT(alt[0]) && ref != alt:
		seq = string(Substitution) + ref + alt
	default:
		return nil, invalidSpec(s)
	}

	return &Variant{chrom: c, pos: pos, seq: seq}, nil
}

func invalidSpec(s string) error {
	return fmt.Errorf("%w %q", ErrInvalidVariant, s)
}

// parsePosition converts 1 to 10 decimal digits to a valid position.
func parsePosition(s string) (uint32, bool) {
	if len(s) < 1 || len(s) > 10 {
		return 0, false
	}
	var v int64
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		v = 10*v + int64(s[i]-'0')
	}
	if !ValidPosition(v) {
		return 0, false
	}
	return uint32(v), true
}

// Chrom returns the chromosome number.
func (v *Variant) Chrom() chrom.Number { return v.chrom }

// Pos returns the 1-based position.
func (v *Variant) Pos() uint32 { return v.pos }

// Sequence returns the canonical sequence, e.g. "IACGT".
func (v *Variant) Sequence() string { return v.seq }

// Kind returns the type tag.
func (v *Variant) Kind() Kind { return Kind(v.seq[0]) }

// Allele returns the payload after the type tag: the inserted bases, the
// deleted bases, or ref followed by alt for a substitution.
func (v *Variant) Allele() string { return v.seq[1:] }

func (v *Variant) IsInsertion() bool    { return v.Kind() == Insertion }
func (v *Variant) IsDeletion() bool     { return v.Kind() == Deletion }
func (v *Variant) IsSubstitution() bool { return v.Kind() == Substitution }
func (v *Variant) IsIndel() bool        { return v.IsInsertion() || v.IsDeletion() }

// Ref returns the reference allele in textual form ("-" for an insertion).
func (v *Variant) Ref() string {
	switch v.Kind() {
	case Insertion:
		return "-"
	case Substitution:
		return v.seq[1:2]
	}
	return v.seq[1:]
}

// Alt returns the alternate allele in textual form ("-" for a deletion).
func (v *Variant) Alt() string {
	switch v.Kind() {
	case Deletion:
		return "-"
	case Substitution:
		return v.seq[2:3]
	}
	return v.seq[1:]
}

// String renders the variant as "<chrN>.<pos>.<ref>.<alt>", which Parse
// accepts.
func (v *Variant) String() string {
	return v.chrom.LongName() + "." + strconv.FormatUint(uint64(v.pos), 10) + "." + v.Ref() + "." + v.Alt()
}
