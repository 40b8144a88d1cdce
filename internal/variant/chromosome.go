package variant

import (
	"fmt"
	"sort"

	"github.com/inodb/vibe-indel/internal/chrom"
)

// Chromosome holds the positions with observed variants on one chromosome.
type Chromosome struct {
	number    chrom.Number
	positions PositionMap
}

// NewChromosome validates n and constructs an empty Chromosome.
func NewChromosome(n chrom.Number) (*Chromosome, error) {
	if !n.Valid() {
		return nil, fmt.Errorf("invalid chromosome specification %d", uint8(n))
	}
	return &Chromosome{number: n, positions: make(PositionMap)}, nil
}

// ParseChromosome constructs an empty Chromosome from a long or short name.
func ParseChromosome(name string) (*Chromosome, error) {
	n, err := chrom.Parse(name)
	if err != nil {
		return nil, err
	}
	return &Chromosome{number: n, positions: make(PositionMap)}, nil
}

// Number returns the chromosome number.
func (c *Chromosome) Number() chrom.Number { return c.number }

// Save deduplicates v into the chromosome; see PositionMap.Save.
func (c *Chromosome) Save(v *Variant) (*Variant, error) {
	if v.chrom != c.number {
		return nil, fmt.Errorf("variant %s does not belong to %s", v, c)
	}
	return c.positions.Save(v), nil
}

// Position returns the Position at pos, if any variant was saved there.
func (c *Chromosome) Position(pos uint32) (*Position, bool) {
	p, ok := c.positions[pos]
	return p, ok
}

// Positions returns the positions in ascending order.
func (c *Chromosome) Positions() []*Position {
	return c.positions.Sorted()
}

// Len returns the number of distinct variants on the chromosome.
func (c *Chromosome) Len() int {
	n := 0
	for _, p := range c.positions {
		n += p.Len()
	}
	return n
}

func (c *Chromosome) String() string {
	return c.number.LongName()
}

// Catalog deduplicates variants across all chromosomes: it stores at most one
// instance per (chromosome, position, sequence). It is not safe for
// concurrent use.
type Catalog struct {
	chroms map[chrom.Number]*Chromosome
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{chroms: make(map[chrom.Number]*Chromosome)}
}

// Save stores v and returns the stored instance, which is an earlier
// instance when v duplicates it.
func (c *Catalog) Save(v *Variant) *Variant {
	ch, ok := c.chroms[v.chrom]
	if !ok {
		ch = &Chromosome{number: v.chrom, positions: make(PositionMap)}
		c.chroms[v.chrom] = ch
	}
	return ch.positions.Save(v)
}

// Chromosome returns the Chromosome for n, if any variant was saved on it.
func (c *Catalog) Chromosome(n chrom.Number) (*Chromosome, bool) {
	ch, ok := c.chroms[n]
	return ch, ok
}

// Len returns the number of distinct variants stored.
func (c *Catalog) Len() int {
	n := 0
	for _, ch := range c.chroms {
		n += ch.Len()
	}
	return n
}

// Variants returns every stored variant ordered by chromosome, position and
// canonical sequence.
func (c *Catalog) Variants() []*Variant {
	numbers := make([]chrom.Number, 0, len(c.chroms))
	for n := range c.chroms {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	var out []*Variant
	for _, n := range numbers {
		for _, p := range c.chroms[n].Positions() {
			out = append(out, p.Variants()...)
		}
	}
	return out
}
