// Package chrom provides human chromosome numbering and naming.
//
// Chromosomes are numbered 1 to 22, with X as 23 and Y as 24. Each has a
// long name ("chr1" .. "chrY") and a short name ("1" .. "Y").
package chrom

import "fmt"

// Count is the number of chromosomes that can be represented.
const Count = 24

// Number identifies a chromosome. The zero value is not a valid chromosome.
type Number uint8

const (
	X Number = 23
	Y Number = 24
)

var longNames = [Count + 1]string{
	"", "chr1", "chr2", "chr3", "chr4",
	"chr5", "chr6", "chr7", "chr8", "chr9",
	"chr10", "chr11", "chr12", "chr13", "chr14",
	"chr15", "chr16", "chr17", "chr18", "chr19",
	"chr20", "chr21", "chr22", "chrX", "chrY",
}

var shortNames = [Count + 1]string{
	"", "1", "2", "3", "4",
	"5", "6", "7", "8", "9",
	"10", "11", "12", "13", "14",
	"15", "16", "17", "18", "19",
	"20", "21", "22", "X", "Y",
}

// Valid reports whether n is in 1..Count.
func (n Number) Valid() bool {
	return n >= 1 && n <= Count
}

// LongName returns the "chr"-prefixed name, or "" for an invalid number.
func (n Number) LongName() string {
	if !n.Valid() {
		return ""
	}
	return longNames[n]
}

// ShortName returns the unprefixed name, or "" for an invalid number.
func (n Number) ShortName() string {
	if !n.Valid() {
		return ""
	}
	return shortNames[n]
}

func (n Number) String() string {
	if !n.Valid() {
		return fmt.Sprintf("chrom(%d)", uint8(n))
	}
	return longNames[n]
}

// Lookup returns the chromosome number for a long or short name, or 0 if the
// name is not recognized. Names longer than three characters are matched
// against long names only.
func Lookup(name string) Number {
	names := &shortNames
	if len(name) > 3 {
		names = &longNames
	}
	for i := Number(1); i <= Count; i++ {
		if names[i] == name {
			return i
		}
	}
	return 0
}

// Parse is like Lookup but returns an error for an unrecognized name.
func Parse(name string) (Number, error) {
	n := Lookup(name)
	if n == 0 {
		return 0, fmt.Errorf("invalid chromosome specification %q", name)
	}
	return n, nil
}
