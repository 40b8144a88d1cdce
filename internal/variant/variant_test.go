package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-indel/internal/chrom"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		chrom    chrom.Number
		pos      uint32
		sequence string
		kind     Kind
		rendered string
	}{
		{"chr5:1000.A.T", 5, 1000, "SAT", Substitution, "chr5.1000.A.T"},
		{"chr3.500.-.ACGT", 3, 500, "IACGT", Insertion, "chr3.500.-.ACGT"},
		{"X:42.CAG.-", chrom.X, 42, "DCAG", Deletion, "chrX.42.CAG.-"},
		{"chrY:300000000.g.c", chrom.Y, 300000000, "SGC", Substitution, "chrY.300000000.G.C"},
		{"1:5.A.T", 1, 5, "SAT", Substitution, "chr1.5.A.T"},
		{"22.17.nna.-", 22, 17, "DNNA", Deletion, "chr22.17.NNA.-"},
		{"chr10:0000000099.-.t", 10, 99, "IT", Insertion, "chr10.99.-.T"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.chrom, v.Chrom())
			assert.Equal(t, tt.pos, v.Pos())
			assert.Equal(t, tt.sequence, v.Sequence())
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.rendered, v.String())

			again, err := Parse(v.String())
			require.NoError(t, err)
			assert.Equal(t, v, again)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"chr5",
		":1000.A.T",
		"chr5:1000.A.A",
		"chr5:1000.A.N",
		"chr5:1000.AC.T",
		"chr5:1000.-.-",
		"chr5:1000.-.ACN",
		"chr5:1000.AXG.-",
		"chr5:1000.A.",
		"chr5:1000..T",
		"chr5:.A.T",
		"chr5:0.A.T",
		"chr5:300000001.A.T",
		"chr5:12345678901.A.T",
		"chr5:10a.A.T",
		"chr25:1000.A.T",
		"chrM:1000.A.T",
		"5chr:1000.A.T",
		"chr5-1000.A.T",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v, err := Parse(input)
			assert.Nil(t, v)
			assert.ErrorIs(t, err, ErrInvalidVariant)
		})
	}
}

func TestNew(t *testing.T) {
	v, err := New(7, 123, "iacgt")
	require.NoError(t, err)
	assert.Equal(t, "IACGT", v.Sequence())
	assert.Equal(t, "ACGT", v.Allele())
	assert.Equal(t, "-", v.Ref())
	assert.Equal(t, "ACGT", v.Alt())
	assert.True(t, v.IsInsertion())
	assert.True(t, v.IsIndel())
	assert.False(t, v.IsSubstitution())

	v, err = New(chrom.X, 1, "DNAN")
	require.NoError(t, err)
	assert.Equal(t, "NAN", v.Ref())
	assert.Equal(t, "-", v.Alt())
	assert.True(t, v.IsDeletion())

	v, err = New(1, MaxPosition, "Sgt")
	require.NoError(t, err)
	assert.Equal(t, "G", v.Ref())
	assert.Equal(t, "T", v.Alt())
	assert.False(t, v.IsIndel())

	invalid := []struct {
		chrom    chrom.Number
		pos      uint32
		sequence string
	}{
		{0, 1, "IA"},
		{25, 1, "IA"},
		{1, 0, "IA"},
		{1, MaxPosition + 1, "IA"},
		{1, 1, ""},
		{1, 1, "I"},
		{1, 1, "IAN"},
		{1, 1, "DAX"},
		{1, 1, "SAA"},
		{1, 1, "SACG"},
		{1, 1, "XAC"},
	}
	for _, tt := range invalid {
		_, err := New(tt.chrom, tt.pos, tt.sequence)
		assert.ErrorIs(t, err, ErrInvalidVariant, "%d %d %q", tt.chrom, tt.pos, tt.sequence)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "insertion", Insertion.String())
	assert.Equal(t, "deletion", Deletion.String())
	assert.Equal(t, "substitution", Substitution.String())
	assert.Equal(t, "Kind('Q')", Kind('Q').String())
}

func TestSequenceHelpers(t *testing.T) {
	assert.True(t, IsACGT('a'))
	assert.True(t, IsACGT('T'))
	assert.False(t, IsACGT('N'))
	assert.True(t, IsACGTN('n'))
	assert.False(t, IsACGTN('-'))

	assert.True(t, IsAllACGT(""))
	assert.True(t, IsAllACGT("acgtACGT"))
	assert.False(t, IsAllACGT("ACGN"))
	assert.True(t, IsAllACGTN("ACGNn"))
	assert.False(t, IsAllACGTN("AC-G"))
}
