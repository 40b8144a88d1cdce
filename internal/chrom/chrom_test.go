package chrom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want Number
	}{
		{"chr1", 1},
		{"1", 1},
		{"chr22", 22},
		{"22", 22},
		{"chrX", X},
		{"X", X},
		{"chrY", Y},
		{"Y", Y},
		{"chrM", 0},
		{"MT", 0},
		{"23", 0},
		{"chr", 0},
		{"", 0},
		{"Chr1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.name))
		})
	}
}

func TestNames(t *testing.T) {
	for n := Number(1); n <= Count; n++ {
		assert.Equal(t, n, Lookup(n.LongName()))
		assert.Equal(t, n, Lookup(n.ShortName()))
		assert.Equal(t, n.LongName(), n.String())
	}

	assert.Equal(t, "chrX", X.LongName())
	assert.Equal(t, "Y", Y.ShortName())
	assert.Equal(t, "", Number(0).LongName())
	assert.Equal(t, "", Number(25).ShortName())
	assert.Equal(t, "chrom(25)", Number(25).String())
}

func TestParse(t *testing.T) {
	n, err := Parse("chr7")
	require.NoError(t, err)
	assert.Equal(t, Number(7), n)

	_, err = Parse("chrUn")
	assert.Error(t, err)
}
