package genome

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-indel/internal/chrom"
	"github.com/inodb/vibe-indel/internal/twobit"
	"github.com/inodb/vibe-indel/internal/twobit/twobittest"
)

func writeGenome(t *testing.T, records ...twobittest.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ref.2bit")
	require.NoError(t, twobittest.Write(path, records...))
	return path
}

func TestLoad(t *testing.T) {
	path := writeGenome(t,
		twobittest.Record{Name: "chr1", Seq: "TCAGTCAG"},
		twobittest.Record{Name: "chr2", Seq: "AAAACCCCGGGGTTTTNNNNACGT"},
	)

	ref, err := Load(path, twobit.ByChrom(2), 3, 22, Options{BufferSize: 4})
	require.NoError(t, err)

	assert.Equal(t, chrom.Number(2), ref.Chrom())
	assert.Equal(t, "chr2", ref.Name())
	assert.Equal(t, uint32(3), ref.Begin())
	assert.Equal(t, uint32(22), ref.End())
	assert.Equal(t, 20, ref.Len())
	assert.Equal(t, "AACCCCGGGGTTTTNNNNAC", ref.Sequence(3, 22))
	assert.Equal(t, "chr2:3-22", ref.String())
}

func TestLoad_ClampsEnd(t *testing.T) {
	path := writeGenome(t, twobittest.Record{Name: "chr1", Seq: "TCAGTCAG"})

	ref, err := Load(path, twobit.ByChrom(1), 5, 1000, Options{})
	require.NoError(t, err)
	assert.Equal(t, uint32(8), ref.End())
	assert.Equal(t, "TCAG", ref.Sequence(5, 8))
}

func TestLoad_Errors(t *testing.T) {
	path := writeGenome(t, twobittest.Record{Name: "chr1", Seq: "TCAGTCAG"})

	_, err := Load(path, twobit.ByChrom(9), 1, 8, Options{})
	assert.ErrorIs(t, err, twobit.ErrChromNotFound)

	_, err = Load(path, twobit.ByChrom(1), 0, 8, Options{})
	assert.ErrorIs(t, err, twobit.ErrInvalidBegin)

	_, err = Load(path, twobit.ByChrom(1), 6, 5, Options{})
	assert.ErrorIs(t, err, twobit.ErrInvalidBegin)
}

func TestBase_OutsideWindowIsUnknown(t *testing.T) {
	windows := []*Reference{
		New(1, 1, "A"),
		New(1, 100, "ACGTACGT"),
		New(chrom.X, 299999990, "GGGGGGGGGG"),
	}

	for _, ref := range windows {
		t.Run(ref.String(), func(t *testing.T) {
			for _, pos := range []uint32{0, ref.Begin() - 1, ref.End() + 1, ref.End() + 1000, ^uint32(0)} {
				if pos >= ref.Begin() && pos <= ref.End() {
					continue
				}
				assert.Equal(t, Unknown, ref.Base(pos), "pos %d", pos)
			}
			for pos := ref.Begin(); pos <= ref.End(); pos++ {
				assert.NotEqual(t, Unknown, ref.Base(pos), "pos %d", pos)
			}
		})
	}

	empty := New(1, 10, "")
	assert.Equal(t, Unknown, empty.Base(10))
}

func TestSequence_PadsWithUnknown(t *testing.T) {
	ref := New(1, 10, "ACGT")
	assert.Equal(t, "NNACGTN", ref.Sequence(8, 14))
	assert.Equal(t, "", ref.Sequence(12, 11))
}

func TestValidDeletion(t *testing.T) {
	ref := New(7, 100, "GATTACA")

	tests := []struct {
		pos  uint32
		seq  string
		want bool
	}{
		{100, "GATTACA", true},
		{102, "TTA", true},
		{106, "A", true},
		{102, "TTT", false},
		{105, "CAG", false}, // runs past the window
		{99, "G", false},
		{103, "", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ref.ValidDeletion(tt.pos, tt.seq), "%d %s", tt.pos, tt.seq)
	}
}

func TestEquivalenceFromDecodedWindow(t *testing.T) {
	// Reference positions 100-106 hold ATAAAAA.
	seq := make([]byte, 99)
	for i := range seq {
		seq[i] = 'C'
	}
	path := writeGenome(t, twobittest.Record{Name: "chr4", Seq: string(seq) + "ATAAAAA" + "CCCC"})

	ref, err := Load(path, twobit.ByChrom(4), 100, 106, Options{})
	require.NoError(t, err)
	require.Equal(t, "ATAAAAA", ref.Sequence(100, 106))

	assert.True(t, ref.EquivalentInsertions(100, "AT", 103, "TA"))
	assert.False(t, ref.EquivalentInsertions(100, "AT", 103, "AT"))
	assert.True(t, ref.EquivalentDeletions(102, "AA", 103, "AA"))
	assert.False(t, ref.EquivalentDeletions(100, "AT", 102, "AA"))
}
