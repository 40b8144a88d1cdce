package varfile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vcfInput = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
12	25245350	rs1	C	A	.	PASS	.
chr1	100	.	A	AT	50	PASS	DP=10
chr1	200	.	GCA	G	.	PASS	.
chr2	300	.	T	C,TAA,<DEL>	.	PASS	.
chr3	400	.	AC	GT	.	PASS	.
chrM	10	.	A	G	.	PASS	.
chrX	50	.	ac	acgg	.	.	.
chr4	60	.	G	*	.	.	.
`

func TestVCFReader(t *testing.T) {
	r, err := NewVCFReaderFrom(strings.NewReader(vcfInput))
	require.NoError(t, err)
	defer r.Close()

	var got []string
	for {
		v, err := r.Next()
		require.NoError(t, err)
		if v == nil {
			break
		}
		got = append(got, v.String())
	}

	assert.Equal(t, []string{
		"chr12.25245350.C.A",
		"chr1.101.-.T",
		"chr1.201.CA.-",
		"chr2.300.T.C",
		"chr2.301.-.AA",
		"chrX.52.-.GG",
	}, got)
	// <DEL>, the complex AC>GT, chrM and the * allele
	assert.Equal(t, 4, r.Skipped())
	assert.Equal(t, 10, r.LineNumber())
}

func TestVCFReader_Gzipped(t *testing.T) {
	r, err := NewVCFReader(writeFile(t, "calls.vcf.gz", vcfInput, true))
	require.NoError(t, err)
	defer r.Close()

	v, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "SCA", v.Sequence())
}

func TestVCFReader_Errors(t *testing.T) {
	for _, input := range []string{
		"chr1\t100\t.\tA\n",
		"chr1\tabc\t.\tA\tT\n",
		"chr1\t-5\t.\tA\tT\n",
		"chr1\t0\t.\tA\tT\n",
		"chr1\t300000001\t.\tA\tT\n",
		"chr1 100 . A T\n",
	} {
		r, err := NewVCFReaderFrom(strings.NewReader(input))
		require.NoError(t, err)

		_, err = r.Next()
		var pe *ParseError
		require.True(t, errors.As(err, &pe), "input %q: got %v", input, err)
		assert.Equal(t, 1, pe.Line)
	}
}

func TestVCFReader_InfoWithSpaces(t *testing.T) {
	input := "chr1\t100\t.\tA\tAT\t.\tPASS\tNOTE=two words;DP=3\n" +
		"chr1\t200\t.\tC\tG\t.\tPASS\tNOTE=a b c d\r\n"
	r, err := NewVCFReaderFrom(strings.NewReader(input))
	require.NoError(t, err)
	defer r.Close()

	v, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "chr1.101.-.T", v.String())

	v, err = r.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "chr1.200.C.G", v.String())

	v, err = r.Next()
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Zero(t, r.Skipped())
}
