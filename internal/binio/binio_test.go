package binio

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openWriter(t *testing.T, bufSize int) (*Writer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	w := NewWriter(bufSize)
	require.NoError(t, w.Open(path, true))
	t.Cleanup(func() { w.Close() })
	return w, path
}

func openReader(t *testing.T, path string, bufSize int) *Reader {
	t.Helper()
	r := NewReader(bufSize)
	require.NoError(t, r.Open(path))
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRoundTrip_Integers(t *testing.T) {
	u8 := []uint8{0, 1, 0x7F, 0x80, math.MaxUint8}
	u16 := []uint16{0, 1, 0x1234, 0x8000, math.MaxUint16}
	u32 := []uint32{0, 1, 0x1A412743, 0x80000000, math.MaxUint32}
	u64 := []uint64{0, 1, 0x0123456789ABCDEF, 1 << 63, math.MaxUint64}

	// A tiny buffer forces values to straddle refills on the read side.
	w, path := openWriter(t, 16)
	for _, v := range u8 {
		require.NoError(t, w.WriteUint8(v))
	}
	for _, v := range u16 {
		require.NoError(t, w.WriteUint16(v))
	}
	for _, v := range u32 {
		require.NoError(t, w.WriteUint32(v))
	}
	for _, v := range u64 {
		require.NoError(t, w.WriteUint64(v))
	}
	require.NoError(t, w.Close())

	r := openReader(t, path, 3)
	for _, want := range u8 {
		got, err := r.ReadUint8()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	for _, want := range u16 {
		got, err := r.ReadUint16()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	for _, want := range u32 {
		got, err := r.ReadUint32()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	for _, want := range u64 {
		got, err := r.ReadUint64()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := r.ReadUint8()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRoundTrip_Float64BitExact(t *testing.T) {
	values := []float64{
		0,
		math.Copysign(0, -1),
		1.5,
		-3.25e-300,
		math.MaxFloat64,
		math.SmallestNonzeroFloat64,
		math.Inf(1),
		math.Inf(-1),
		math.NaN(),
		math.Float64frombits(0x7FF8000000000ABC), // NaN with payload
	}

	w, path := openWriter(t, 0)
	for _, v := range values {
		require.NoError(t, w.WriteFloat64(v))
	}
	require.NoError(t, w.Close())

	r := openReader(t, path, 5)
	for _, want := range values {
		got, err := r.ReadFloat64()
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(want), math.Float64bits(got))
	}
}

func TestWriter_BigEndianLayout(t *testing.T) {
	w, path := openWriter(t, 0)
	require.NoError(t, w.WriteUint32(0x1A412743))
	require.NoError(t, w.WriteUint16(0xBEEF))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1A, 0x41, 0x27, 0x43, 0xBE, 0xEF}, data)
}

func TestWriter_FlushOnOverflow(t *testing.T) {
	w, path := openWriter(t, 8)

	require.NoError(t, w.WriteUint32(1))
	require.NoError(t, w.WriteUint32(2))
	assert.Equal(t, uint64(8), w.BytesWritten())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size(), "buffer exactly full should not flush yet")

	require.NoError(t, w.WriteUint8(3))
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(8), info.Size())
	assert.Equal(t, uint64(9), w.BytesWritten())

	require.NoError(t, w.Close())
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size())
}

func TestWriter_OversizedWrite(t *testing.T) {
	w, _ := openWriter(t, 4)

	err := w.WriteUint64(42)
	assert.ErrorIs(t, err, ErrOversizedWrite)

	err = w.WriteString("abcd") // 5 bytes with terminator
	assert.ErrorIs(t, err, ErrOversizedWrite)

	assert.Equal(t, uint64(0), w.BytesWritten())
}

func TestWriter_NotOpen(t *testing.T) {
	w := NewWriter(0)
	assert.ErrorIs(t, w.WriteUint8(1), ErrNotOpen)
	assert.ErrorIs(t, w.Flush(), ErrNotOpen)
	assert.NoError(t, w.Close())
}

func TestWriter_CloseIdempotent(t *testing.T) {
	w, _ := openWriter(t, 0)
	require.NoError(t, w.WriteUint8(1))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, uint64(1), w.BytesWritten())
}

func TestWriter_OpenTwice(t *testing.T) {
	w, path := openWriter(t, 0)
	assert.ErrorIs(t, w.Open(path, false), ErrAlreadyOpen)
}

func TestWriter_OpenExistingWithoutCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.bin")
	w := NewWriter(0)
	assert.Error(t, w.Open(path, false))
}

func TestReader_Strings(t *testing.T) {
	w, path := openWriter(t, 0)
	require.NoError(t, w.WriteString("chr1"))
	require.NoError(t, w.WriteString(""))
	require.NoError(t, w.WriteString("truncated"))
	require.NoError(t, w.Close())

	r := openReader(t, path, 4)

	s, err := r.ReadString(64)
	require.NoError(t, err)
	assert.Equal(t, "chr1", s)

	s, err = r.ReadString(64)
	require.NoError(t, err)
	assert.Equal(t, "", s)

	s, err = r.ReadString(5)
	require.NoError(t, err)
	assert.Equal(t, "trunc", s)

	s, err = r.ReadString(64)
	require.NoError(t, err)
	assert.Equal(t, "ated", s)
}

func TestReader_SkipAcrossRefills(t *testing.T) {
	w, path := openWriter(t, 0)
	for i := range 100 {
		require.NoError(t, w.WriteUint8(uint8(i)))
	}
	require.NoError(t, w.Close())

	r := openReader(t, path, 7)

	require.NoError(t, r.Skip(3))
	b, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(3), b)

	require.NoError(t, r.Skip(50))
	b, err = r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(54), b)

	require.NoError(t, r.Skip(45))
	assert.ErrorIs(t, r.Skip(1), io.ErrUnexpectedEOF)
}

func TestReader_SkipNegative(t *testing.T) {
	w, path := openWriter(t, 0)
	for i := range 10 {
		require.NoError(t, w.WriteUint8(uint8(i)))
	}
	require.NoError(t, w.Close())

	r := openReader(t, path, 4)
	b, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), b)

	assert.ErrorIs(t, r.Skip(-3), ErrNegativeSkip)

	// The position is unchanged.
	b, err = r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), b)
}

func TestReader_Seek(t *testing.T) {
	w, path := openWriter(t, 0)
	for i := range 10 {
		require.NoError(t, w.WriteUint32(uint32(i)))
	}
	require.NoError(t, w.Close())

	r := openReader(t, path, 6)
	_, err := r.ReadUint32()
	require.NoError(t, err)

	require.NoError(t, r.Seek(4*7))
	v, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v)

	require.NoError(t, r.Seek(0))
	v, err = r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v)
}

func TestReader_TruncatedValue(t *testing.T) {
	w, path := openWriter(t, 0)
	require.NoError(t, w.WriteUint16(0xABCD))
	require.NoError(t, w.Close())

	r := openReader(t, path, 0)
	v, err := r.ReadUint32()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, uint32(0), v)

	require.NoError(t, r.Seek(0))
	p, err := r.ReadBytes(3)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Nil(t, p)
}

func TestReader_NotOpen(t *testing.T) {
	r := NewReader(0)
	_, err := r.ReadUint8()
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, r.Seek(0), ErrNotOpen)
	assert.NoError(t, r.Close())
}

func TestReader_OpenMissing(t *testing.T) {
	r := NewReader(0)
	err := r.Open(filepath.Join(t.TempDir(), "nope.bin"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
