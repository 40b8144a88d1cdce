// Package twobittest writes small 2bit files for tests.
package twobittest

import (
	"fmt"
	"math/bits"

	"github.com/inodb/vibe-indel/internal/binio"
	"github.com/inodb/vibe-indel/internal/twobit"
)

// Record is one sequence to store. Runs of N become N-blocks and runs of
// lowercase bases become mask blocks.
type Record struct {
	Name string
	Seq  string
}

// Options control the file layout.
type Options struct {
	// Swapped writes every four-byte field byte-reversed, as a writer with
	// the opposite endianness would.
	Swapped bool
}

type block struct {
	start, size uint32
}

var codes = map[byte]byte{'T': 0, 'C': 1, 'A': 2, 'G': 3}

// Write creates a 2bit file at path holding records in order.
func Write(path string, records ...Record) error {
	return WriteWithOptions(path, Options{}, records...)
}

// WriteWithOptions is Write with layout options.
func WriteWithOptions(path string, opts Options, records ...Record) error {
	w := binio.NewWriter(0)
	if err := w.Open(path, true); err != nil {
		return err
	}
	defer w.Close()

	put := func(v uint32) error {
		if opts.Swapped {
			v = bits.ReverseBytes32(v)
		}
		return w.WriteUint32(v)
	}

	for _, v := range []uint32{twobit.Signature, 0, uint32(len(records)), 0} {
		if err := put(v); err != nil {
			return err
		}
	}

	offset := uint32(16)
	for _, rec := range records {
		offset += 1 + uint32(len(rec.Name)) + 4
	}

	for _, rec := range records {
		if len(rec.Name) > 255 {
			return fmt.Errorf("sequence name %q too long", rec.Name)
		}
		if err := w.WriteUint8(uint8(len(rec.Name))); err != nil {
			return err
		}
		if err := w.WriteBytes([]byte(rec.Name)); err != nil {
			return err
		}
		if err := put(offset); err != nil {
			return err
		}
		nb, mb := runs(rec.Seq, isN), runs(rec.Seq, isLower)
		offset += uint32(4*(2*len(nb)+2*len(mb)+4) + (len(rec.Seq)+3)/4)
	}

	for _, rec := range records {
		nb, mb := runs(rec.Seq, isN), runs(rec.Seq, isLower)

		fields := []uint32{uint32(len(rec.Seq)), uint32(len(nb))}
		for _, b := range nb {
			fields = append(fields, b.start)
		}
		for _, b := range nb {
			fields = append(fields, b.size)
		}
		fields = append(fields, uint32(len(mb)))
		for _, b := range mb {
			fields = append(fields, b.start)
		}
		for _, b := range mb {
			fields = append(fields, b.size)
		}
		fields = append(fields, 0)

		for _, v := range fields {
			if err := put(v); err != nil {
				return err
			}
		}
		for _, b := range Pack(rec.Seq) {
			if err := w.WriteUint8(b); err != nil {
				return err
			}
		}
	}

	return w.Close()
}

// Pack encodes seq at four bases per byte, most significant bits first.
// N and other non-ACGT characters are stored as T.
func Pack(seq string) []byte {
	out := make([]byte, (len(seq)+3)/4)
	for i := 0; i < len(seq); i++ {
		c := seq[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i/4] |= codes[c] << (2 * (3 - uint(i%4)))
	}
	return out
}

func isN(c byte) bool     { return c == 'N' || c == 'n' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

// runs returns 0-based maximal runs of characters satisfying pred.
func runs(seq string, pred func(byte) bool) []block {
	var out []block
	for i := 0; i < len(seq); {
		if !pred(seq[i]) {
			i++
			continue
		}
		j := i
		for j < len(seq) && pred(seq[j]) {
			j++
		}
		out = append(out, block{start: uint32(i), size: uint32(j - i)})
		i = j
	}
	return out
}
