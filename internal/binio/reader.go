package binio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Reader reads big-endian values from a file through a fixed-size buffer.
//
// A read that runs out of input returns io.EOF if nothing was available and
// io.ErrUnexpectedEOF if the value was cut short. No partial value is ever
// returned.
type Reader struct {
	f   *os.File
	buf []byte
	n   int // valid bytes in buf
	off int // next unread byte in buf
}

// NewReader creates a reader with the given buffer capacity.
func NewReader(bufSize int) *Reader {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Reader{buf: make([]byte, bufSize)}
}

// Open opens an existing file for reading.
func (r *Reader) Open(path string) error {
	if r.f != nil {
		return ErrAlreadyOpen
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open binary file: %w", err)
	}

	r.f = f
	r.n, r.off = 0, 0
	return nil
}

// Seek repositions the reader at offset bytes from the start of the file and
// discards any buffered bytes.
func (r *Reader) Seek(offset int64) error {
	if r.f == nil {
		return ErrNotOpen
	}
	if _, err := r.f.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek binary file: %w", err)
	}
	r.n, r.off = 0, 0
	return nil
}

// fill replaces the buffer contents with the next chunk of the file.
func (r *Reader) fill() error {
	if r.f == nil {
		return ErrNotOpen
	}

	n, err := r.f.Read(r.buf)
	if n > 0 {
		r.n, r.off = n, 0
		return nil
	}
	if err == nil || err == io.EOF {
		return io.EOF
	}
	return fmt.Errorf("read binary file: %w", err)
}

// ReadFull fills p from the stream.
func (r *Reader) ReadFull(p []byte) error {
	for i := 0; i < len(p); {
		if r.off >= r.n {
			if err := r.fill(); err != nil {
				if err == io.EOF && i > 0 {
					return io.ErrUnexpectedEOF
				}
				return err
			}
		}
		c := copy(p[i:], r.buf[r.off:r.n])
		i += c
		r.off += c
	}
	return nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	p := make([]byte, n)
	if err := r.ReadFull(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadString reads bytes up to and including a zero byte, or until maxlen
// bytes have been consumed. The zero byte is not part of the result.
func (r *Reader) ReadString(maxlen int) (string, error) {
	var p []byte
	for range maxlen {
		b, err := r.ReadUint8()
		if err != nil {
			if err == io.EOF && len(p) > 0 {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		if b == 0 {
			break
		}
		p = append(p, b)
	}
	return string(p), nil
}

// ReadUint8 reads a one-byte integer.
func (r *Reader) ReadUint8() (uint8, error) {
	if r.off >= r.n {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

// ReadUint16 reads a two-byte big-endian integer.
func (r *Reader) ReadUint16() (uint16, error) {
	var b [2]byte
	if err := r.ReadFull(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// ReadUint32 reads a four-byte big-endian integer.
func (r *Reader) ReadUint32() (uint32, error) {
	var b [4]byte
	if err := r.ReadFull(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// ReadUint64 reads an eight-byte big-endian integer.
func (r *Reader) ReadUint64() (uint64, error) {
	var b [8]byte
	if err := r.ReadFull(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// ReadFloat64 reads a value written by Writer.WriteFloat64.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Skip advances n bytes without copying them out, refilling the buffer as
// needed.
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d bytes", ErrNegativeSkip, n)
	}
	remaining := r.n - r.off
	if n <= remaining {
		r.off += n
		return nil
	}
	n -= remaining
	r.off = r.n

	for {
		if err := r.fill(); err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		if n <= r.n {
			r.off = n
			return nil
		}
		n -= r.n
		r.off = r.n
	}
}

// Close closes the file. Closing a closed reader is a no-op.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	r.n, r.off = 0, 0
	if err != nil {
		return fmt.Errorf("close binary file: %w", err)
	}
	return nil
}
