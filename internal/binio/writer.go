// Package binio provides buffered big-endian binary file I/O.
//
// Writer and Reader impose no record schema; callers define one with the
// fixed-width operations. Neither type is safe for concurrent use.
package binio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// DefaultBufferSize is the buffer capacity used when a size <= 0 is requested.
const DefaultBufferSize = 1 << 20

var (
	ErrNotOpen        = errors.New("binary file not open")
	ErrAlreadyOpen    = errors.New("binary file already open")
	ErrOversizedWrite = errors.New("binary write larger than buffer")
	ErrNegativeSkip   = errors.New("negative binary skip")
)

// Writer buffers big-endian values and writes them to a file in whole-buffer
// chunks.
type Writer struct {
	f       *os.File
	buf     []byte // pending bytes; cap is the fixed capacity
	flushed uint64
}

// NewWriter creates a writer with the given buffer capacity.
func NewWriter(bufSize int) *Writer {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Writer{buf: make([]byte, 0, bufSize)}
}

// Open opens path for writing. When create is true the file is created or
// truncated; otherwise an existing file is overwritten from its start.
func (w *Writer) Open(path string, create bool) error {
	if w.f != nil {
		return ErrAlreadyOpen
	}

	flag := os.O_WRONLY
	if create {
		flag |= os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return fmt.Errorf("open binary file: %w", err)
	}

	w.f = f
	w.buf = w.buf[:0]
	w.flushed = 0
	return nil
}

// WriteBytes appends p as a single unit. If p does not fit in the remaining
// buffer space the buffer is flushed first.
func (w *Writer) WriteBytes(p []byte) error {
	if w.f == nil {
		return ErrNotOpen
	}
	if len(p) > cap(w.buf) {
		return fmt.Errorf("%w: %d bytes, capacity %d", ErrOversizedWrite, len(p), cap(w.buf))
	}
	if len(w.buf)+len(p) > cap(w.buf) {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	w.buf = append(w.buf, p...)
	return nil
}

// WriteString writes the bytes of s followed by a terminating zero byte.
func (w *Writer) WriteString(s string) error {
	p := make([]byte, len(s)+1)
	copy(p, s)
	return w.WriteBytes(p)
}

// WriteUint8 writes a one-byte integer.
func (w *Writer) WriteUint8(v uint8) error {
	return w.WriteBytes([]byte{v})
}

// WriteUint16 writes a two-byte big-endian integer.
func (w *Writer) WriteUint16(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return w.WriteBytes(b[:])
}

// WriteUint32 writes a four-byte big-endian integer.
func (w *Writer) WriteUint32(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return w.WriteBytes(b[:])
}

// WriteUint64 writes an eight-byte big-endian integer.
func (w *Writer) WriteUint64(v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return w.WriteBytes(b[:])
}

// WriteFloat64 writes the raw IEEE-754 bit pattern of v.
func (w *Writer) WriteFloat64(v float64) error {
	return w.WriteUint64(math.Float64bits(v))
}

// Flush writes all pending bytes to the file.
func (w *Writer) Flush() error {
	if w.f == nil {
		return ErrNotOpen
	}
	if len(w.buf) == 0 {
		return nil
	}

	n, err := w.f.Write(w.buf)
	if err != nil {
		return fmt.Errorf("write binary file: %w", err)
	}
	if n != len(w.buf) {
		return fmt.Errorf("write binary file: %w", io.ErrShortWrite)
	}

	w.flushed += uint64(n)
	w.buf = w.buf[:0]
	return nil
}

// BytesWritten returns the number of bytes flushed plus those still pending.
func (w *Writer) BytesWritten() uint64 {
	return w.flushed + uint64(len(w.buf))
}

// Close flushes pending bytes and closes the file. The file is released even
// when the flush fails. Closing a closed writer is a no-op.
func (w *Writer) Close() error {
	if w.f == nil {
		return nil
	}

	flushErr := w.Flush()
	closeErr := w.f.Close()
	w.f = nil
	w.buf = w.buf[:0]

	if flushErr != nil {
		return flushErr
	}
	if closeErr != nil {
		return fmt.Errorf("close binary file: %w", closeErr)
	}
	return nil
}
