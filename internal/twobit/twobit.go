// Package twobit decodes windows of reference sequence from UCSC 2bit files.
//
// A 2bit file starts with a 16-byte header (signature, version, sequence
// count, reserved) followed by an index of {name length, name, offset}
// entries. Each indexed sequence has its own header (base count, N-blocks,
// mask blocks, reserved) followed by bases packed four to a byte, most
// significant bits first, using T=0, C=1, A=2, G=3.
package twobit

import (
	"errors"
	"fmt"
	"math/bits"

	"go.uber.org/zap"

	"github.com/inodb/vibe-indel/internal/binio"
	"github.com/inodb/vibe-indel/internal/chrom"
)

// Signature is the 2bit magic number in the writer's native byte order.
const Signature uint32 = 0x1A412743

// Symbols maps a 2-bit code to its base.
var Symbols = [4]byte{'T', 'C', 'A', 'G'}

var (
	ErrNotTwoBit     = errors.New("not a 2bit file")
	ErrTruncated     = errors.New("truncated 2bit file")
	ErrChromNotFound = errors.New("chromosome not found")
	ErrInvalidBegin  = errors.New("invalid begin position")
	ErrInvalidChrom  = errors.New("invalid chromosome specification")
)

// Target selects the sequence to decode. When Name is set it must equal an
// index name exactly; otherwise the index name must be the long or short
// name of Chrom.
type Target struct {
	Chrom chrom.Number
	Name  string
}

// ByName returns a target that matches a raw index name.
func ByName(name string) Target {
	return Target{Name: name}
}

// ByChrom returns a target that matches the conventional names of n.
func ByChrom(n chrom.Number) Target {
	return Target{Chrom: n}
}

func (t Target) valid() bool {
	return t.Name != "" || t.Chrom.Valid()
}

func (t Target) matches(name string) bool {
	if t.Name != "" {
		return name == t.Name
	}
	return name == t.Chrom.ShortName() || name == t.Chrom.LongName()
}

func (t Target) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Chrom.ShortName()
}

// Window is a decoded, inclusive 1-based range of one sequence.
type Window struct {
	Name   string // index name that matched the target
	Length uint32 // total bases in the sequence
	Begin  uint32
	End    uint32 // clamped to Length
	Bases  []byte // len == End-Begin+1; A, C, G, T or N
}

// Option configures decoding.
type Option func(*decoder)

// WithBufferSize sets the read buffer capacity.
func WithBufferSize(n int) Option {
	return func(d *decoder) { d.bufSize = n }
}

// WithLogger sets the logger for debug messages.
func WithLogger(l *zap.Logger) Option {
	return func(d *decoder) { d.logger = l }
}

type decoder struct {
	path    string
	r       *binio.Reader
	swap    bool
	bufSize int
	logger  *zap.Logger
}

type indexEntry struct {
	name   string
	offset uint32
}

// nBlock is an inclusive 1-based run of unknown bases.
type nBlock struct {
	start, stop uint32
}

func newDecoder(path string, opts []Option) *decoder {
	d := &decoder{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	d.r = binio.NewReader(d.bufSize)
	return d
}

// Decode extracts bases begin..end (1-based, inclusive) of the target
// sequence. An end beyond the sequence length is clamped; begin must satisfy
// 1 <= begin <= clamped end. Any truncation aborts the decode.
func Decode(path string, target Target, begin, end uint32, opts ...Option) (*Window, error) {
	if !target.valid() {
		return nil, ErrInvalidChrom
	}

	d := newDecoder(path, opts)
	if err := d.r.Open(path); err != nil {
		return nil, err
	}
	defer d.r.Close()

	count, err := d.readHeader()
	if err != nil {
		return nil, err
	}

	entries, err := d.readIndex(count)
	if err != nil {
		return nil, err
	}

	// Every entry has been consumed; the first match wins.
	var match *indexEntry
	for i := range entries {
		if target.matches(entries[i].name) {
			match = &entries[i]
			break
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrChromNotFound, target, path)
	}

	return d.decodeSequence(match, begin, end)
}

// ChromosomeNames returns the index names of a 2bit file in file order.
func ChromosomeNames(path string, opts ...Option) ([]string, error) {
	d := newDecoder(path, opts)
	if err := d.r.Open(path); err != nil {
		return nil, err
	}
	defer d.r.Close()

	count, err := d.readHeader()
	if err != nil {
		return nil, err
	}

	entries, err := d.readIndex(count)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names, nil
}

func (d *decoder) truncated(err error) error {
	return fmt.Errorf("%w %s: %v", ErrTruncated, d.path, err)
}

// readUint32 reads a four-byte field, byte-swapping it for foreign-endian files.
func (d *decoder) readUint32() (uint32, error) {
	v, err := d.r.ReadUint32()
	if err != nil {
		return 0, d.truncated(err)
	}
	if d.swap {
		v = bits.ReverseBytes32(v)
	}
	return v, nil
}

// readHeader checks the signature and returns the sequence count.
func (d *decoder) readHeader() (uint32, error) {
	sig, err := d.r.ReadUint32()
	if err != nil || (sig != Signature && sig != bits.ReverseBytes32(Signature)) {
		return 0, fmt.Errorf("%s: %w", d.path, ErrNotTwoBit)
	}
	d.swap = sig != Signature

	version, err := d.readUint32()
	if err != nil {
		return 0, err
	}
	count, err := d.readUint32()
	if err != nil {
		return 0, err
	}
	if _, err := d.readUint32(); err != nil { // reserved
		return 0, err
	}

	d.logger.Debug("read 2bit header",
		zap.String("path", d.path),
		zap.Uint32("version", version),
		zap.Uint32("sequences", count),
		zap.Bool("swapped", d.swap))
	return count, nil
}

// readIndex grows the index as entries are read; count comes from the file
// and is not trusted for allocation.
func (d *decoder) readIndex(count uint32) ([]indexEntry, error) {
	var entries []indexEntry
	for range count {
		nameLen, err := d.r.ReadUint8()
		if err != nil {
			return nil, d.truncated(err)
		}
		name, err := d.r.ReadBytes(int(nameLen))
		if err != nil {
			return nil, d.truncated(err)
		}
		offset, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		entries = append(entries, indexEntry{name: string(name), offset: offset})
	}
	return entries, nil
}

func (d *decoder) readBlocks(n uint32) ([]uint32, error) {
	var vals []uint32
	for range n {
		v, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func (d *decoder) decodeSequence(e *indexEntry, begin, end uint32) (*Window, error) {
	if err := d.r.Seek(int64(e.offset)); err != nil {
		return nil, err
	}

	length, err := d.readUint32()
	if err != nil {
		return nil, err
	}

	nCount, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	starts, err := d.readBlocks(nCount)
	if err != nil {
		return nil, err
	}
	sizes, err := d.readBlocks(nCount)
	if err != nil {
		return nil, err
	}
	var nBlocks []nBlock
	for i := range starts {
		if uint64(starts[i])+uint64(sizes[i]) > uint64(length) {
			return nil, fmt.Errorf("%s: %w: N-block %d+%d exceeds %d bases of %s",
				d.path, ErrNotTwoBit, starts[i], sizes[i], length, e.name)
		}
		if sizes[i] == 0 {
			continue
		}
		start := starts[i] + 1 // 0-based to 1-based
		nBlocks = append(nBlocks, nBlock{start: start, stop: start + sizes[i] - 1})
	}

	maskCount, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	// Mask blocks only mark soft-masked (lowercase) regions; skip them.
	if err := d.r.Skip(8 * int(maskCount)); err != nil {
		return nil, d.truncated(err)
	}
	if _, err := d.readUint32(); err != nil { // reserved
		return nil, err
	}

	if end > length {
		end = length
	}
	if begin == 0 || begin > end {
		return nil, fmt.Errorf("%w %d (sequence %s has %d bases)", ErrInvalidBegin, begin, e.name, length)
	}

	dnaOffset := int64(e.offset) + 4*(2*int64(nCount)+2*int64(maskCount)+4)
	if err := d.r.Seek(dnaOffset + int64((begin-1)/4)); err != nil {
		return nil, err
	}

	bases := make([]byte, end-begin+1)
	var packed byte
	readByte := true
	for i := range bases {
		pos := begin + uint32(i)
		if readByte {
			if packed, err = d.r.ReadUint8(); err != nil {
				return nil, d.truncated(err)
			}
		}
		shift := 2 * (3 - ((pos - 1) & 3))
		bases[i] = Symbols[(packed>>shift)&3]
		readByte = shift == 0
	}

	for _, b := range nBlocks {
		if b.start > end || b.stop < begin {
			continue
		}
		lo, hi := max(b.start, begin), min(b.stop, end)
		for i := lo - begin; i <= hi-begin; i++ {
			bases[i] = 'N'
		}
	}

	d.logger.Debug("decoded 2bit window",
		zap.String("path", d.path),
		zap.String("sequence", e.name),
		zap.Uint32("begin", begin),
		zap.Uint32("end", end),
		zap.Int("nblocks", len(nBlocks)))

	return &Window{
		Name:   e.name,
		Length: length,
		Begin:  begin,
		End:    end,
		Bases:  bases,
	}, nil
}
