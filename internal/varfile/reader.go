// Package varfile reads lists of textual variant specifications.
//
// Each data line holds either a single specification such as
// "chr3.500.-.ACGT", or four columns chrom, pos, ref and alt. Pair files hold
// two specifications per line. Columns are separated by tabs or spaces;
// blank lines and lines starting with '#' are skipped. VCF files are read
// with VCFReader. Files may be gzipped.
package varfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/inodb/vibe-indel/internal/variant"
)

// source is a line reader over a plain or gzipped file.
type source struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	split      func(string) []string
}

func openSource(path string) (*source, error) {
	if path == "-" {
		return newSource(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open variant file: %w", err)
	}

	s, err := newSource(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	s.file = file
	return s, nil
}

func newSource(r io.Reader) (*source, error) {
	br := bufio.NewReader(r)
	s := &source{reader: br, split: strings.Fields}

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read variant file: %w", err)
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		s.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		s.reader = bufio.NewReader(s.gzipReader)
	}
	return s, nil
}

// next returns the fields of the next data line, or nil at end of input.
func (s *source) next() ([]string, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err == io.EOF && line == "" {
			return nil, nil
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read line %d: %w", s.lineNumber+1, err)
		}
		s.lineNumber++

		if trimmed := strings.TrimSpace(line); trimmed == "" || trimmed[0] == '#' {
			continue
		}
		return s.split(strings.TrimRight(line, "\r\n")), nil
	}
}

func (s *source) close() error {
	if s.gzipReader != nil {
		s.gzipReader.Close()
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

func (s *source) errorf(format string, args ...any) error {
	return &ParseError{Line: s.lineNumber, Message: fmt.Sprintf(format, args...)}
}

// parseFields converts one specification, or four chrom/pos/ref/alt
// columns, into a variant.
func (s *source) parseFields(fields []string) (*variant.Variant, error) {
	var spec string
	switch len(fields) {
	case 1:
		spec = fields[0]
	case 4:
		spec = fields[0] + ":" + fields[1] + "." + fields[2] + "." + fields[3]
	default:
		return nil, s.errorf("expected 1 or 4 columns, found %d", len(fields))
	}
	return s.parseSpec(spec)
}

func (s *source) parseSpec(spec string) (*variant.Variant, error) {
	v, err := variant.Parse(spec)
	if err != nil {
		return nil, s.errorf("%v", err)
	}
	return v, nil
}

// Reader reads one variant per line.
type Reader struct {
	src *source
}

// NewReader opens path for reading; "-" reads standard input. Gzipped input
// is detected by its magic bytes.
func NewReader(path string) (*Reader, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	return &Reader{src: src}, nil
}

// NewReaderFrom reads variants from r.
func NewReaderFrom(r io.Reader) (*Reader, error) {
	src, err := newSource(r)
	if err != nil {
		return nil, err
	}
	return &Reader{src: src}, nil
}

// Next reads the next variant.
// Returns nil, nil when there are no more variants.
func (r *Reader) Next() (*variant.Variant, error) {
	fields, err := r.src.next()
	if err != nil || fields == nil {
		return nil, err
	}
	return r.src.parseFields(fields)
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int { return r.src.lineNumber }

// Close closes the reader and underlying file.
func (r *Reader) Close() error { return r.src.close() }

// Pair is two variants read from one line of a pair file.
type Pair struct {
	Line int
	A, B *variant.Variant
}

// PairReader reads two variant specifications per line.
type PairReader struct {
	src *source
}

// NewPairReader opens path for reading; "-" reads standard input.
func NewPairReader(path string) (*PairReader, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	return &PairReader{src: src}, nil
}

// NewPairReaderFrom reads variant pairs from r.
func NewPairReaderFrom(r io.Reader) (*PairReader, error) {
	src, err := newSource(r)
	if err != nil {
		return nil, err
	}
	return &PairReader{src: src}, nil
}

// Next reads the next pair.
// Returns nil, nil when there are no more pairs.
func (r *PairReader) Next() (*Pair, error) {
	fields, err := r.src.next()
	if err != nil || fields == nil {
		return nil, err
	}
	if len(fields) != 2 {
		return nil, r.src.errorf("expected 2 columns, found %d", len(fields))
	}

	a, err := r.src.parseSpec(fields[0])
	if err != nil {
		return nil, err
	}
	b, err := r.src.parseSpec(fields[1])
	if err != nil {
		return nil, err
	}
	return &Pair{Line: r.src.lineNumber, A: a, B: b}, nil
}

// LineNumber returns the current line number being processed.
func (r *PairReader) LineNumber() int { return r.src.lineNumber }

// Close closes the reader and underlying file.
func (r *PairReader) Close() error { return r.src.close() }

// ParseError represents an error in a variant file with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("variant file parse error at line %d: %s", e.Line, e.Message)
}
