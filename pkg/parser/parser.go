package parser

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// StdinName is the source name that selects standard input.
const StdinName = "-"

const maxLineSize = 1024 * 1024

// ReaderSource implements LineSource over an io.Reader.
type ReaderSource struct {
	name    string
	scanner *bufio.Scanner
	lineNum int
}

// NewReaderSource creates a LineSource reading lines from r.
// The reader is not closed by Close.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &ReaderSource{
		name:    name,
		scanner: scanner,
	}
}

// Name returns the source name.
func (s *ReaderSource) Name() string {
	return s.name
}

// Next returns the next line, including blank and malformed ones.
// Returns io.EOF when the reader is exhausted.
func (s *ReaderSource) Next(ctx context.Context) (*LogLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.scanner.Scan() {
		s.lineNum++
		return &LogLine{
			Content: s.scanner.Text(),
			Source:  s.name,
			LineNum: s.lineNum,
		}, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.name)
	}
	return nil, io.EOF
}

// Close is a no-op; the caller owns the reader.
func (s *ReaderSource) Close() error {
	return nil
}

// FileSource implements LineSource for a single log file and owns the
// open file.
type FileSource struct {
	*ReaderSource
	file *os.File
}

// OpenFile opens path for reading. StdinName reads from standard input,
// which is never closed.
func OpenFile(path string) (*FileSource, error) {
	if path == StdinName {
		return &FileSource{ReaderSource: NewReaderSource(StdinName, os.Stdin)}, nil
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %s", path)
	}

	return &FileSource{
		ReaderSource: NewReaderSource(path, f),
		file:         f,
	}, nil
}

// Close closes the file. Calling it again is a no-op.
func (s *FileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
