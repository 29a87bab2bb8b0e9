// Package filestream adapts an *os.File to caf.Stream, the only concrete
// Stream implementation the core needs for normal file-backed use (as
// opposed to the in-memory streams the core's own tests use).
package filestream

import (
	"fmt"
	"io"
	"os"

	"github.com/nu774/foo-input-caf"
)

// File wraps an *os.File as a caf.Stream.
type File struct {
	f *os.File
}

// Open opens path with the given os.OpenFile flag and perm, creating it if
// flag requests that. Callers that only read should pass os.O_RDONLY;
// callers that rewrite tags need os.O_RDWR.
func Open(path string, flag int, perm os.FileMode) (*File, error) {
	f, err := os.OpenFile(path, flag, perm) //nolint:gosec // caller-specified audio file path
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", caf.ErrIO, path, err)
	}

	return &File{f: f}, nil
}

// Close releases the underlying file handle.
func (s *File) Close() error {
	return s.f.Close()
}

func (s *File) Read(buf []byte) (int, error) {
	n, err := s.f.Read(buf)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w: %v", caf.ErrIO, err)
	}

	return n, err
}

func (s *File) Write(buf []byte) (int, error) {
	n, err := s.f.Write(buf)
	if err != nil {
		return n, fmt.Errorf("%w: %v", caf.ErrIO, err)
	}

	return n, nil
}

func (s *File) Seek(pos int64, whence caf.Whence) error {
	var w int
	switch whence {
	case caf.SeekStart:
		w = io.SeekStart
	case caf.SeekCurrent:
		w = io.SeekCurrent
	case caf.SeekEnd:
		w = io.SeekEnd
	default:
		return fmt.Errorf("%w: invalid whence %d", caf.ErrIO, whence)
	}

	if _, err := s.f.Seek(pos, w); err != nil {
		return fmt.Errorf("%w: %v", caf.ErrIO, err)
	}

	return nil
}

func (s *File) Position() (int64, error) {
	pos, err := s.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", caf.ErrIO, err)
	}

	return pos, nil
}

func (s *File) Size() (int64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", caf.ErrIO, err)
	}

	return info.Size(), nil
}

func (s *File) Resize(newSize int64) error {
	if err := s.f.Truncate(newSize); err != nil {
		return fmt.Errorf("%w: %v", caf.ErrNotWritable, err)
	}

	return nil
}
