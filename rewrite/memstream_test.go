package rewrite

import (
	"errors"
	"io"

	"github.com/nu774/foo-input-caf"
)

// memStream is an in-memory caf.Stream used only by this package's tests.
type memStream struct {
	buf []byte
	pos int64
}

func (m *memStream) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}

	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)

	return n, nil
}

func (m *memStream) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}

	n := copy(m.buf[m.pos:end], p)
	m.pos += int64(n)

	return n, nil
}

func (m *memStream) Seek(pos int64, whence caf.Whence) error {
	switch whence {
	case caf.SeekStart:
		m.pos = pos
	case caf.SeekCurrent:
		m.pos += pos
	case caf.SeekEnd:
		m.pos = int64(len(m.buf)) + pos
	default:
		return errors.New("memstream: bad whence")
	}

	if m.pos < 0 {
		return errors.New("memstream: negative seek")
	}

	return nil
}

func (m *memStream) Position() (int64, error) { return m.pos, nil }

func (m *memStream) Size() (int64, error) { return int64(len(m.buf)), nil }

func (m *memStream) Resize(newSize int64) error {
	if newSize <= int64(len(m.buf)) {
		m.buf = m.buf[:newSize]
		return nil
	}

	grown := make([]byte, newSize)
	copy(grown, m.buf)
	m.buf = grown

	return nil
}
