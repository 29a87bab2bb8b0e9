package filestream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nu774/foo-input-caf"
)

func TestFileReadWriteSeek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.caf")

	f, err := Open(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte("hello world")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	size, err := f.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 11 {
		t.Fatalf("expected size 11, got %d", size)
	}

	if err := f.Seek(6, caf.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	buf := make([]byte, 5)
	n, err := f.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 5 || string(buf) != "world" {
		t.Fatalf("unexpected read: %q", buf[:n])
	}

	if err := f.Resize(5); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	size, err = f.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 5 {
		t.Fatalf("expected truncated size 5, got %d", size)
	}
}
