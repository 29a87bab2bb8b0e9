package rewrite

import (
	"bytes"
	"context"
	"testing"

	"github.com/nu774/foo-input-caf"
)

func appendChunk(buf []byte, id caf.FourCC, body []byte) []byte {
	var hdr [12]byte
	putBEUint32(hdr[0:4], uint32(id))
	putBEUint64(hdr[4:12], uint64(len(body)))
	buf = append(buf, hdr[:]...)
	buf = append(buf, body...)

	return buf
}

func fccDesc() caf.FourCC { return caf.NewFourCC('d', 'e', 's', 'c') }
func fccData() caf.FourCC { return caf.NewFourCC('d', 'a', 't', 'a') }

func minimalFile(extra ...[]byte) []byte {
	buf := make([]byte, 8)
	putBEUint32(buf[0:4], uint32(caf.NewFourCC('c', 'a', 'f', 'f')))
	buf[4], buf[5] = 0, 1

	buf = appendChunk(buf, fccDesc(), make([]byte, 32))

	for _, e := range extra {
		buf = append(buf, e...)
	}

	buf = appendChunk(buf, fccData(), []byte{0, 0, 0, 0, 1, 2, 3, 4})

	return buf
}

func walkInfoChunk(t *testing.T, raw []byte) (id caf.FourCC, body []byte) {
	t.Helper()

	pos := int64(8)
	for pos < int64(len(raw)) {
		cid := caf.FourCC(uint32(raw[pos])<<24 | uint32(raw[pos+1])<<16 | uint32(raw[pos+2])<<8 | uint32(raw[pos+3]))
		var size int64
		for _, b := range raw[pos+4 : pos+12] {
			size = size<<8 | int64(b)
		}

		if cid == fccInfo {
			return cid, raw[pos+12 : pos+12+size]
		}

		pos += 12 + size
	}

	return 0, nil
}

func TestWriteTagsAppendsAtEOFWhenNoRoom(t *testing.T) {
	raw := minimalFile()
	s := &memStream{buf: raw}

	tags := []caf.TagEntry{{Key: "title", Value: "hello"}}
	if err := WriteTags(context.Background(), s, tags); err != nil {
		t.Fatalf("WriteTags: %v", err)
	}

	id, body := walkInfoChunk(t, s.buf)
	if id != fccInfo {
		t.Fatalf("no info chunk found")
	}
	if !bytes.Contains(body, []byte("title")) || !bytes.Contains(body, []byte("hello")) {
		t.Fatalf("info body missing tag: %q", body)
	}
}

func TestWriteTagsReusesExactFitFreeChunk(t *testing.T) {
	tags := []caf.TagEntry{{Key: "a", Value: "b"}}
	need := len(encodeInfo(tags))

	raw := minimalFile(appendChunk(nil, fccFree, make([]byte, need)))
	s := &memStream{buf: raw}

	sizeBefore, _ := s.Size()

	if err := WriteTags(context.Background(), s, tags); err != nil {
		t.Fatalf("WriteTags: %v", err)
	}

	sizeAfter, _ := s.Size()
	if sizeAfter != sizeBefore {
		t.Fatalf("exact-fit reuse should not change file size: before=%d after=%d", sizeBefore, sizeAfter)
	}

	id, body := walkInfoChunk(t, s.buf)
	if id != fccInfo {
		t.Fatalf("no info chunk found")
	}
	if !bytes.Contains(body, []byte("a")) {
		t.Fatalf("info body missing tag: %q", body)
	}
}

func TestWriteTagsLeavesTrailingFreeChunkWhenSpareRoom(t *testing.T) {
	tags := []caf.TagEntry{{Key: "a", Value: "b"}}
	need := len(encodeInfo(tags))

	raw := minimalFile(appendChunk(nil, fccFree, make([]byte, need+20)))
	s := &memStream{buf: raw}

	sizeBefore, _ := s.Size()

	if err := WriteTags(context.Background(), s, tags); err != nil {
		t.Fatalf("WriteTags: %v", err)
	}

	sizeAfter, _ := s.Size()
	if sizeAfter != sizeBefore {
		t.Fatalf("in-place reuse should not change file size: before=%d after=%d", sizeBefore, sizeAfter)
	}

	id, body := walkInfoChunk(t, s.buf)
	if id != fccInfo {
		t.Fatalf("no info chunk found")
	}
	if !bytes.Contains(body, []byte("a")) {
		t.Fatalf("info body missing tag: %q", body)
	}
}

func TestWriteTagsReplacesExistingInfoChunk(t *testing.T) {
	oldTags := []caf.TagEntry{{Key: "title", Value: "old value here"}}
	raw := minimalFile(appendChunk(nil, fccInfo, encodeInfo(oldTags)))
	s := &memStream{buf: raw}

	newTags := []caf.TagEntry{{Key: "title", Value: "new"}}
	if err := WriteTags(context.Background(), s, newTags); err != nil {
		t.Fatalf("WriteTags: %v", err)
	}

	id, body := walkInfoChunk(t, s.buf)
	if id != fccInfo {
		t.Fatalf("no info chunk found")
	}
	if !bytes.Contains(body, []byte("new")) {
		t.Fatalf("info body not updated: %q", body)
	}
	if bytes.Contains(body, []byte("old value here")) {
		t.Fatalf("info body still has stale content: %q", body)
	}
}
