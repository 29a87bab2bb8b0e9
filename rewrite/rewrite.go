package rewrite

import (
	"context"
	"fmt"

	"github.com/nu774/foo-input-caf"
)

// WriteTags replaces the file's info chunk with the given tags, reusing any
// adjacent run of info/free chunks that has room before falling back to
// appending at EOF. Mirrors CAFFile::set_metadata's write ordering: the new
// chunk's body is written under a FourCC that is not 'info' first, and the
// header is only flipped to 'info' once the body is fully committed, so a
// crash mid-write never leaves a torn info chunk for a reader to trip over.
// ctx only gates the entry check; once the first destructive write starts,
// the rest of the sequence runs to completion regardless of cancellation,
// since honoring it partway through would risk leaving the file torn.
func WriteTags(ctx context.Context, s caf.Stream, tags []caf.TagEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body := encodeInfo(tags)
	need := int64(len(body))

	candidatePos, room, infoPos, infoFound, err := findRoomForInfo(s)
	if err != nil {
		return err
	}

	fitsInPlace := room > 0 && (need == room || need <= room-chunkHeaderSize)

	var writePos int64
	var trailingFree int64 = -1 // -1 means no trailing free chunk written

	switch {
	case fitsInPlace && need == room:
		writePos = candidatePos

	case fitsInPlace:
		writePos = candidatePos
		trailingFree = room - need - chunkHeaderSize

	default:
		size, err := s.Size()
		if err != nil {
			return fmt.Errorf("%w: %v", caf.ErrIO, err)
		}
		writePos = size

		if err := s.Resize(writePos + chunkHeaderSize + need); err != nil {
			return fmt.Errorf("%w: %v", caf.ErrIO, err)
		}
	}

	// From here on the write must run to completion: honoring a later
	// context cancellation would risk leaving the file torn.

	// Step 1: stake out the chunk under a non-'info' FourCC. If this slot
	// already held the info chunk we're about to replace, demote it first.
	if writePos == infoPos {
		if err := writeFourCC(s, writePos, fccFree); err != nil {
			return err
		}
	}

	if err := writeChunkHeader(s, writePos, fccFree, need); err != nil {
		return err
	}

	// Step 2: write the new body.
	if err := writeAt(s, writePos+chunkHeaderSize, body); err != nil {
		return err
	}

	// Step 3: fill any leftover room with a trailing free chunk so the
	// chunk list stays walkable.
	if trailingFree >= 0 {
		freePos := writePos + chunkHeaderSize + need
		if err := writeChunkHeader(s, freePos, fccFree, trailingFree); err != nil {
			return err
		}
	}

	// Step 4: commit. Flip the FourCC to 'info' last.
	if err := writeFourCC(s, writePos, fccInfo); err != nil {
		return err
	}

	// Step 5: demote any old info chunk living elsewhere to free, now that
	// the new one is live.
	if infoFound && infoPos != writePos {
		if err := writeFourCC(s, infoPos, fccFree); err != nil {
			return err
		}
	}

	return nil
}

var (
	fccInfo = caf.NewFourCC('i', 'n', 'f', 'o')
	fccFree = caf.NewFourCC('f', 'r', 'e', 'e')
)

func encodeInfo(tags []caf.TagEntry) []byte {
	buf := make([]byte, 4, 64)
	putBEUint32(buf, uint32(len(tags)))

	for _, t := range tags {
		buf = append(buf, []byte(t.Key)...)
		buf = append(buf, 0)
		buf = append(buf, []byte(t.Value)...)
		buf = append(buf, 0)
	}

	return buf
}

func putBEUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func writeChunkHeader(s caf.Stream, pos int64, id caf.FourCC, size int64) error {
	var hdr [chunkHeaderSize]byte
	putBEUint32(hdr[0:4], uint32(id))
	putBEUint64(hdr[4:12], uint64(size))

	return writeAt(s, pos, hdr[:])
}

func writeFourCC(s caf.Stream, pos int64, id caf.FourCC) error {
	var b [4]byte
	putBEUint32(b[:], uint32(id))

	return writeAt(s, pos, b[:])
}

func putBEUint64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

func writeAt(s caf.Stream, pos int64, buf []byte) error {
	if err := s.Seek(pos, caf.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", caf.ErrIO, err)
	}

	n, err := s.Write(buf)
	if err != nil {
		return fmt.Errorf("%w: %v", caf.ErrIO, err)
	}
	if n != len(buf) {
		return fmt.Errorf("%w: short write at %d", caf.ErrIO, pos)
	}

	return nil
}
