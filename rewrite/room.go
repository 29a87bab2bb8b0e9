// Package rewrite implements CAF's crash-resistant info-chunk rewrite: a
// scan for the largest run of adjacent info/free chunks to reuse, and a
// write ordering that never leaves a torn 'info' chunk visible to a reader
// that opens the file mid-write.
package rewrite

import (
	"fmt"

	"github.com/nu774/foo-input-caf"
)

const chunkHeaderSize = 12

// findRoomForInfo scans the chunk list from byte 8 (just past the file
// header) looking for the largest contiguous run of info/free chunks.
// It returns the byte offset of that run, the total space available for a
// replacement chunk (header + body, i.e. room = sum(12+size) - 12, leaving
// one header's worth for the new chunk), and the offset/presence of any
// existing info chunk (which may or may not be inside the chosen run).
// Mirrors CAFFile::find_room_for_info.
func findRoomForInfo(s caf.Stream) (candidatePos, room, infoPos int64, infoFound bool, err error) {
	size, err := s.Size()
	if err != nil {
		return 0, 0, 0, false, fmt.Errorf("%w: %v", caf.ErrIO, err)
	}

	pos := int64(8)

	var runStart int64
	var runAcc int64
	var maxAcc int64
	var maxStart int64
	inRun := false

	for pos < size {
		hdr := make([]byte, chunkHeaderSize)
		if err := readAt(s, pos, hdr); err != nil {
			return 0, 0, 0, false, err
		}

		id := caf.FourCC(beUint32(hdr[0:4]))
		bodySize := int64(beUint64(hdr[4:12]))
		if bodySize < 0 {
			break // 'data' chunk running to EOF; nothing follows it
		}

		total := chunkHeaderSize + bodySize

		isInfoOrFree := isInfoID(id) || isFreeID(id)

		if isInfoOrFree {
			if !inRun {
				runStart = pos
				runAcc = 0
				inRun = true
			}
			runAcc += total

			if runAcc > maxAcc {
				maxAcc = runAcc
				maxStart = runStart
			}
		} else {
			inRun = false
		}

		if isInfoID(id) {
			infoPos = pos
			infoFound = true
		}

		pos += total
	}

	if maxAcc == 0 {
		return size, 0, infoPos, infoFound, nil
	}

	return maxStart, maxAcc - chunkHeaderSize, infoPos, infoFound, nil
}

func isInfoID(id caf.FourCC) bool {
	return id == caf.NewFourCC('i', 'n', 'f', 'o')
}

func isFreeID(id caf.FourCC) bool {
	return id == caf.NewFourCC('f', 'r', 'e', 'e')
}

func readAt(s caf.Stream, pos int64, buf []byte) error {
	if err := s.Seek(pos, caf.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", caf.ErrIO, err)
	}

	n, err := s.Read(buf)
	if err != nil {
		return fmt.Errorf("%w: %v", caf.ErrIO, err)
	}
	if n != len(buf) {
		return fmt.Errorf("%w: short read at %d", caf.ErrMalformedContainer, pos)
	}

	return nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}

	return v
}
