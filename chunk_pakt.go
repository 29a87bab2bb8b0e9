package caf

import (
	"bufio"
	"bytes"
	"fmt"
)

const paktHeaderSize = 32

// parsePakt reads the packet table chunk: a 32-byte header (packet count,
// valid/priming/remainder frame counts, all int64 BE) followed by
// packet_count entries, each a BER byte-size and (if the format's
// frames-per-packet is 0, i.e. variable) a BER frame count. Constant
// byte-size/frame-count formats omit the corresponding BER field per entry.
// Mirrors CAFFile::parse_pakt.
func parsePakt(s Stream, size int64, st *parseState) error {
	hdr, err := readFull(s, paktHeaderSize)
	if err != nil {
		return fmt.Errorf("%w: reading pakt header: %v", ErrIO, err)
	}

	packetCount := int64(beUint64(hdr[0:8]))
	st.packetInfo = PacketInfo{
		ValidFrames:     int64(beUint64(hdr[8:16])),
		PrimingFrames:   int64(beUint64(hdr[16:24])),
		RemainderFrames: int64(beUint64(hdr[24:32])),
	}

	asbd := st.primary.ASBD
	constantBytes := asbd.BytesPerPacket != 0
	constantFrames := asbd.FramesPerPacket != 0

	if constantBytes && constantFrames {
		// Nothing left to read: a constant-everything format never
		// carries per-entry table bytes even when a pakt chunk is
		// present (it still supplies the gapless header above).
		st.nearlyCBR = true
		return nil
	}

	entryBytes := int64(size) - paktHeaderSize
	body, err := readFull(s, entryBytes)
	if err != nil {
		return fmt.Errorf("%w: reading pakt entries: %v", ErrIO, err)
	}

	br := bufio.NewReader(bytes.NewReader(body))

	entries := make([]PacketEntry, 0, packetCount)
	offset := int64(0)
	var lowSize, highSize uint32

	for i := int64(0); i < packetCount; i++ {
		byteSize := asbd.BytesPerPacket
		if !constantBytes {
			v, err := readBER(br)
			if err != nil {
				return fmt.Errorf("%w: reading pakt entry %d byte size: %v", ErrMalformedContainer, i, err)
			}
			byteSize = v
		}

		frames := asbd.FramesPerPacket
		if !constantFrames {
			v, err := readBER(br)
			if err != nil {
				return fmt.Errorf("%w: reading pakt entry %d frame count: %v", ErrMalformedContainer, i, err)
			}
			frames = v
		}

		entries = append(entries, PacketEntry{
			StartOffset:    offset,
			ByteSize:       byteSize,
			VariableFrames: frames,
		})

		offset += int64(byteSize)

		if i == 0 || byteSize < lowSize {
			lowSize = byteSize
		}
		if byteSize > highSize {
			highSize = byteSize
		}
	}

	st.packets = entries
	st.nearlyCBR = highSize <= lowSize+1

	return nil
}
