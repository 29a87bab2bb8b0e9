package caf

import (
	"context"
	"fmt"
)

// PacketOffsetSize returns the absolute file offset and byte size of packet
// index, using the CBR formula when no packet table was parsed, else a
// table lookup. Mirrors CAFFile::packet_info.
func (m *Model) PacketOffsetSize(index int64) (offset int64, size int64, err error) {
	if index < 0 || index >= m.NumPackets() {
		return 0, 0, fmt.Errorf("%w: packet index %d out of range", ErrMalformedContainer, index)
	}

	if len(m.PacketTable) == 0 {
		bpp := int64(m.EffectiveFormat().ASBD.BytesPerPacket)
		return m.DataOffset + index*bpp, bpp, nil
	}

	e := m.PacketTable[index]

	return m.DataOffset + e.StartOffset, int64(e.ByteSize), nil
}

// ReadPackets reads count packets starting at index into a single buffer,
// clamped to NumPackets, and returns the byte slice plus the number of
// packets actually read. Mirrors CAFFile::read_packets.
func (m *Model) ReadPackets(ctx context.Context, s Stream, index, count int64) ([]byte, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrAborted, err)
	}

	total := m.NumPackets()
	if index < 0 || index > total {
		return nil, 0, fmt.Errorf("%w: packet index %d out of range", ErrMalformedContainer, index)
	}

	if index+count > total {
		count = total - index
	}
	if count <= 0 {
		return nil, 0, nil
	}

	startOffset, _, err := m.PacketOffsetSize(index)
	if err != nil {
		return nil, 0, err
	}

	lastOffset, lastSize, err := m.PacketOffsetSize(index + count - 1)
	if err != nil {
		return nil, 0, err
	}

	span := lastOffset + lastSize - startOffset

	if err := s.Seek(startOffset, SeekStart); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrIO, err)
	}

	buf, err := readFull(s, span)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading packets [%d,%d): %v", ErrIO, index, index+count, err)
	}

	return buf, count, nil
}
