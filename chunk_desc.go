package caf

import (
	"fmt"
	"math"
)

const descChunkSize = 32

// parseDesc reads the mandatory desc chunk: sample rate, format id, format
// flags, bytes/frames per packet, channels per frame, bits per channel. All
// eight fields are fixed-size; bytes_per_frame is derived, not stored.
func parseDesc(s Stream, st *parseState) error {
	buf, err := readFull(s, descChunkSize)
	if err != nil {
		return fmt.Errorf("%w: reading desc chunk: %v", ErrIO, err)
	}

	asbd := AudioFormat{
		SampleRate:       math.Float64frombits(beUint64(buf[0:8])),
		FormatID:         FourCC(beUint32(buf[8:12])),
		FormatFlags:      FormatFlags(beUint32(buf[12:16])),
		BytesPerPacket:   beUint32(buf[16:20]),
		FramesPerPacket:  beUint32(buf[20:24]),
		ChannelsPerFrame: beUint32(buf[24:28]),
		BitsPerChannel:   beUint32(buf[28:32]),
	}

	if asbd.FramesPerPacket != 0 {
		asbd.BytesPerFrame = asbd.BytesPerPacket / asbd.FramesPerPacket
	}

	st.haveDesc = true
	st.primary = Format{
		ASBD: asbd,
		ChannelLayout: ChannelLayout{
			ChannelMap: identityMap(int(asbd.ChannelsPerFrame)),
		},
	}

	return nil
}

// identityMap returns [0, 1, ..., n-1].
func identityMap(n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = i
	}

	return m
}
