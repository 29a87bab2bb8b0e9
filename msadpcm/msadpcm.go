// Package msadpcm decodes Microsoft ADPCM (codec id "ms\x00\x02"). No
// library in the retrieval pack carries this codec, so the decoder below
// is hand-written against the published Microsoft ADPCM algorithm (see
// DESIGN.md).
package msadpcm

import (
	"context"
	"fmt"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/decoder"
)

var adaptationTable = [16]int32{
	230, 230, 230, 230, 307, 409, 512, 614,
	768, 614, 512, 409, 307, 230, 230, 230,
}

var coeff1 = [7]int32{256, 512, 0, 192, 240, 460, 392}
var coeff2 = [7]int32{0, -256, 0, 64, 0, -208, -232}

// Port adapts this decoder to decoder.ExternalPort.
type Port struct{}

func (Port) Open(asbd caf.AudioFormat, magicCookie []byte) (decoder.ExternalDecoder, error) {
	if asbd.ChannelsPerFrame == 0 || asbd.ChannelsPerFrame > 2 {
		return nil, fmt.Errorf("msadpcm: unsupported channel count %d", asbd.ChannelsPerFrame)
	}

	return &session{
		channels:      int(asbd.ChannelsPerFrame),
		blockAlign:    int(asbd.BytesPerPacket),
		samplesPerBlk: int(asbd.FramesPerPacket),
	}, nil
}

type session struct {
	channels      int
	blockAlign    int
	samplesPerBlk int
}

func (s *session) Decode(ctx context.Context, packets [][]byte) ([]int32, error) {
	var out []int32

	for i, p := range packets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := decodeBlock(p, s.channels)
		if err != nil {
			return nil, fmt.Errorf("msadpcm: block %d: %w", i, err)
		}

		out = append(out, frame...)
	}

	return out, nil
}

func (s *session) Close() error { return nil }

type chanState struct {
	coeff1, coeff2 int32
	delta          int32
	sample1        int32
	sample2        int32
}

// decodeBlock decodes one MS ADPCM block into full-range int32 interleaved
// PCM, following the standard's per-block header (predictor index, delta,
// sample1/sample2) and nibble-expansion loop.
func decodeBlock(block []byte, channels int) ([]int32, error) {
	hdrSize := 7 * channels
	if len(block) < hdrSize {
		return nil, fmt.Errorf("block too short for header (%d bytes)", len(block))
	}

	states := make([]chanState, channels)

	pos := 0
	for c := 0; c < channels; c++ {
		predictor := int(block[pos])
		pos++
		if predictor >= len(coeff1) {
			return nil, fmt.Errorf("invalid predictor index %d", predictor)
		}
		states[c].coeff1 = coeff1[predictor]
		states[c].coeff2 = coeff2[predictor]
	}

	for c := 0; c < channels; c++ {
		states[c].delta = int32(int16(uint16(block[pos]) | uint16(block[pos+1])<<8))
		pos += 2
	}
	for c := 0; c < channels; c++ {
		states[c].sample1 = int32(int16(uint16(block[pos]) | uint16(block[pos+1])<<8))
		pos += 2
	}
	for c := 0; c < channels; c++ {
		states[c].sample2 = int32(int16(uint16(block[pos]) | uint16(block[pos+1])<<8))
		pos += 2
	}

	var out []int32
	for c := 0; c < channels; c++ {
		out = append(out, states[c].sample2<<16)
	}
	for c := 0; c < channels; c++ {
		out = append(out, states[c].sample1<<16)
	}

	for pos < len(block) {
		b := block[pos]
		pos++

		hi := expandNibble(&states[0], b>>4)
		out = append(out, hi<<16)

		if channels == 2 {
			lo := expandNibble(&states[1], b&0x0f)
			out = append(out, lo<<16)
		} else {
			lo := expandNibble(&states[0], b&0x0f)
			out = append(out, lo<<16)
		}
	}

	return out, nil
}

func expandNibble(st *chanState, nibble byte) int32 {
	signed := int32(nibble)
	if signed >= 8 {
		signed -= 16
	}

	predicted := (st.sample1*st.coeff1 + st.sample2*st.coeff2) >> 8
	predicted += signed * st.delta

	predicted = clampInt16(predicted)

	st.delta = (adaptationTable[nibble] * st.delta) >> 8
	if st.delta < 16 {
		st.delta = 16
	}

	st.sample2 = st.sample1
	st.sample1 = predicted

	return predicted
}

func clampInt16(v int32) int32 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}

	return v
}
