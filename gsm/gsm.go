// Package gsm decodes ETSI/ITU-T GSM 06.10 RPE-LTP full-rate speech frames
// (CAF codec id "ms\x00\x01", Microsoft's "MS GSM 6.10" container
// convention: two 260-bit GSM frames packed per 65-byte block). No library
// in the retrieval pack carries this codec, so the decoder below is
// hand-written against the published GSM 06.10 reference algorithm (see
// DESIGN.md).
package gsm

import (
	"context"
	"fmt"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/decoder"
)

const (
	frameBits       = 260
	msBlockBytes    = 65 // two packed frames, MS WAVE_FORMAT_GSM610 convention
	samplesPerFrame = 160
)

// Port adapts this decoder to decoder.ExternalPort.
type Port struct{}

func (Port) Open(asbd caf.AudioFormat, magicCookie []byte) (decoder.ExternalDecoder, error) {
	if asbd.ChannelsPerFrame != 1 {
		return nil, fmt.Errorf("gsm: only mono streams are supported")
	}

	return &session{}, nil
}

type session struct {
	dec decoderState
}

func (s *session) Decode(ctx context.Context, packets [][]byte) ([]int32, error) {
	var out []int32

	for i, p := range packets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if len(p) != msBlockBytes {
			return nil, fmt.Errorf("gsm: packet %d is %d bytes, want %d", i, len(p), msBlockBytes)
		}

		bits := unpackBits(p)

		frame1 := bits[:frameBits]
		frame2 := bits[frameBits : 2*frameBits]

		pcm1 := s.dec.decodeFrame(frame1)
		pcm2 := s.dec.decodeFrame(frame2)

		for _, v := range pcm1 {
			out = append(out, int32(v)<<16)
		}
		for _, v := range pcm2 {
			out = append(out, int32(v)<<16)
		}
	}

	return out, nil
}

func (s *session) Close() error { return nil }

// unpackBits expands a 65-byte MS GSM block into 520 individual bits, MSB
// first, matching the reference decoder's bit-serial frame format.
func unpackBits(block []byte) []byte {
	bits := make([]byte, len(block)*8)
	for i, b := range block {
		for j := 0; j < 8; j++ {
			bits[i*8+j] = (b >> uint(7-j)) & 1
		}
	}

	return bits
}
