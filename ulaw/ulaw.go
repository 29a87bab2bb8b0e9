// Package ulaw decodes ITU-T G.711 mu-law samples. No library in the
// retrieval pack carries a mu-law codec, so this table-driven decoder is
// hand-written against the standard directly (see DESIGN.md).
package ulaw

import (
	"context"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/decoder"
)

// Port adapts this decoder to decoder.ExternalPort. CAF's 'ulaw' codec
// carries no magic cookie and one byte per sample per channel.
type Port struct{}

func (Port) Open(asbd caf.AudioFormat, magicCookie []byte) (decoder.ExternalDecoder, error) {
	return &session{}, nil
}

type session struct{}

func (s *session) Decode(ctx context.Context, packets [][]byte) ([]int32, error) {
	var out []int32
	for _, p := range packets {
		for _, b := range p {
			out = append(out, decodeSample(b))
		}
	}

	return out, nil
}

func (s *session) Close() error { return nil }

const bias = 0x84

// decodeSample expands one mu-law byte to a full-range int32, matching
// package lpcm's left-shifted convention.
func decodeSample(u byte) int32 {
	u = ^u

	sign := u & 0x80
	exponent := (u >> 4) & 0x07
	mantissa := u & 0x0f

	sample := (int32(mantissa)<<3 + bias) << exponent
	sample -= bias

	if sign != 0 {
		sample = -sample
	}

	return sample << 16
}
