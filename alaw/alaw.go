// Package alaw decodes ITU-T G.711 A-law samples. No library in the
// retrieval pack carries an A-law codec, so this table-driven decoder is
// hand-written against the standard directly (see DESIGN.md).
package alaw

import (
	"context"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/decoder"
)

// Port adapts this decoder to decoder.ExternalPort. CAF's 'alaw' codec
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

// decodeSample expands one A-law byte to a full-range int32, matching
// package lpcm's left-shifted convention.
func decodeSample(a byte) int32 {
	a ^= 0x55

	sign := a & 0x80
	exponent := (a >> 4) & 0x07
	mantissa := a & 0x0f

	var sample int32
	if exponent == 0 {
		sample = int32(mantissa)<<4 + 8
	} else {
		sample = (int32(mantissa)<<4 + 0x108) << (exponent - 1)
	}

	if sign == 0 {
		sample = -sample
	}

	return sample << 16
}
