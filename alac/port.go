package alac

import (
	"context"
	"fmt"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/decoder"
)

// Port adapts this package's packet decoder to decoder.ExternalPort.
type Port struct{}

// Open parses the stream's ALACSpecificConfig (the magic cookie, already
// stripped of its frma/alac wrapper by package cookie) and returns a
// session decoder bound to it.
func (Port) Open(asbd caf.AudioFormat, magicCookie []byte) (decoder.ExternalDecoder, error) {
	cfg, err := ParseConfig(magicCookie)
	if err != nil {
		return nil, fmt.Errorf("alac: %w", err)
	}

	dec, err := NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	return sessionDecoder{dec: dec}, nil
}

// sessionDecoder implements decoder.ExternalDecoder.
type sessionDecoder struct {
	dec *Decoder
}

func (s sessionDecoder) Decode(ctx context.Context, packets [][]byte) ([]int32, error) {
	bps := s.dec.BitsPerSample()
	if bps == 20 {
		// DecodePacket emits 20-bit samples 3 bytes wide, left-aligned in 24 bits.
		bps = 24
	}

	var out []int32

	for i, pkt := range packets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := s.dec.DecodePacket(pkt)
		if err != nil {
			return nil, fmt.Errorf("alac: decoding packet %d: %w", i, err)
		}

		out = append(out, unpackLE(raw, bps)...)
	}

	return out, nil
}

func (s sessionDecoder) Close() error { return nil }

// unpackLE expands little-endian bps-bit signed samples into full-range
// int32, left-shifted the same way package lpcm presents native PCM.
func unpackLE(raw []byte, bps int) []int32 {
	bytesPerSample := bps / 8
	n := len(raw) / bytesPerSample
	out := make([]int32, n)

	shift := 32 - bps

	for i := 0; i < n; i++ {
		chunk := raw[i*bytesPerSample : (i+1)*bytesPerSample]

		var u uint32
		for j, b := range chunk {
			u |= uint32(b) << (8 * j)
		}

		signBit := uint32(1) << (bps - 1)
		if u&signBit != 0 {
			u |= ^uint32(0) << bps
		}

		out[i] = int32(u) << shift
	}

	return out
}
