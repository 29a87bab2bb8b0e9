// Package flac adapts mewkiz/flac to decoder.ExternalPort: CAF stores a
// FLAC stream's STREAMINFO metadata block as the kuki chunk and its raw
// frames as packets, so this package's job is purely to stitch a minimal
// "fLaC" stream back together and hand it to the real FLAC decoder.
package flac

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	goflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/decoder"
)

const streamInfoSize = 34

// Port adapts mewkiz/flac to decoder.ExternalPort.
type Port struct{}

// Open keeps the STREAMINFO block (the first 34 bytes of the CAF magic
// cookie). Each session Decode call then synthesizes a minimal FLAC stream
// (magic + STREAMINFO + the CAF packets as raw frames) and opens it with
// mewkiz/flac.
func (Port) Open(asbd caf.AudioFormat, magicCookie []byte) (decoder.ExternalDecoder, error) {
	if len(magicCookie) < streamInfoSize {
		return nil, fmt.Errorf("flac: magic cookie too short for STREAMINFO (%d bytes)", len(magicCookie))
	}

	return &session{streamInfo: magicCookie[:streamInfoSize]}, nil
}

// session reopens the synthetic FLAC stream for every Decode call since
// mewkiz/flac's Stream is built around a forward-only frame reader with no
// public frame-table API to seek by packet index.
type session struct {
	streamInfo []byte
}

func (s *session) Decode(ctx context.Context, packets [][]byte) ([]int32, error) {
	var buf bytes.Buffer

	buf.WriteString("fLaC")
	buf.WriteByte(0x80) // last-metadata-block flag set, block type 0 (STREAMINFO)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s.streamInfo)))
	buf.Write(lenBuf[1:4]) // 24-bit big-endian length

	buf.Write(s.streamInfo)

	for _, p := range packets {
		buf.Write(p)
	}

	stream, err := goflac.New(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("flac: opening synthesized stream: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bitsPerSample := stream.Info.BitsPerSample

	var out []int32

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		audioFrame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac: decoding frame: %w", err)
		}

		out = append(out, interleave(audioFrame.Subframes, int(audioFrame.BlockSize), channels, bitsPerSample)...)
	}

	return out, nil
}

func (s *session) Close() error { return nil }

// interleave expands FLAC subframe samples into full-range int32, matching
// the left-shift convention package lpcm uses for native PCM.
func interleave(subframes []*frame.Subframe, blockSize, channels int, bitsPerSample uint8) []int32 {
	out := make([]int32, blockSize*channels)
	shift := uint(32 - bitsPerSample)

	for i := 0; i < blockSize; i++ {
		for ch := 0; ch < channels; ch++ {
			out[i*channels+ch] = subframes[ch].Samples[i] << shift
		}
	}

	return out
}
