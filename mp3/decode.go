// Package mp3 adapts hajimehoshi/go-mp3 to decoder.ExternalPort. CAF
// already carries priming/remainder frame counts in its own pakt chunk
// (see package seek), so unlike a standalone MP3 file this adapter has no
// need to sniff XING/LAME gapless tags out of the bitstream itself.
package mp3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/decoder"
)

const bytesPerSample = 2 // go-mp3 always decodes to 16-bit

// Port adapts go-mp3 to decoder.ExternalPort. CAF's .mp1/.mp2/.mp3 codecs
// carry no magic cookie; go-mp3 derives format entirely from frame headers.
type Port struct{}

func (Port) Open(asbd caf.AudioFormat, magicCookie []byte) (decoder.ExternalDecoder, error) {
	return &session{}, nil
}

// session re-decodes the concatenated elementary stream on every call:
// go-mp3's Decoder holds no cross-call state this adapter needs to persist,
// since the façade always hands it the full run of packets it was asked
// to read.
type session struct{}

func (s *session) Decode(ctx context.Context, packets [][]byte) ([]int32, error) {
	var buf bytes.Buffer
	for _, p := range packets {
		buf.Write(p)
	}

	dec, err := gomp3.NewDecoder(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("mp3: opening decoder: %w", err)
	}

	chunk := make([]byte, 32*1024)

	var out []int32

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, readErr := dec.Read(chunk)
		if n > 0 {
			out = append(out, unpackLE16(chunk[:n])...)
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("mp3: decoding: %w", readErr)
		}
	}

	return out, nil
}

func (s *session) Close() error { return nil }

func unpackLE16(b []byte) []int32 {
	n := len(b) / 2
	out := make([]int32, n)

	for i := 0; i < n; i++ {
		v := int16(uint16(b[2*i]) | uint16(b[2*i+1])<<8)
		out[i] = int32(v) << 16
	}

	return out
}
