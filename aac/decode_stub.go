//go:build !with_aac

package aac

import (
	"context"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/decoder"
)

// Port adapts CoreAudio's AudioConverter to decoder.ExternalPort. Without
// the with_aac build tag, Open always fails with ErrNotSupported.
type Port struct{}

func (Port) Open(asbd caf.AudioFormat, asc []byte) (decoder.ExternalDecoder, error) {
	return nil, ErrNotSupported
}

type session struct{}

func (s *session) Decode(ctx context.Context, packets [][]byte) ([]int32, error) {
	return nil, ErrNotSupported
}

func (s *session) Close() error { return nil }
