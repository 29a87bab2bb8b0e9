package alaw

import (
	"context"
	"testing"

	"github.com/nu774/foo-input-caf"
)

func TestDecodeSampleFlippingSignBitNegates(t *testing.T) {
	a := decodeSample(0xAA)
	b := decodeSample(0xAA ^ 0x80)

	if a != -b {
		t.Fatalf("decodeSample(0xAA)=%d, decodeSample(0x2A)=%d, not negations", a, b)
	}
}

func TestSessionDecodeOneBytePerSample(t *testing.T) {
	ext, err := Port{}.Open(caf.AudioFormat{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ext.Close()

	samples, err := ext.Decode(context.Background(), [][]byte{{0x55, 0xD5}})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
}
