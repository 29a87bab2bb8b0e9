package ulaw

import (
	"context"
	"testing"

	"github.com/nu774/foo-input-caf"
)

func TestDecodeSampleSilenceCode(t *testing.T) {
	if got := decodeSample(0xFF); got != 0 {
		t.Fatalf("decodeSample(0xFF) = %d, want 0", got)
	}
}

func TestDecodeSampleFlippingSignBitNegates(t *testing.T) {
	a := decodeSample(0x00)
	b := decodeSample(0x00 ^ 0x80)

	if a != -b {
		t.Fatalf("decodeSample(0x00)=%d, decodeSample(0x80)=%d, not negations", a, b)
	}
}

func TestSessionDecodeOneBytePerSample(t *testing.T) {
	ext, err := Port{}.Open(caf.AudioFormat{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ext.Close()

	samples, err := ext.Decode(context.Background(), [][]byte{{0xFF, 0x00}})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
}
