package gsm

import (
	"context"
	"testing"

	"github.com/nu774/foo-input-caf"
)

func TestUnpackBitsMSBFirst(t *testing.T) {
	bits := unpackBits([]byte{0x80, 0x01})

	if len(bits) != 16 {
		t.Fatalf("got %d bits, want 16", len(bits))
	}

	if bits[0] != 1 {
		t.Errorf("bit 0 (MSB of 0x80) = %d, want 1", bits[0])
	}
	for i := 1; i < 8; i++ {
		if bits[i] != 0 {
			t.Errorf("bit %d = %d, want 0", i, bits[i])
		}
	}
	for i := 8; i < 15; i++ {
		if bits[i] != 0 {
			t.Errorf("bit %d = %d, want 0", i, bits[i])
		}
	}
	if bits[15] != 1 {
		t.Errorf("bit 15 (LSB of 0x01) = %d, want 1", bits[15])
	}
}

func TestOpenRejectsStereo(t *testing.T) {
	asbd := caf.AudioFormat{ChannelsPerFrame: 2}

	if _, err := (Port{}).Open(asbd, nil); err == nil {
		t.Fatal("expected error for stereo stream")
	}
}

func TestDecodeRejectsWrongBlockSize(t *testing.T) {
	ext, err := (Port{}).Open(caf.AudioFormat{ChannelsPerFrame: 1}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := ext.Decode(context.Background(), [][]byte{make([]byte, msBlockBytes-1)}); err == nil {
		t.Fatal("expected error for wrong block size")
	}
}

func TestDecodeProducesExpectedFrameCount(t *testing.T) {
	ext, err := (Port{}).Open(caf.AudioFormat{ChannelsPerFrame: 1}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	samples, err := ext.Decode(context.Background(), [][]byte{make([]byte, msBlockBytes)})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(samples) != 2*samplesPerFrame {
		t.Fatalf("got %d samples, want %d", len(samples), 2*samplesPerFrame)
	}
}
