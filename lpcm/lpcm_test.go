package lpcm

import (
	"math"
	"testing"

	"github.com/nu774/foo-input-caf"
)

func TestDecodeSigned16LittleEndian(t *testing.T) {
	asbd := caf.AudioFormat{
		FormatFlags:      caf.FlagIsSignedInt | caf.FlagIsLittleEndian,
		BytesPerPacket:   4,
		FramesPerPacket:  1,
		ChannelsPerFrame: 2,
		BitsPerChannel:   16,
	}

	// one stereo frame: left = -1, right = 0x4000 (quarter scale positive)
	packet := []byte{0xFF, 0xFF, 0x00, 0x40}

	samples, err := Decode(asbd, nil, packet)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}

	if samples[0] != -1<<16 {
		t.Errorf("left = %d, want %d", samples[0], -1<<16)
	}

	want := int32(0x4000) << 16
	if samples[1] != want {
		t.Errorf("right = %d, want %d", samples[1], want)
	}
}

func TestDecodeFloat32(t *testing.T) {
	asbd := caf.AudioFormat{
		FormatFlags:      caf.FlagIsFloat | caf.FlagIsLittleEndian,
		BytesPerPacket:   4,
		FramesPerPacket:  1,
		ChannelsPerFrame: 1,
		BitsPerChannel:   32,
	}

	bits := math.Float32bits(0.5)
	packet := []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}

	samples, err := Decode(asbd, nil, packet)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := int32(math.MaxInt32 / 2) // 0.5 * MaxInt32, truncated toward zero
	if samples[0] != want {
		t.Errorf("got %d, want %d", samples[0], want)
	}
}

func TestDecodeRejectsVariablePacketSize(t *testing.T) {
	asbd := caf.AudioFormat{
		ChannelsPerFrame: 2,
	}

	if _, err := Decode(asbd, nil, []byte{0, 0, 0, 0}); err == nil {
		t.Fatal("expected error for variable-size lpcm packet")
	}
}

func TestDecodeAppliesChannelRemap(t *testing.T) {
	asbd := caf.AudioFormat{
		FormatFlags:      caf.FlagIsSignedInt | caf.FlagIsLittleEndian,
		BytesPerPacket:   4,
		FramesPerPacket:  1,
		ChannelsPerFrame: 2,
		BitsPerChannel:   16,
	}

	// packet carries channel order [C, L]; channelMap says output[0]=src 1 (L),
	// output[1]=src 0 (C) to land in USB order.
	packet := []byte{0x00, 0x10, 0x00, 0x20}

	samples, err := Decode(asbd, []int{1, 0}, packet)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if samples[0] == samples[1] {
		t.Fatalf("expected remap to produce distinct channel order, got %v", samples)
	}
}

func TestRemapIsNoopForIdentity(t *testing.T) {
	in := []int32{1, 2, 3, 4}
	out := Remap(2, []int{0, 1}, in)

	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("identity remap changed data: %v", out)
		}
	}
}

func TestRemapSwapsChannels(t *testing.T) {
	in := []int32{10, 20, 30, 40} // two stereo frames
	out := Remap(2, []int{1, 0}, in)

	want := []int32{20, 10, 40, 30}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("got %v, want %v", out, want)
		}
	}
}
