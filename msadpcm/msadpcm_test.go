package msadpcm

import (
	"encoding/binary"
	"testing"

	"github.com/nu774/foo-input-caf"
)

func buildMonoBlock(predictor byte, delta, sample1, sample2 int16, nibbles byte) []byte {
	block := make([]byte, 8)
	block[0] = predictor
	binary.LittleEndian.PutUint16(block[1:3], uint16(delta))
	binary.LittleEndian.PutUint16(block[3:5], uint16(sample1))
	binary.LittleEndian.PutUint16(block[5:7], uint16(sample2))
	block[7] = nibbles
	return block
}

func TestDecodeBlockMonoHeaderSamplesComeFirst(t *testing.T) {
	block := buildMonoBlock(0, 16, 100, 50, 0x00)

	out, err := decodeBlock(block, 1)
	if err != nil {
		t.Fatalf("decodeBlock: %v", err)
	}

	want := []int32{50 << 16, 100 << 16, 100 << 16, 100 << 16}
	if len(out) != len(want) {
		t.Fatalf("got %d samples, want %d: %v", len(out), len(want), out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestDecodeBlockRejectsInvalidPredictor(t *testing.T) {
	block := buildMonoBlock(200, 16, 100, 50, 0x00)

	if _, err := decodeBlock(block, 1); err == nil {
		t.Fatal("expected error for out-of-range predictor index")
	}
}

func TestDecodeBlockRejectsShortBlock(t *testing.T) {
	if _, err := decodeBlock(make([]byte, 5), 1); err == nil {
		t.Fatal("expected error for block shorter than header size")
	}
}

func TestClampInt16(t *testing.T) {
	if got := clampInt16(40000); got != 32767 {
		t.Errorf("got %d, want 32767", got)
	}
	if got := clampInt16(-40000); got != -32768 {
		t.Errorf("got %d, want -32768", got)
	}
	if got := clampInt16(100); got != 100 {
		t.Errorf("got %d, want 100", got)
	}
}

func TestOpenRejectsUnsupportedChannelCount(t *testing.T) {
	asbd := caf.AudioFormat{ChannelsPerFrame: 3}

	if _, err := (Port{}).Open(asbd, nil); err == nil {
		t.Fatal("expected error for 3 channels")
	}
}
