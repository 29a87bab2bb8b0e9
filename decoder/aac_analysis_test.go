package decoder

import (
	"testing"

	"github.com/nu774/foo-input-caf"
)

func TestAnalyzeAACFrameCountMatchingTableIsLeftAlone(t *testing.T) {
	asbd := caf.AudioFormat{SampleRate: 44100, FramesPerPacket: 1024}

	got, doubled := AnalyzeAACFrameCount(asbd, 2048, 2048)
	if doubled {
		t.Fatal("expected no doubling when table already matches decoded length")
	}
	if got != asbd {
		t.Fatalf("format was modified: %+v", got)
	}
}

func TestAnalyzeAACFrameCountDoublesOnHalvedTable(t *testing.T) {
	asbd := caf.AudioFormat{SampleRate: 24000, FramesPerPacket: 1024}

	got, doubled := AnalyzeAACFrameCount(asbd, 1024, 2048)
	if !doubled {
		t.Fatal("expected doubling when table records half the decoded length (SBR)")
	}
	if got.SampleRate != 48000 {
		t.Errorf("sample rate = %g, want 48000", got.SampleRate)
	}
	if got.FramesPerPacket != 2048 {
		t.Errorf("frames per packet = %d, want 2048", got.FramesPerPacket)
	}
}

func TestAnalyzeAACFrameCountNeitherRatioLeavesUnchanged(t *testing.T) {
	asbd := caf.AudioFormat{SampleRate: 44100, FramesPerPacket: 1024}

	got, doubled := AnalyzeAACFrameCount(asbd, 500, 2048)
	if doubled {
		t.Fatal("expected no doubling for an unrelated mismatch")
	}
	if got != asbd {
		t.Fatalf("format was modified: %+v", got)
	}
}

func TestAnalyzeAACFrameCountZeroLengthIsLeftAlone(t *testing.T) {
	asbd := caf.AudioFormat{SampleRate: 44100}

	got, doubled := AnalyzeAACFrameCount(asbd, 0, 0)
	if doubled {
		t.Fatal("expected no doubling for zero-length decode")
	}
	if got != asbd {
		t.Fatalf("format was modified: %+v", got)
	}
}
