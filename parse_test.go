package caf

import (
	"context"
	"math"
	"testing"
)

func appendChunkHeader(buf []byte, id FourCC, size int64) []byte {
	var hdr [12]byte
	putBEUint32(hdr[0:4], uint32(id))
	putBEUint64(hdr[4:12], uint64(size))

	return append(buf, hdr[:]...)
}

func buildMinimalLPCM(t *testing.T, channels uint32, sampleData []byte) []byte {
	t.Helper()

	var buf []byte
	var magic [8]byte
	putBEUint32(magic[0:4], uint32(fccCAFF))
	magic[4], magic[5] = 0, 1 // file version 1
	buf = append(buf, magic[:]...)

	buf = appendChunkHeader(buf, fccDesc, descChunkSize)

	var desc [32]byte
	putBEUint64(desc[0:8], math.Float64bits(44100))
	putBEUint32(desc[8:12], uint32(CodecLPCM))
	putBEUint32(desc[12:16], uint32(FlagIsLittleEndian|FlagIsSignedInt|FlagIsPacked))
	bytesPerFrame := channels * 2
	putBEUint32(desc[16:20], bytesPerFrame)
	putBEUint32(desc[20:24], 1)
	putBEUint32(desc[24:28], channels)
	putBEUint32(desc[28:32], 16)
	buf = append(buf, desc[:]...)

	buf = appendChunkHeader(buf, fccData, int64(len(sampleData)+4))
	var editCount [4]byte
	buf = append(buf, editCount[:]...)
	buf = append(buf, sampleData...)

	return buf
}

func TestParseMinimalLPCM(t *testing.T) {
	data := make([]byte, 16) // 4 stereo frames of 16-bit samples
	raw := buildMinimalLPCM(t, 2, data)

	m, err := Parse(context.Background(), newMemStream(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if m.Primary.ASBD.SampleRate != 44100 {
		t.Errorf("SampleRate = %v, want 44100", m.Primary.ASBD.SampleRate)
	}
	if m.Primary.ASBD.ChannelsPerFrame != 2 {
		t.Errorf("ChannelsPerFrame = %v, want 2", m.Primary.ASBD.ChannelsPerFrame)
	}
	if m.DataSize != int64(len(data)) {
		t.Errorf("DataSize = %d, want %d", m.DataSize, len(data))
	}
	if m.NumPackets() != 4 {
		t.Errorf("NumPackets = %d, want 4", m.NumPackets())
	}
	if m.DurationFrames != 4 {
		t.Errorf("DurationFrames = %d, want 4", m.DurationFrames)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	raw := []byte("xxxx\x00\x01\x00\x00")
	if _, err := Parse(context.Background(), newMemStream(raw)); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestParseMissingDataChunk(t *testing.T) {
	var buf []byte
	buf = append(buf, "caff"...)
	buf = append(buf, 0, 1, 0, 0)
	buf = appendChunkHeader(buf, fccDesc, descChunkSize)
	buf = append(buf, make([]byte, descChunkSize)...)

	if _, err := Parse(context.Background(), newMemStream(buf)); err == nil {
		t.Fatal("expected error for missing data chunk")
	}
}
