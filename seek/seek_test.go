package seek

import (
	"testing"

	"github.com/nu774/foo-input-caf"
)

func modelWithPacketTable(entries []caf.PacketEntry, framesPerPacket uint32) *caf.Model {
	return &caf.Model{
		Primary: caf.Format{
			ASBD: caf.AudioFormat{
				FormatID:         caf.CodecMP3,
				FramesPerPacket: framesPerPacket,
				ChannelsPerFrame: 2,
			},
		},
		PacketTable: entries,
	}
}

func TestResolveCBRNoPacketTable(t *testing.T) {
	m := &caf.Model{
		Primary: caf.Format{
			ASBD: caf.AudioFormat{
				FormatID:         caf.CodecLPCM,
				FramesPerPacket:  1,
				ChannelsPerFrame: 2,
			},
		},
	}

	pos, err := Resolve(m, 100)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pos.PacketIndex != 100 || pos.StartSkip != 0 {
		t.Fatalf("unexpected position: %+v", pos)
	}
	if pos.PrerollPackets != 0 {
		t.Fatalf("lpcm should need no preroll: %+v", pos)
	}
}

func TestResolveWithVariableFramesPacketTable(t *testing.T) {
	entries := []caf.PacketEntry{
		{VariableFrames: 1152},
		{VariableFrames: 1152},
		{VariableFrames: 1152},
	}
	m := modelWithPacketTable(entries, 0)

	pos, err := Resolve(m, 1200)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pos.PacketIndex != 1 {
		t.Fatalf("expected packet 1, got %d", pos.PacketIndex)
	}
	if pos.StartSkip != 1200-1152 {
		t.Fatalf("unexpected start skip: %d", pos.StartSkip)
	}
	if pos.PrerollPackets != 1 {
		t.Fatalf("mp3 preroll (2 packets) clamped to packet index 1 should be 1, got %d", pos.PrerollPackets)
	}
}

func TestResolveClampsPrerollAtStreamStart(t *testing.T) {
	entries := []caf.PacketEntry{
		{VariableFrames: 1152},
	}
	m := modelWithPacketTable(entries, 0)

	pos, err := Resolve(m, 10)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pos.PacketIndex != 0 || pos.PrerollPackets != 0 {
		t.Fatalf("expected no preroll at stream start: %+v", pos)
	}
}

func TestResolveRejectsPastEndOfStream(t *testing.T) {
	entries := []caf.PacketEntry{{VariableFrames: 100}}
	m := modelWithPacketTable(entries, 0)

	if _, err := Resolve(m, 1000); err == nil {
		t.Fatalf("expected error seeking past end of stream")
	}
}

func TestPrerollAndDelayTables(t *testing.T) {
	if PrerollPackets(caf.CodecMP3) != 2 {
		t.Fatalf("mp3 preroll should be 2 packets")
	}
	if PrerollPackets(caf.CodecLPCM) != 0 {
		t.Fatalf("lpcm preroll should be 0")
	}
	if InherentDelay(caf.CodecAACHEv2) != 962 {
		t.Fatalf("HE-AACv2 inherent delay should be 962")
	}
	if InherentDelay(caf.CodecLPCM) != 0 {
		t.Fatalf("lpcm inherent delay should be 0")
	}
}
