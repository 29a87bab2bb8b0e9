// Package seek resolves a frame-accurate seek request into the
// packet-aligned decode range that actually has to run, accounting for
// per-codec preroll packets and inherent decoder delay beyond what the
// container's own priming/remainder frame counts describe.
package seek

import (
	"context"
	"fmt"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/decoder"
)

// PrerollPackets returns how many packets before the target packet must
// also be decoded (and discarded) to warm up the codec's cross-packet
// state before real output starts. Block-switching/predictive codecs need
// this; LPCM and other stateless codecs don't.
func PrerollPackets(codec caf.FourCC) int64 {
	switch codec {
	case caf.CodecMP1, caf.CodecMP2:
		return 1
	case caf.CodecMP3:
		return 2
	default:
		return 0
	}
}

// InherentDelay returns the fixed number of samples a decoder introduces
// at the very start of the bitstream, independent of the container's own
// priming/remainder accounting in caf.PacketInfo. It only matters when
// decoding begins at the true first packet of the stream; elsewhere the
// preroll packets already warm up the relevant filter state.
func InherentDelay(codec caf.FourCC) int64 {
	switch codec {
	case caf.CodecMP1, caf.CodecMP2:
		return 241
	case caf.CodecMP3:
		return 529
	case caf.CodecAACHE, caf.CodecAACHEv2:
		return 962
	default:
		return 0
	}
}

// Position is the packet-aligned decode range that satisfies a seek to one
// target frame.
type Position struct {
	PacketIndex    int64 // first packet whose decoded output is wanted
	PrerollPackets int64 // packets before PacketIndex to decode and discard
	StartSkip      int64 // frames to discard from the start of PacketIndex's output
}

// Resolve locates the packet containing targetFrame (a frame index in the
// stream's effective format) and how much preroll/in-packet skip decoding
// from there requires.
func Resolve(m *caf.Model, targetFrame int64) (Position, error) {
	if targetFrame < 0 {
		return Position{}, fmt.Errorf("%w: negative seek target %d", caf.ErrMalformedContainer, targetFrame)
	}

	asbd := m.EffectiveFormat().ASBD
	framesPerPacket := int64(asbd.FramesPerPacket)

	packetIndex, frameWithinPacket, err := locatePacket(m, targetFrame, framesPerPacket)
	if err != nil {
		return Position{}, err
	}

	preroll := PrerollPackets(asbd.FormatID)
	if preroll > packetIndex {
		preroll = packetIndex
	}

	return Position{
		PacketIndex:    packetIndex,
		PrerollPackets: preroll,
		StartSkip:      frameWithinPacket,
	}, nil
}

func locatePacket(m *caf.Model, targetFrame, framesPerPacket int64) (packetIndex, frameWithinPacket int64, err error) {
	if len(m.PacketTable) == 0 {
		if framesPerPacket <= 0 {
			return 0, 0, fmt.Errorf("%w: cannot seek without a packet table or constant frames per packet", caf.ErrUnsupportedFormat)
		}

		return targetFrame / framesPerPacket, targetFrame % framesPerPacket, nil
	}

	var acc int64
	for i, e := range m.PacketTable {
		frames := int64(e.VariableFrames)
		if frames == 0 {
			frames = framesPerPacket
		}

		if targetFrame < acc+frames {
			return int64(i), targetFrame - acc, nil
		}

		acc += frames
	}

	return int64(len(m.PacketTable)), 0, fmt.Errorf("%w: seek target %d past end of stream", caf.ErrMalformedContainer, targetFrame)
}

// packetFrames returns the decoded frame count of packet index i.
func packetFrames(m *caf.Model, i, framesPerPacket int64) int64 {
	if len(m.PacketTable) == 0 {
		return framesPerPacket
	}

	frames := int64(m.PacketTable[i].VariableFrames)
	if frames == 0 {
		frames = framesPerPacket
	}

	return frames
}

// ReadFrames decodes exactly frameCount frames starting at startFrame,
// feeding the decoder any preroll packets Resolve says are needed and
// trimming the decoded output down to the requested range. The last
// partial request near end of stream is clamped to what the packet table
// actually has, the same end-of-stream policy caf.Model.ReadPackets uses.
func ReadFrames(ctx context.Context, s caf.Stream, m *caf.Model, dec *decoder.Decoder, startFrame, frameCount int64) ([]int32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", caf.ErrAborted, err)
	}

	asbd := m.EffectiveFormat().ASBD
	channels := int64(asbd.ChannelsPerFrame)
	framesPerPacket := int64(asbd.FramesPerPacket)

	pos, err := Resolve(m, startFrame)
	if err != nil {
		return nil, err
	}

	firstPacket := pos.PacketIndex - pos.PrerollPackets

	extraSkip := int64(0)
	if firstPacket == 0 {
		extraSkip = InherentDelay(asbd.FormatID)
	}

	// Walk forward from the target packet accumulating frames until the
	// requested range (plus in-packet skip) is covered.
	need := pos.StartSkip + frameCount
	lastPacket := pos.PacketIndex
	covered := int64(0)
	numPackets := m.NumPackets()

	for covered < need && lastPacket < numPackets {
		covered += packetFrames(m, lastPacket, framesPerPacket)
		lastPacket++
	}

	packetCount := lastPacket - firstPacket
	if packetCount <= 0 {
		return nil, nil
	}

	raw, gotCount, err := m.ReadPackets(ctx, s, firstPacket, packetCount)
	if err != nil {
		return nil, err
	}

	sizes := make([]uint32, 0, gotCount)
	for i := int64(0); i < gotCount; i++ {
		_, size, err := m.PacketOffsetSize(firstPacket + i)
		if err != nil {
			return nil, err
		}

		sizes = append(sizes, uint32(size))
	}

	samples, err := dec.DecodePackets(ctx, asbd, m.EffectiveFormat().ChannelLayout, raw, sizes)
	if err != nil {
		return nil, err
	}

	// Drop preroll-packet frames and the in-packet/inherent-delay skip,
	// then clamp to frameCount.
	prerollFrames := int64(0)
	for i := firstPacket; i < pos.PacketIndex; i++ {
		prerollFrames += packetFrames(m, i, framesPerPacket)
	}

	skipFrames := prerollFrames + pos.StartSkip + extraSkip

	total := int64(len(samples)) / channels
	if skipFrames > total {
		skipFrames = total
	}

	samples = samples[skipFrames*channels:]

	avail := int64(len(samples)) / channels
	if frameCount > avail {
		frameCount = avail
	}

	return samples[:frameCount*channels], nil
}
