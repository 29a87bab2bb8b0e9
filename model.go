package caf

// FormatFlags is the bitfield carried by AudioFormat.FormatFlags. Bit
// meaning depends on FormatID == CodecLPCM; for lpcm it matches Apple's
// AudioFormatFlags for linear PCM.
type FormatFlags uint32

// LPCM format flag bits.
const (
	FlagIsFloat        FormatFlags = 1 << 0
	FlagIsLittleEndian FormatFlags = 1 << 1
	FlagIsPacked       FormatFlags = 1 << 2
	FlagIsAlignedHigh  FormatFlags = 1 << 3
	FlagIsSignedInt    FormatFlags = 1 << 4
)

// AudioFormat is the analogue of AudioStreamBasicDescription: the 8-field
// struct describing one packetization of an audio stream.
type AudioFormat struct {
	SampleRate       float64
	FormatID         FourCC
	FormatFlags      FormatFlags
	BytesPerPacket   uint32 // 0 = variable
	FramesPerPacket  uint32 // 0 = variable
	ChannelsPerFrame uint32
	BitsPerChannel   uint32
	BytesPerFrame    uint32 // derived: BytesPerPacket / FramesPerPacket
}

// ChannelLayout pairs a destination channel mask with the permutation
// needed to bring raw decoded channels into ascending-label (USB) order.
type ChannelLayout struct {
	ChannelMask uint32
	// ChannelMap[i] is the source position of the i-th output channel.
	// Identity (or empty) means no remap is required.
	ChannelMap []int
}

// Format bundles one packetization's AudioFormat with its resolved channel
// layout, mirroring CAFFile::Format.
type Format struct {
	ASBD          AudioFormat
	ChannelLayout ChannelLayout
}

// PacketEntry describes one entry of a pakt chunk's packet table.
type PacketEntry struct {
	StartOffset    int64
	ByteSize       uint32
	VariableFrames uint32
}

// PacketInfo carries the CAFPacketTableHeader's gapless-playback fields.
type PacketInfo struct {
	ValidFrames     int64
	PrimingFrames   int64
	RemainderFrames int64
}

// TagEntry is one ordered key/value pair from the info chunk; keys may
// repeat (e.g. multiple "comments" entries are not reserved against, though
// in practice the CAF spec's vocabulary treats the info chunk as a flat
// dictionary).
type TagEntry struct {
	Key   string
	Value string
}

// Model is the parsed, in-memory representation of a CAF file. It is
// constructed exclusively by Parse and is immutable afterward except
// through UpdateFormat. The decoder façade does not call UpdateFormat, and
// package rewrite writes tags to the stream without touching Model.Tags.
type Model struct {
	Primary        Format
	Layered        []Format
	MagicCookie    []byte
	PacketTable    []PacketEntry
	PacketInfo     PacketInfo
	DataOffset     int64
	DataSize       int64
	DurationFrames int64
	NearlyCBR      bool
	Tags           []TagEntry
}

// EffectiveFormat returns the format packets should be decoded against: the
// first layered override if present, else the primary desc/chan format.
func (m *Model) EffectiveFormat() *Format {
	if len(m.Layered) > 0 {
		return &m.Layered[0]
	}

	return &m.Primary
}

// timeScale is the ratio between the effective and primary sample rates,
// used to translate priming/remainder/valid frame counts (which are always
// expressed at the primary rate) into the effective rate's frame count.
func (m *Model) timeScale() float64 {
	if len(m.Layered) == 0 {
		return 1.0
	}

	return m.EffectiveFormat().ASBD.SampleRate / m.Primary.ASBD.SampleRate
}

// NumPackets returns the total packet count: the packet table's length if
// present, else data size divided by the constant packet size.
func (m *Model) NumPackets() int64 {
	if len(m.PacketTable) > 0 {
		return int64(len(m.PacketTable))
	}

	bpp := m.EffectiveFormat().ASBD.BytesPerPacket
	if bpp == 0 {
		return 0
	}

	return m.DataSize / int64(bpp)
}

// StartOffsetFrames is the number of priming frames to skip at the
// effective sample rate (CAFFile::start_offset).
func (m *Model) StartOffsetFrames() int64 {
	return int64(float64(m.PacketInfo.PrimingFrames)*m.timeScale() + 0.5)
}

// EndPaddingFrames is the number of trailing remainder frames at the
// effective sample rate (CAFFile::end_padding).
func (m *Model) EndPaddingFrames() int64 {
	return int64(float64(m.PacketInfo.RemainderFrames)*m.timeScale() + 0.5)
}

// UpdateFormat pushes a corrected format (such as one returned by
// decoder.AnalyzeAACFrameCount) to the front of the layered-format stack
// and recomputes duration, mirroring CAFFile::update_format.
func (m *Model) UpdateFormat(asbd AudioFormat) {
	m.Layered = append([]Format{{ASBD: asbd}}, m.Layered...)
	m.DurationFrames = calcDuration(m)
}
