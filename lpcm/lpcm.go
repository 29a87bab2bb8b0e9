// Package lpcm decodes CAF's native linear-PCM packets (codec id "lpcm")
// into interleaved 32-bit-per-sample output, applying the channel remap a
// non-ascending channel layout requires.
package lpcm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nu774/foo-input-caf"
)

// Sample is a single decoded, full-range sample. Integer PCM is left-
// shifted into the top of the word; float PCM is clamped to [-1, 1] and
// scaled by math.MaxInt32 into the same full-range int32.
type Sample = int32

// Decode decodes one or more LPCM packets (raw container bytes, a whole
// number of frames long; a BytesPerPacket or FramesPerPacket of 0 is
// rejected) into per-frame interleaved samples, remapping
// channels through channelMap when it is not the identity permutation.
// Mirrors LPCMDecoder::decode.
func Decode(asbd caf.AudioFormat, channelMap []int, packets []byte) ([]int32, error) {
	channels := int(asbd.ChannelsPerFrame)
	if channels == 0 {
		return nil, fmt.Errorf("lpcm: zero channels per frame")
	}

	if asbd.BytesPerPacket == 0 || asbd.FramesPerPacket == 0 {
		return nil, fmt.Errorf("lpcm: variable packet size is not valid for lpcm")
	}

	// bits_per_container = bytes_per_packet*8/channels, NOT a per-channel
	// ceil of bits_per_channel: the two agree only when the container is
	// byte-aligned per channel, which the original decoder does not
	// assume.
	bitsPerContainer := int(asbd.BytesPerPacket) * 8 / channels
	bytesPerContainer := bitsPerContainer / 8
	if bytesPerContainer*8 != bitsPerContainer || bytesPerContainer == 0 {
		return nil, fmt.Errorf("lpcm: unsupported container width %d bits", bitsPerContainer)
	}

	little := asbd.FormatFlags&caf.FlagIsLittleEndian != 0
	isFloat := asbd.FormatFlags&caf.FlagIsFloat != 0
	signed := asbd.FormatFlags&caf.FlagIsSignedInt != 0

	frameBytes := bytesPerContainer * channels
	if len(packets)%frameBytes != 0 {
		return nil, fmt.Errorf("lpcm: packet data %d is not a multiple of frame size %d", len(packets), frameBytes)
	}
	frames := len(packets) / frameBytes

	needRemap := len(channelMap) == channels && !isIdentity(channelMap)

	out := make([]int32, frames*channels)

	for f := 0; f < frames; f++ {
		base := f * frameBytes
		for c := 0; c < channels; c++ {
			raw := packets[base+c*bytesPerContainer : base+(c+1)*bytesPerContainer]

			var v int32
			switch {
			case isFloat && bytesPerContainer == 4:
				bits := readUint32(raw, little)
				v = floatToQ31(math.Float32frombits(bits))
			case isFloat && bytesPerContainer == 8:
				bits := readUint64(raw, little)
				v = float64ToQ31(math.Float64frombits(bits))
			default:
				v = intToQ31(raw, little, signed, bitsPerContainer)
			}

			dst := c
			if needRemap {
				dst = indexOf(channelMap, c)
			}

			out[f*channels+dst] = v
		}
	}

	return out, nil
}

// Remap reorders interleaved samples so that output channel i carries
// source channel channelMap[i], for use by external-codec adapters that
// decode in bitstream channel order but must present USB (ascending-label)
// order like the native path does.
func Remap(channels int, channelMap []int, samples []int32) []int32 {
	if len(channelMap) != channels || isIdentity(channelMap) {
		return samples
	}

	out := make([]int32, len(samples))
	frames := len(samples) / channels

	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			out[f*channels+indexOf(channelMap, c)] = samples[f*channels+c]
		}
	}

	return out
}

func isIdentity(m []int) bool {
	for i, v := range m {
		if v != i {
			return false
		}
	}

	return true
}

// indexOf finds where source channel c lands in output order: channelMap[i]
// is the source index for output position i, so the inverse lookup is
// needed here.
func indexOf(channelMap []int, c int) int {
	for i, src := range channelMap {
		if src == c {
			return i
		}
	}

	return c
}

func readUint32(b []byte, little bool) uint32 {
	if little {
		return binary.LittleEndian.Uint32(b)
	}

	return binary.BigEndian.Uint32(b)
}

func readUint64(b []byte, little bool) uint64 {
	if little {
		return binary.LittleEndian.Uint64(b)
	}

	return binary.BigEndian.Uint64(b)
}

func floatToQ31(f float32) int32 {
	return int32(math.Max(-1, math.Min(1, float64(f))) * math.MaxInt32)
}

func float64ToQ31(f float64) int32 {
	return int32(math.Max(-1, math.Min(1, f)) * math.MaxInt32)
}

// intToQ31 reads a bitsPerContainer-wide integer sample and left-shifts it
// into a full-range int32, sign-extending when signed.
func intToQ31(raw []byte, little, signed bool, bits int) int32 {
	var u uint64

	n := len(raw)
	for i := 0; i < n; i++ {
		var b byte
		if little {
			b = raw[i]
		} else {
			b = raw[n-1-i]
		}
		u |= uint64(b) << (8 * i)
	}

	shift := 32 - bits

	var v int32
	if signed {
		signBit := uint64(1) << (bits - 1)
		if u&signBit != 0 {
			u |= ^uint64(0) << bits
		}
		v = int32(int64(u))
	} else {
		v = int32(u - (1 << (bits - 1)))
	}

	return v << shift
}
