// Package ima4 decodes CAF's IMA4 ADPCM packets (codec id "ima4") into
// 16-bit linear PCM, one synthetic LPCM frame at a time, then hands the
// result to package lpcm for any channel remap the stream's layout needs.
package ima4

import (
	"fmt"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/lpcm"
)

const (
	blockBytesPerChannel = 34
	samplesPerBlock      = 64
)

var indexTable = [16]int{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

var stepTable = [89]int{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17,
	19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118,
	130, 143, 157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658, 724, 796,
	876, 963, 1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066,
	2272, 2499, 2749, 3024, 3327, 3660, 4026, 4428, 4871, 5358,
	5894, 6484, 7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794, 32767,
}

// channelState tracks one channel's running predictor/step index across
// blocks.
type channelState struct {
	predictor int
	stepIndex int
}

// Decode decodes IMA4 packets into interleaved 16-bit LPCM samples,
// remapped through channelMap when given. Each packet is
// channels*blockBytesPerChannel bytes and expands to samplesPerBlock
// frames. Mirrors IMA4Decoder::decode and its delegation to an inner LPCM
// decoder for the final channel remap.
func Decode(channels int, channelMap []int, packets []byte) ([]int32, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("ima4: zero channels")
	}

	blockBytes := blockBytesPerChannel * channels
	if len(packets)%blockBytes != 0 {
		return nil, fmt.Errorf("ima4: packet data %d is not a multiple of block size %d", len(packets), blockBytes)
	}
	numBlocks := len(packets) / blockBytes

	states := make([]channelState, channels)
	pcm := make([]int16, 0, numBlocks*samplesPerBlock*channels)

	for b := 0; b < numBlocks; b++ {
		blockBase := b * blockBytes

		perChannel := make([][]int16, channels)
		for c := 0; c < channels; c++ {
			block := packets[blockBase+c*blockBytesPerChannel : blockBase+(c+1)*blockBytesPerChannel]
			perChannel[c] = decodeBlock(&states[c], block)
		}

		for s := 0; s < samplesPerBlock; s++ {
			for c := 0; c < channels; c++ {
				pcm = append(pcm, perChannel[c][s])
			}
		}
	}

	raw := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		raw[i*2] = byte(s)
		raw[i*2+1] = byte(s >> 8)
	}

	asbd := caf.AudioFormat{
		FormatID:         caf.CodecLPCM,
		FormatFlags:      caf.FlagIsLittleEndian | caf.FlagIsSignedInt | caf.FlagIsPacked,
		BytesPerPacket:   uint32(2 * channels),
		FramesPerPacket:  1,
		ChannelsPerFrame: uint32(channels),
		BitsPerChannel:   16,
	}

	return lpcm.Decode(asbd, channelMap, raw)
}

// decodeBlock decodes one channel's 34-byte block into 64 16-bit samples.
func decodeBlock(st *channelState, block []byte) []int16 {
	header := int16(uint16(block[0])<<8 | uint16(block[1]))
	predictor := int(header &^ 0x7f)
	stepIndex := int(header & 0x7f)

	if stepIndex != st.stepIndex || abs(predictor-st.predictor) > 0x7f {
		st.predictor = predictor
		st.stepIndex = stepIndex
	} else {
		stepIndex = st.stepIndex
	}

	out := make([]int16, 0, samplesPerBlock)

	for i := 2; i < len(block); i++ {
		b := block[i]
		out = append(out, decodeNibble(st, b&0x0f))
		out = append(out, decodeNibble(st, b>>4))
	}

	return out
}

func decodeNibble(st *channelState, nibble byte) int16 {
	step := stepTable[st.stepIndex]

	diff := step >> 3
	if nibble&4 != 0 {
		diff += step
	}
	if nibble&2 != 0 {
		diff += step >> 1
	}
	if nibble&1 != 0 {
		diff += step >> 2
	}
	if nibble&8 != 0 {
		diff = -diff
	}

	st.predictor += diff
	if st.predictor > 32767 {
		st.predictor = 32767
	} else if st.predictor < -32768 {
		st.predictor = -32768
	}

	st.stepIndex += indexTable[nibble]
	if st.stepIndex < 0 {
		st.stepIndex = 0
	} else if st.stepIndex > 88 {
		st.stepIndex = 88
	}

	return int16(st.predictor)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
