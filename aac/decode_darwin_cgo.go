//go:build with_aac && darwin

package aac

/*
#cgo LDFLAGS: -framework AudioToolbox -framework CoreFoundation
#include <AudioToolbox/AudioToolbox.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
	const char **packets;
	const int64_t *sizes;
	int64_t        count;
	int64_t        next;
} aac_packet_feed;

static OSStatus aac_input_proc(
	AudioConverterRef inConverter,
	UInt32 *ioNumberDataPackets,
	AudioBufferList *ioData,
	AudioStreamPacketDescription **outPacketDescription,
	void *inUserData
) {
	aac_packet_feed *feed = (aac_packet_feed *)inUserData;

	if (feed->next >= feed->count) {
		*ioNumberDataPackets = 0;
		ioData->mBuffers[0].mData = NULL;
		ioData->mBuffers[0].mDataByteSize = 0;
		return noErr;
	}

	static AudioStreamPacketDescription desc;
	desc.mStartOffset = 0;
	desc.mVariableFramesInPacket = 0;
	desc.mDataByteSize = (UInt32)feed->sizes[feed->next];

	ioData->mBuffers[0].mData = (void *)feed->packets[feed->next];
	ioData->mBuffers[0].mDataByteSize = desc.mDataByteSize;
	ioData->mNumberBuffers = 1;

	*ioNumberDataPackets = 1;
	if (outPacketDescription) {
		*outPacketDescription = &desc;
	}

	feed->next++;

	return noErr;
}

// decode_aac_packets configures an AudioConverter directly from a raw
// AudioSpecificConfig (wrapped in an AudioStreamBasicDescription's
// mFormatID=kAudioFormatMPEG4AAC + a magic-cookie property) and decodes a
// fixed run of raw AAC packets into 16-bit signed PCM.
static int decode_aac_packets(
	const char *asc, int64_t ascSize,
	double sampleRate, int channels, int framesPerPacket, int isHE,
	const char **packets, const int64_t *sizes, int64_t packetCount,
	char **outBuf, int64_t *outBufSize
) {
	AudioStreamBasicDescription srcFormat;
	memset(&srcFormat, 0, sizeof(srcFormat));
	srcFormat.mSampleRate = sampleRate;
	srcFormat.mFormatID = isHE ? kAudioFormatMPEG4AAC_HE : kAudioFormatMPEG4AAC;
	srcFormat.mChannelsPerFrame = (UInt32)channels;
	srcFormat.mFramesPerPacket = (UInt32)framesPerPacket;

	AudioStreamBasicDescription dstFormat;
	memset(&dstFormat, 0, sizeof(dstFormat));
	dstFormat.mSampleRate = sampleRate;
	dstFormat.mFormatID = kAudioFormatLinearPCM;
	dstFormat.mFormatFlags = kAudioFormatFlagIsSignedInteger | kAudioFormatFlagIsPacked;
	dstFormat.mBitsPerChannel = 16;
	dstFormat.mChannelsPerFrame = (UInt32)channels;
	dstFormat.mBytesPerFrame = 2 * (UInt32)channels;
	dstFormat.mFramesPerPacket = 1;
	dstFormat.mBytesPerPacket = dstFormat.mBytesPerFrame;

	AudioConverterRef converter = NULL;
	OSStatus status = AudioConverterNew(&srcFormat, &dstFormat, &converter);
	if (status != noErr) return (int)status;

	if (ascSize > 0) {
		AudioConverterSetProperty(
			converter, kAudioConverterDecompressionMagicCookie, (UInt32)ascSize, asc
		);
	}

	aac_packet_feed feed;
	feed.packets = packets;
	feed.sizes = sizes;
	feed.count = packetCount;
	feed.next = 0;

	int64_t maxFrames = packetCount * (framesPerPacket > 0 ? framesPerPacket : 1024) * (isHE ? 2 : 1);
	int64_t bufSize = maxFrames * dstFormat.mBytesPerFrame;
	char *buf = (char *)malloc(bufSize);
	if (!buf) {
		AudioConverterDispose(converter);
		return -1;
	}

	int64_t framesDecoded = 0;

	while (1) {
		UInt32 frameCount = (UInt32)((bufSize / dstFormat.mBytesPerFrame) - framesDecoded);
		if (frameCount == 0) break;

		AudioBufferList bufList;
		bufList.mNumberBuffers = 1;
		bufList.mBuffers[0].mNumberChannels = (UInt32)channels;
		bufList.mBuffers[0].mDataByteSize = frameCount * dstFormat.mBytesPerFrame;
		bufList.mBuffers[0].mData = buf + framesDecoded * dstFormat.mBytesPerFrame;

		status = AudioConverterFillComplexBuffer(
			converter, aac_input_proc, &feed, &frameCount, &bufList, NULL
		);

		if (frameCount == 0) break;
		framesDecoded += frameCount;

		if (status != noErr && status != 1) break; // 1: kAudioConverterErr_InputRanDry-ish sentinel
	}

	*outBuf = buf;
	*outBufSize = framesDecoded * dstFormat.mBytesPerFrame;

	AudioConverterDispose(converter);
	return 0;
}
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/decoder"
)

// Port adapts AudioToolbox's AudioConverter to decoder.ExternalPort for AAC
// LC and HE-AAC (v1), decoding directly from the extracted
// AudioSpecificConfig and raw ADTS-less packets rather than wrapping a
// whole M4A container as the host application this code was adapted from
// once did.
type Port struct{}

func (Port) Open(asbd caf.AudioFormat, asc []byte) (decoder.ExternalDecoder, error) {
	return &session{asbd: asbd, asc: asc}, nil
}

type session struct {
	asbd caf.AudioFormat
	asc  []byte
}

func (s *session) Decode(ctx context.Context, packets [][]byte) ([]int32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cPackets := make([]*C.char, len(packets))
	sizes := make([]C.int64_t, len(packets))

	for i, p := range packets {
		if len(p) > 0 {
			cPackets[i] = (*C.char)(C.CBytes(p))
			defer C.free(unsafe.Pointer(cPackets[i]))
		}
		sizes[i] = C.int64_t(len(p))
	}

	var cASC *C.char
	if len(s.asc) > 0 {
		cASC = (*C.char)(C.CBytes(s.asc))
		defer C.free(unsafe.Pointer(cASC))
	}

	isHE := 0
	if s.asbd.FormatID == caf.CodecAACHE || s.asbd.FormatID == caf.CodecAACHEv2 {
		isHE = 1
	}

	var outBuf *C.char
	var outSize C.int64_t

	var packetsPtr **C.char
	var sizesPtr *C.int64_t
	if len(cPackets) > 0 {
		packetsPtr = (**C.char)(unsafe.Pointer(&cPackets[0]))
		sizesPtr = (*C.int64_t)(unsafe.Pointer(&sizes[0]))
	}

	result := C.decode_aac_packets(
		cASC, C.int64_t(len(s.asc)),
		C.double(s.asbd.SampleRate), C.int(s.asbd.ChannelsPerFrame),
		C.int(s.asbd.FramesPerPacket), C.int(isHE),
		packetsPtr, sizesPtr, C.int64_t(len(packets)),
		&outBuf, &outSize,
	)
	if result != 0 {
		return nil, fmt.Errorf("aac: AudioConverter error (OSStatus %d)", int(result))
	}
	defer C.free(unsafe.Pointer(outBuf))

	raw := C.GoBytes(unsafe.Pointer(outBuf), C.int(outSize))

	return unpackLE16(raw), nil
}

func (s *session) Close() error { return nil }

func unpackLE16(b []byte) []int32 {
	n := len(b) / 2
	out := make([]int32, n)

	for i := 0; i < n; i++ {
		v := int16(uint16(b[2*i]) | uint16(b[2*i+1])<<8)
		out[i] = int32(v) << 16
	}

	return out
}
