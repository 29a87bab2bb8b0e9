package decoder

import "github.com/nu774/foo-input-caf"

// AnalyzeAACFrameCount implements the SBR frame-count-doubling heuristic
// from CAFDecoder's constructor: an HE-AAC stream's pakt table sometimes
// records frame counts at the core (non-SBR) sample rate even though the
// decoder doubles the output rate, so a consistency check is needed to
// decide whether to trust the table as-is or double both the declared
// frames-per-packet and the sample rate.
//
// total is the packet table's total frame count (or packetCount*framesPerPacket
// for a CBR table); length is frames actually produced by decoding every
// packet through the external decoder once. The two ways they can agree
// are total == length (table already matches decoder output) or
// total == length/2 (table under-counts by exactly half, the SBR case).
func AnalyzeAACFrameCount(asbd caf.AudioFormat, total, length int64) (corrected caf.AudioFormat, doubled bool) {
	if total == length || length == 0 {
		return asbd, false
	}

	if total == length/2 {
		asbd.SampleRate *= 2
		if asbd.FramesPerPacket != 0 {
			asbd.FramesPerPacket *= 2
		}

		return asbd, true
	}

	return asbd, false
}
