package gsm

// decoderState carries the short-term and long-term synthesis filter
// memory that must persist across GSM 06.10 frames.
type decoderState struct {
	larpp [2][8]int32 // previous two frames' interpolated LAR values
	drp   [160]int32  // long-term synthesis filter history (reconstructed residual)
	v     [9]int32    // short-term synthesis filter memory (de-emphasized output state)
	nrp   int32        // previous frame's LTP lag, used to seed interpolation range
	msr   int32         // de-emphasis filter memory
	frameIdx int
}

// larBits is the number of bits allocated to each of the 8 LAR
// coefficients per frame, per the GSM 06.10 bit-allocation table.
var larBits = [8]int{6, 6, 5, 5, 4, 4, 3, 3}

// larA/larB/larMIN/larMAX are the reference decoder's per-coefficient
// A/B/MIN/MAX tables. decodeLAR below uses only larMIN/larMAX: it centres
// the raw code, clamps it to [MIN, MAX] and returns 2*centred+1.
var larA = [8]int32{20, 20, 20, 20, 13, 15, 33, 28}
var larB = [8]int32{0, 0, 2048, -2560, 0, 2048, -3072, -4096}
var larMIN = [8]int32{-32, -32, -16, -16, -8, -8, -4, -4}
var larMAX = [8]int32{31, 31, 15, 15, 7, 7, 3, 3}

var qLTPGainTable = [4]int32{3277, 11469, 21299, 32767}

// decodeFrame decodes one 260-bit GSM frame (each element of bits is 0 or
// 1) into 160 16-bit PCM samples.
func (d *decoderState) decodeFrame(bits []byte) [samplesPerFrame]int16 {
	pos := 0
	readBits := func(n int) int32 {
		var v int32
		for i := 0; i < n; i++ {
			v = v<<1 | int32(bits[pos])
			pos++
		}

		return v
	}

	var lar [8]int32
	for i := 0; i < 8; i++ {
		raw := readBits(larBits[i])
		lar[i] = decodeLAR(i, raw)
	}

	var out [samplesPerFrame]int16

	for sub := 0; sub < 4; sub++ {
		nc := readBits(7)
		bc := readBits(2)
		mc := readBits(2)
		xmaxc := readBits(6)

		var xmc [13]int32
		for i := 0; i < 13; i++ {
			xmc[i] = readBits(3)
		}

		frac := float64(sub+1) / 4.0
		var larInterp [8]int32
		for i := 0; i < 8; i++ {
			prev := d.larpp[d.frameIdx%2][i]
			larInterp[i] = int32(float64(prev)*(1-frac) + float64(lar[i])*frac)
		}

		erp := reconstructRPE(mc, xmaxc, xmc)

		drpp := make([]int32, samplesPerFrame/4)
		lag := int(nc)
		gain := qLTPGainTable[bc]

		for i := range drpp {
			var pred int32
			idx := 160 - lag + i
			if idx >= 0 && idx < len(d.drp) {
				pred = (gain * d.drp[idx]) >> 15
			}
			drpp[i] = erp[i] + pred
		}

		synth := shortTermSynthesis(d, larInterp, drpp)

		for i, s := range synth {
			out[sub*40+i] = deemphasize(d, s)
		}

		copy(d.drp[:len(d.drp)-len(drpp)], d.drp[len(drpp):])
		copy(d.drp[len(d.drp)-len(drpp):], drpp)
	}

	d.larpp[(d.frameIdx+1)%2] = lar
	d.frameIdx++

	return out
}

func decodeLAR(i int, raw int32) int32 {
	v := raw
	if v == 0 {
		return 0
	}

	centered := v - (1 << uint(larBits[i]-1))
	if centered < larMIN[i] {
		centered = larMIN[i]
	}
	if centered > larMAX[i] {
		centered = larMAX[i]
	}

	return (centered << 1) + 1
}

// reconstructRPE performs inverse APCM quantization on the 13 RPE pulses
// and scatters them into a 40-sample excitation vector at grid position
// mc, zero elsewhere (the GSM 06.10 "RPE grid" decimation-by-3 scheme).
func reconstructRPE(mc, xmaxc int32, xmc [13]int32) [40]int32 {
	var e [40]int32

	fac := int32(1) << uint(xmaxc%8+1)

	for i, v := range xmc {
		centered := (v*2 - 7) * fac
		pos := int(mc) + i*3
		if pos < 40 {
			e[pos] = centered
		}
	}

	return e
}

// shortTermSynthesis runs the 8th-order LAR-derived all-pole synthesis
// filter over one subframe's reconstructed residual.
func shortTermSynthesis(d *decoderState, lar [8]int32, drp []int32) []int32 {
	out := make([]int32, len(drp))

	for n, e := range drp {
		sr := e
		for k := 7; k >= 0; k-- {
			rc := lar[k] >> 2
			tmp := sr - ((rc * d.v[k+1]) >> 15)
			d.v[k+1] = d.v[k] + ((rc * tmp) >> 15)
			sr = tmp
		}
		d.v[0] = sr
		out[n] = sr
	}

	return out
}

// deemphasize applies GSM's first-order de-emphasis output filter.
func deemphasize(d *decoderState, s int32) int16 {
	v := s + ((d.msr * 28180) >> 15)
	d.msr = v

	if v > 32767 {
		v = 32767
	} else if v < -32768 {
		v = -32768
	}

	return int16(v)
}
