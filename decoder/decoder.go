// Package decoder is the façade that turns a parsed CAF model plus its raw
// packet bytes into PCM: native dispatch for lpcm/ima4, and a pluggable
// ExternalPort for everything else (AAC, ALAC, FLAC, MP3, A-law/µ-law,
// MS ADPCM, GSM).
package decoder

import (
	"context"
	"fmt"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/cookie"
	"github.com/nu774/foo-input-caf/ima4"
	"github.com/nu774/foo-input-caf/lpcm"
)

// ExternalDecoder decodes packets for one opened stream. It is returned by
// an ExternalPort's Open and reused across DecodePackets calls so codecs with
// cross-packet state (bit reservoirs, predictor history) can keep it.
type ExternalDecoder interface {
	// Decode decodes the given raw packets (one byte slice per packet)
	// into interleaved full-range int32 samples.
	Decode(ctx context.Context, packets [][]byte) ([]int32, error)
	Close() error
}

// ExternalPort is implemented by each external-codec adapter package.
// magicCookie is the already-extracted magic cookie payload (an AudioSpecificConfig for
// AAC, a bare ALACSpecificConfig for ALAC, nil for codecs with no cookie).
type ExternalPort interface {
	Open(asbd caf.AudioFormat, magicCookie []byte) (ExternalDecoder, error)
}

// Options configures façade-wide policy decisions.
type Options struct {
	// AllowHEAACv2 permits decoding 'aacp' streams. HE-AACv2 carries a
	// parametric-stereo tool this module does not implement bit-exactly;
	// off by default so a caller must opt in knowingly.
	AllowHEAACv2 bool

	// Externals maps a codec FourCC to the port that decodes it. Codecs
	// without an entry here (beyond the two native ones) return
	// caf.ErrUnsupportedCodec.
	Externals map[caf.FourCC]ExternalPort
}

// Decoder wraps a parsed Model (for its magic cookie) and the external
// decoders it has opened, providing a single DecodePackets entry point that
// dispatches by codec.
type Decoder struct {
	model *caf.Model
	opts  Options

	opened map[caf.FourCC]ExternalDecoder
}

// New constructs a Decoder for an already-parsed model.
func New(model *caf.Model, opts Options) *Decoder {
	return &Decoder{model: model, opts: opts, opened: map[caf.FourCC]ExternalDecoder{}}
}

// Close releases any external decoders opened during decoding.
func (d *Decoder) Close() error {
	var firstErr error
	for _, ext := range d.opened {
		if err := ext.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// DecodePackets decodes raw container bytes holding consecutive packets of
// the given format, whose sizes are listed in packetByteSizes, returning
// interleaved samples.
func (d *Decoder) DecodePackets(ctx context.Context, asbd caf.AudioFormat, layout caf.ChannelLayout, raw []byte, packetByteSizes []uint32) ([]int32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", caf.ErrAborted, err)
	}

	switch asbd.FormatID {
	case caf.CodecLPCM:
		return lpcm.Decode(asbd, layout.ChannelMap, raw)

	case caf.CodecIMA4:
		return ima4.Decode(int(asbd.ChannelsPerFrame), layout.ChannelMap, raw)

	case caf.CodecAACHEv2:
		if !d.opts.AllowHEAACv2 {
			return nil, fmt.Errorf("%w: HE-AACv2 decoding disabled (Options.AllowHEAACv2)", caf.ErrUnsupportedFormat)
		}
		fallthrough

	default:
		port, ok := d.opts.Externals[asbd.FormatID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", caf.ErrUnsupportedCodec, asbd.FormatID)
		}

		ext, ok := d.opened[asbd.FormatID]
		if !ok {
			mc, err := effectiveCookie(asbd.FormatID, d.model.MagicCookie)
			if err != nil {
				return nil, err
			}

			ext, err = port.Open(asbd, mc)
			if err != nil {
				return nil, fmt.Errorf("%w: opening %s decoder: %v", caf.ErrUnsupportedCodec, asbd.FormatID, err)
			}
			d.opened[asbd.FormatID] = ext
		}

		packets := splitPackets(raw, packetByteSizes)

		samples, err := ext.Decode(ctx, packets)
		if err != nil {
			return nil, err
		}

		return lpcm.Remap(int(asbd.ChannelsPerFrame), layout.ChannelMap, samples), nil
	}
}

// effectiveCookie applies the per-codec cookie interpretation CAFFile::
// get_magic_cookie performs before handing the cookie to a decoder.
func effectiveCookie(id caf.FourCC, raw []byte) ([]byte, error) {
	switch id {
	case caf.CodecAACLC, caf.CodecAACHE, caf.CodecAACHEv2:
		asc, err := cookie.ExtractASC(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", caf.ErrCookieParse, err)
		}

		return asc, nil

	case caf.CodecALAC:
		return cookie.StripALACWrapper(raw), nil

	default:
		return raw, nil
	}
}

func splitPackets(raw []byte, sizes []uint32) [][]byte {
	packets := make([][]byte, 0, len(sizes))

	pos := 0
	for _, sz := range sizes {
		packets = append(packets, raw[pos:pos+int(sz)])
		pos += int(sz)
	}

	return packets
}
