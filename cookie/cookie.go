// Package cookie interprets a CAF magic cookie (the kuki chunk) according
// to the codec it belongs to: extracting the raw AudioSpecificConfig out of
// an MPEG-4 ES descriptor tree for AAC, or stripping ALAC's frma/alac atom
// wrapper down to the bare ALACSpecificConfig.
package cookie

import (
	"errors"
	"fmt"
)

// ErrNoDecoderSpecificInfo is returned when an ES descriptor tree never
// reaches a DecoderSpecificInfo (tag 5) descriptor.
var ErrNoDecoderSpecificInfo = errors.New("cookie: no DecoderSpecificInfo in ES descriptor tree")

const (
	tagESDescriptor           = 3
	tagDecoderConfigDescriptor = 4
	tagDecoderSpecificInfo    = 5
)

// ExtractASC walks an MPEG-4 ES_Descriptor tree and returns the
// AudioSpecificConfig payload carried by its DecoderSpecificInfo
// descriptor (tag 5). Each descriptor is [tag:1][BER size][payload].
//
// Mirrors get_ASC_from_magic_cookie: only tag 5's (and an unrecognized
// tag's) declared size is trusted to bound its payload (clamped to the
// buffer). Tags 3 and 4 have their
// declared size decoded (to advance past it) but otherwise walk past a
// fixed-width header and keep scanning the same buffer, since real
// encoders are sometimes seen declaring an ES_Descriptor size larger than
// the cookie actually holds.
func ExtractASC(cookie []byte) ([]byte, error) {
	pos := 0

	for pos < len(cookie) {
		tag := cookie[pos]
		pos++

		size, consumed, err := decodeBER(cookie[pos:])
		if err != nil {
			return nil, fmt.Errorf("cookie: %w", err)
		}
		pos += consumed

		switch tag {
		case tagESDescriptor:
			// ES_ID(2) + flags(1) are always present; flags' top three
			// bits gate three further optional fields.
			if pos+3 > len(cookie) {
				return nil, fmt.Errorf("cookie: ES_Descriptor too short")
			}
			flags := cookie[pos+2]
			skip := 3
			if flags&0x80 != 0 { // streamDependenceFlag
				skip += 2
			}
			if flags&0x40 != 0 { // URL_Flag
				if pos+skip >= len(cookie) {
					return nil, fmt.Errorf("cookie: ES_Descriptor URL flag overruns buffer")
				}
				urlLen := int(cookie[pos+skip])
				skip += 1 + urlLen
			}
			if flags&0x20 != 0 { // OCRstreamFlag
				skip += 2
			}
			if pos+skip > len(cookie) {
				return nil, fmt.Errorf("cookie: ES_Descriptor optional fields overrun buffer")
			}

			pos += skip

		case tagDecoderConfigDescriptor:
			const fixedPrefix = 13
			if pos+fixedPrefix > len(cookie) {
				return nil, fmt.Errorf("cookie: DecoderConfigDescriptor too short")
			}

			pos += fixedPrefix

		case tagDecoderSpecificInfo:
			end := pos + int(size)
			if end > len(cookie) {
				end = len(cookie)
			}

			return cookie[pos:end], nil

		default:
			end := pos + int(size)
			if end > len(cookie) {
				end = len(cookie)
			}

			pos = end
		}
	}

	return nil, ErrNoDecoderSpecificInfo
}

// decodeBER decodes a BER varint from the head of buf, returning the value
// and bytes consumed.
func decodeBER(buf []byte) (value uint32, consumed int, err error) {
	var n uint32

	for i, b := range buf {
		n = n<<7 | uint32(b&0x7f)
		if b&0x80 == 0 {
			return n, i + 1, nil
		}
	}

	return 0, 0, fmt.Errorf("truncated BER length")
}

const alacWrapperSize = 24

// StripALACWrapper removes a 24-byte frma/alac atom wrapper from an ALAC
// magic cookie when present, returning the bare ALACSpecificConfig.
// CAFFile::get_magic_cookie checks for the literal bytes "frmaalac" at
// offset 4 before stripping; any other shape is returned unchanged.
func StripALACWrapper(cookie []byte) []byte {
	if len(cookie) > alacWrapperSize && string(cookie[4:12]) == "frmaalac" {
		return cookie[alacWrapperSize:]
	}

	return cookie
}
