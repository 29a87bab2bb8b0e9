package caf

import (
	"context"
	"fmt"
	"io"
)

const chunkHeaderSize = 12

// chunkHeader is the 12-byte FourCC+size prefix of every CAF chunk.
type chunkHeader struct {
	id   FourCC
	size int64 // -1 means "to end of file", only legal for the data chunk
}

// parseState accumulates parse results across the chunk-walking loop before
// they are frozen into a Model.
type parseState struct {
	haveDesc bool
	haveData bool

	primary     Format
	layered     []Format
	cookie      []byte
	packets     []PacketEntry
	packetInfo  PacketInfo
	dataOffset  int64
	dataSize    int64
	nearlyCBR   bool
	tags        []TagEntry
}

// Parse reads a complete CAF container from s and returns its parsed model.
// It mirrors CAFFile::parse: read the 'caff' magic, then walk 12-byte chunk
// headers until EOF, dispatching on FourCC.
func Parse(ctx context.Context, s Stream) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAborted, err)
	}

	magic := make([]byte, 8)
	if _, err := io.ReadFull(asReader(s), magic); err != nil {
		return nil, fmt.Errorf("%w: reading file header: %v", ErrIO, err)
	}

	if beUint32(magic[:4]) != uint32(fccCAFF) {
		return nil, fmt.Errorf("%w: not a CAF file", ErrMalformedContainer)
	}
	// bytes 4:6 file version, 6:8 file flags - both ignored, matching the
	// original plugin which never inspects them.

	st := &parseState{}

	pos := int64(8)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAborted, err)
		}

		hdr, err := readChunkHeader(s)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading chunk header at %d: %v", ErrIO, pos, err)
		}

		bodyPos := pos + chunkHeaderSize

		switch hdr.id {
		case fccDesc:
			if err := parseDesc(s, st); err != nil {
				return nil, err
			}
		case fccChan:
			if err := parseChan(s, hdr.size, st); err != nil {
				return nil, err
			}
		case fccLdsc:
			if err := parseLdsc(s, hdr.size, st); err != nil {
				return nil, err
			}
		case fccKuki:
			if err := parseKuki(s, hdr.size, st); err != nil {
				return nil, err
			}
		case fccInfo:
			if err := parseInfo(s, hdr.size, st); err != nil {
				return nil, err
			}
		case fccPakt:
			if err := parsePakt(s, hdr.size, st); err != nil {
				return nil, err
			}
		case fccData:
			st.haveData = true
			st.dataOffset = bodyPos + 4 // skip the 4-byte edit-count field
			if hdr.size < 0 {
				sz, err := s.Size()
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrIO, err)
				}
				st.dataSize = sz - st.dataOffset
			} else {
				st.dataSize = hdr.size - 4
			}
		default:
			// Unknown chunk (including free): skip silently.
		}

		if hdr.size < 0 {
			// Only the data chunk may claim "to end of file"; once seen
			// there is nothing more to scan.
			break
		}

		pos = bodyPos + hdr.size
		if err := s.Seek(pos, SeekStart); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
	}

	if !st.haveDesc {
		return nil, fmt.Errorf("%w: missing desc chunk", ErrMalformedContainer)
	}
	if !st.haveData {
		return nil, fmt.Errorf("%w: missing data chunk", ErrMalformedContainer)
	}

	m := &Model{
		Primary:     st.primary,
		Layered:     st.layered,
		MagicCookie: st.cookie,
		PacketTable: st.packets,
		PacketInfo:  st.packetInfo,
		DataOffset:  st.dataOffset,
		DataSize:    st.dataSize,
		NearlyCBR:   st.nearlyCBR,
		Tags:        st.tags,
	}

	if m.PacketInfo.ValidFrames == 0 && len(m.PacketTable) > 0 && m.EffectiveFormat().ASBD.FramesPerPacket == 0 {
		return nil, fmt.Errorf("%w: variable frames per packet without a valid-frames count", ErrUnsupportedFormat)
	}
	m.DurationFrames = calcDuration(m)

	return m, nil
}

func readChunkHeader(s Stream) (chunkHeader, error) {
	buf := make([]byte, chunkHeaderSize)
	if _, err := io.ReadFull(asReader(s), buf); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return chunkHeader{}, err
	}

	return chunkHeader{
		id:   FourCC(beUint32(buf[:4])),
		size: int64(beUint64(buf[4:12])),
	}, nil
}

// asReader adapts a Stream to io.Reader for use with io.ReadFull.
func asReader(s Stream) io.Reader {
	return streamReader{s}
}

type streamReader struct{ s Stream }

func (r streamReader) Read(p []byte) (int, error) { return r.s.Read(p) }

// readFull reads exactly n bytes from s at the stream's current position.
func readFull(s Stream, n int64) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(asReader(s), buf); err != nil {
		return nil, err
	}

	return buf, nil
}
