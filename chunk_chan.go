package caf

import (
	"fmt"

	"github.com/nu774/foo-input-caf/chanmap"
)

const chanDescriptionSize = 20 // 4-byte label + 16 bytes (coords/flags), skipped

// parseChan reads the chan chunk: a layout tag, a channel bitmap (valid
// only for UseChannelBitmap), a description count, and that many 20-byte
// channel descriptions (valid only for UseChannelDescriptions). It mirrors
// CAFFile::parse_chan.
func parseChan(s Stream, size int64, st *parseState) error {
	buf, err := readFull(s, 12)
	if err != nil {
		return fmt.Errorf("%w: reading chan chunk: %v", ErrIO, err)
	}

	tag := beUint32(buf[0:4])
	bitmap := beUint32(buf[4:8])
	count := beUint32(buf[8:12])

	var labels []chanmap.Label

	switch tag {
	case chanmap.TagUseChannelBitmap:
		labels = chanmap.LabelsForBitmap(bitmap)
	case chanmap.TagUseChannelDescriptions:
		pre := make([]chanmap.Label, 0, count)
		for i := uint32(0); i < count; i++ {
			desc, err := readFull(s, chanDescriptionSize)
			if err != nil {
				return fmt.Errorf("%w: reading channel description %d: %v", ErrIO, i, err)
			}
			pre = append(pre, chanmap.Label(beUint32(desc[0:4])))
		}

		labels = chanmap.TranslateLabels(pre)

		for _, l := range labels {
			if l > chanmap.Label(chanmap.MaxOrdinaryLabel) {
				return fmt.Errorf("%w: channel label %d exceeds permitted range", ErrMalformedContainer, l)
			}
		}
	default:
		var ok bool
		labels, ok = chanmap.LabelsForTag(tag)
		if !ok {
			return fmt.Errorf("%w: unrecognized channel layout tag %#x", ErrUnsupportedFormat, tag)
		}
		labels = chanmap.ConvertFromAppleLayout(labels)

		// A layout tag may still carry trailing descriptions; skip them,
		// matching CAFFile::parse_chan's behavior for any tag other than
		// UseChannelDescriptions.
		if count > 0 {
			if _, err := readFull(s, int64(count)*chanDescriptionSize); err != nil {
				return fmt.Errorf("%w: skipping trailing channel descriptions: %v", ErrIO, err)
			}
		}
	}

	mask, ok := chanmap.ChannelMask(labels)
	if !ok {
		return fmt.Errorf("%w: channel labels do not fit a 32-bit mask", ErrMalformedContainer)
	}

	if int(st.primary.ASBD.ChannelsPerFrame) != len(labels) || chanmap.BitCount(mask) != len(labels) {
		if tag == chanmap.TagUseChannelBitmap || tag == chanmap.TagUseChannelDescriptions {
			return fmt.Errorf("%w: channel layout has %d labels (%d mask bits) for %d channels",
				ErrMalformedContainer, len(labels), chanmap.BitCount(mask), st.primary.ASBD.ChannelsPerFrame)
		}

		// A layout tag whose channel count disagrees with the format's
		// leaves the identity map in place.
		return nil
	}

	idx := chanmap.MapToUSBOrder(labels)
	st.primary.ChannelLayout = ChannelLayout{
		ChannelMask: mask,
		ChannelMap:  idx,
	}

	_ = size // chan chunk size is implied by the fixed 12-byte header plus count*20

	return nil
}
