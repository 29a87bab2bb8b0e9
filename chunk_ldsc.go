package caf

import (
	"fmt"

	"github.com/nu774/foo-input-caf/chanmap"
)

// parseLdsc reads a layered-description chunk: a desc-shaped ASBD followed
// by a trailing u32 layout tag, appended to the layered-format stack.
// Mirrors CAFFile::parse_ldsc.
func parseLdsc(s Stream, size int64, st *parseState) error {
	sub := &parseState{}
	if err := parseDesc(s, sub); err != nil {
		return fmt.Errorf("ldsc: %w", err)
	}

	buf, err := readFull(s, 4)
	if err != nil {
		return fmt.Errorf("%w: reading ldsc layout tag: %v", ErrIO, err)
	}

	tag := beUint32(buf)
	if labels, ok := chanmap.LabelsForTag(tag); ok {
		if mask, ok := chanmap.ChannelMask(labels); ok {
			sub.primary.ChannelLayout = ChannelLayout{
				ChannelMask: mask,
				ChannelMap:  chanmap.MapToUSBOrder(labels),
			}
		}
	}

	st.layered = append(st.layered, sub.primary)

	return nil
}
