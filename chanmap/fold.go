package chanmap

import "sort"

// hasSide reports whether labels already contains a direct left/right
// surround channel (10 or 11). CAFFile::translate_channel_labels computes
// this guard from the pre-fold label set before any mutation, so a stream
// that already places its surrounds "direct" is left alone by the
// rear-surround fold below.
func hasSide(labels []Label) bool {
	for _, l := range labels {
		if l == LabelLeftSurroundDirect || l == LabelRightSurroundDirect {
			return true
		}
	}

	return false
}

// existsRearSurround reports whether labels contains a rear-surround
// channel (33 or 34), mirroring chanmap.cpp's RearSurround::exists.
func existsRearSurround(labels []Label) bool {
	for _, l := range labels {
		if l == LabelRearSurroundLeft || l == LabelRearSurroundRight {
			return true
		}
	}

	return false
}

// TranslateLabels applies the CAF chan-chunk description-list fold used by
// CAFFile::translate_channel_labels: first the unconditional Mono/Headphones
// normalization, then - unless the stream already carries a direct side
// surround channel - the legacy rear-surround relabeling
// (5->10, 6->11, 33->5, 34->6). The guard is evaluated against the
// caller-supplied labels before any of this function's own mutations.
func TranslateLabels(labels []Label) []Label {
	guard := hasSide(labels)

	out := make([]Label, len(labels))
	copy(out, labels)

	for i, l := range out {
		switch l {
		case LabelMono:
			out[i] = LabelCenter
		case LabelHeadphonesLeft:
			out[i] = LabelLeft
		case LabelHeadphonesRight:
			out[i] = LabelRight
		}
	}

	if !guard && existsRearSurround(out) {
		for i, l := range out {
			switch l {
			case LabelLeftSurround:
				out[i] = LabelLeftSurroundDirect
			case LabelRightSurround:
				out[i] = LabelRightSurroundDirect
			case LabelRearSurroundLeft:
				out[i] = LabelLeftSurround
			case LabelRearSurroundRight:
				out[i] = LabelRightSurround
			}
		}
	}

	return out
}

// ConvertFromAppleLayout applies the same Simple/RearSurround folds used
// generically by chanmap.cpp's convertFromAppleLayout (no has_side guard -
// that guard is specific to the chan-chunk description path above).
func ConvertFromAppleLayout(labels []Label) []Label {
	out := make([]Label, len(labels))
	copy(out, labels)

	for i, l := range out {
		switch l {
		case LabelMono:
			out[i] = LabelCenter
		case LabelHeadphonesLeft:
			out[i] = LabelLeft
		case LabelHeadphonesRight:
			out[i] = LabelRight
		}
	}

	if existsRearSurround(out) {
		for i, l := range out {
			switch l {
			case LabelLeftSurround:
				out[i] = LabelLeftSurroundDirect
			case LabelRightSurround:
				out[i] = LabelRightSurroundDirect
			case LabelRearSurroundLeft:
				out[i] = LabelLeftSurround
			case LabelRearSurroundRight:
				out[i] = LabelRightSurround
			}
		}
	}

	return out
}

// ChannelMask ORs in bit (label-1) for every label, matching
// CAFFile::parse_channels' mask accumulation. It returns false if any label
// exceeds the highest bit this 32-bit mask can represent.
func ChannelMask(labels []Label) (mask uint32, ok bool) {
	for _, l := range labels {
		if l == 0 || l > 32 {
			return 0, false
		}

		mask |= 1 << uint(l-1)
	}

	return mask, true
}

// MapToUSBOrder returns, for each output position i, the index into labels
// whose label is the i-th smallest (stable on ties), matching
// chanmap.cpp's getMappingToUSBOrder.
func MapToUSBOrder(labels []Label) []int {
	idx := make([]int, len(labels))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return labels[idx[a]] < labels[idx[b]]
	})

	return idx
}
