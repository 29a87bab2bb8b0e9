package chanmap

// Channel layout tags, matching kAudioChannelLayoutTag_* values. The high
// 16 bits of a "numeric" tag (e.g. UseChannelBitmap, UseChannelDescriptions)
// are zero; ordinary layout tags pack a format identifier in the high bits
// with a channel count in the low 16, but callers never need to decode
// that - the table below is keyed on the full 32-bit constant.
const (
	TagUseChannelDescriptions uint32 = 0
	TagUseChannelBitmap       uint32 = 1 << 16

	tagMono             uint32 = (100 << 16) | 1
	tagStereo           uint32 = (101 << 16) | 2
	tagStereoHeadphones uint32 = (102 << 16) | 2
	tagMatrixStereo     uint32 = (103 << 16) | 2
	tagMidSide          uint32 = (104 << 16) | 2
	tagXY               uint32 = (105 << 16) | 2
	tagBinaural         uint32 = (106 << 16) | 2
	tagAmbisonicBFormat uint32 = (107 << 16) | 4
	tagQuadraphonic     uint32 = (108 << 16) | 4
	tagPentagonal       uint32 = (109 << 16) | 5
	tagHexagonal        uint32 = (110 << 16) | 6
	tagOctagonal        uint32 = (111 << 16) | 8

	tagMPEG_1_0   uint32 = (113 << 16) | 1
	tagMPEG_2_0   uint32 = (114 << 16) | 2
	tagMPEG_3_0_A uint32 = (115 << 16) | 3
	tagMPEG_3_0_B uint32 = (116 << 16) | 3
	tagMPEG_4_0_A uint32 = (117 << 16) | 4
	tagMPEG_4_0_B uint32 = (118 << 16) | 4
	tagMPEG_5_0_A uint32 = (119 << 16) | 5
	tagMPEG_5_0_B uint32 = (120 << 16) | 5
	tagMPEG_5_0_C uint32 = (121 << 16) | 5
	tagMPEG_5_0_D uint32 = (122 << 16) | 5
	tagMPEG_5_1_A uint32 = (123 << 16) | 6
	tagMPEG_5_1_B uint32 = (124 << 16) | 6
	tagMPEG_5_1_C uint32 = (125 << 16) | 6
	tagMPEG_5_1_D uint32 = (126 << 16) | 6
	tagMPEG_6_1_A uint32 = (127 << 16) | 7
	tagMPEG_7_1_A uint32 = (128 << 16) | 8
	tagMPEG_7_1_B uint32 = (129 << 16) | 8
	tagMPEG_7_1_C uint32 = (130 << 16) | 8
	tagEmagic7_1  uint32 = (131 << 16) | 8
	tagSMPTE_DTV  uint32 = (132 << 16) | 8

	tagITU_1_0   uint32 = (133 << 16) | 1
	tagITU_2_0   uint32 = (134 << 16) | 2
	tagITU_2_1   uint32 = (135 << 16) | 3
	tagITU_2_2   uint32 = (136 << 16) | 4
	tagITU_3_0   uint32 = (137 << 16) | 3
	tagITU_3_1   uint32 = (138 << 16) | 4
	tagITU_3_2   uint32 = (139 << 16) | 5
	tagITU_3_2_1 uint32 = (140 << 16) | 6
	tagITU_3_4_1 uint32 = (141 << 16) | 8

	tagDVD_4  uint32 = (142 << 16) | 3
	tagDVD_5  uint32 = (143 << 16) | 4
	tagDVD_6  uint32 = (144 << 16) | 5
	tagDVD_10 uint32 = (145 << 16) | 4
	tagDVD_11 uint32 = (146 << 16) | 5
	tagDVD_18 uint32 = (147 << 16) | 5

	tagAAC_6_0       uint32 = (148 << 16) | 6
	tagAAC_6_1       uint32 = (149 << 16) | 7
	tagAAC_7_0       uint32 = (150 << 16) | 7
	tagAAC_Octagonal uint32 = (151 << 16) | 8
)

// LabelsForTag resolves a layout tag to its ordered label sequence. ok is
// false for UseChannelBitmap/UseChannelDescriptions (handled separately by
// the caller) and for any tag this table does not carry.
func LabelsForTag(tag uint32) (labels []Label, ok bool) {
	if tag == TagUseChannelDescriptions || tag == TagUseChannelBitmap {
		return nil, false
	}

	labels, ok = layoutTags[tag]

	return labels, ok
}

// bitmapOrder lists, lowest bit first, the label each UseChannelBitmap bit
// position contributes. Bit 0 is Left, matching AudioChannelBitmap's
// kAudioChannelBit_Left ordering.
var bitmapOrder = []Label{
	LabelLeft, LabelRight, LabelCenter, LabelLFEScreen,
	LabelLeftSurround, LabelRightSurround, LabelLeftCenter, LabelRightCenter,
	LabelCenterSurround, LabelLeftSurroundDirect, LabelRightSurroundDirect,
	LabelTopCenterSurround, LabelVerticalHeightLeft, LabelVerticalHeightCenter,
	LabelVerticalHeightRight, LabelTopBackLeft, LabelTopBackCenter, LabelTopBackRight,
}

// LabelsForBitmap expands a UseChannelBitmap mask into the label sequence
// implied by bit position, lowest bit first.
func LabelsForBitmap(mask uint32) []Label {
	var labels []Label

	for i, lbl := range bitmapOrder {
		if mask&(1<<uint(i)) != 0 {
			labels = append(labels, lbl)
		}
	}

	return labels
}
