// Package chanmap resolves CAF channel-layout tags and bitmaps into ordered
// channel-label sequences, folds the handful of legacy rear-surround/mono
// layouts into their modern equivalents, and derives the permutation needed
// to present decoded channels in ascending-label (USB) order.
package chanmap

// Label identifies one output channel's role, matching Apple's
// AudioChannelLabel enumeration (the vocabulary CAF's chan chunk is defined
// against).
type Label uint32

// Channel labels used by the layout tag table and by TranslateLabels'
// folding rules. Values match kAudioChannelLabel_* exactly so a CAF file's
// raw 32-bit label values can be converted to Label directly.
const (
	LabelLeft                 Label = 1
	LabelRight                Label = 2
	LabelCenter                Label = 3
	LabelLFEScreen             Label = 4
	LabelLeftSurround          Label = 5
	LabelRightSurround         Label = 6
	LabelLeftCenter            Label = 7
	LabelRightCenter           Label = 8
	LabelCenterSurround        Label = 9
	LabelLeftSurroundDirect    Label = 10
	LabelRightSurroundDirect   Label = 11
	LabelTopCenterSurround     Label = 12
	LabelVerticalHeightLeft    Label = 13
	LabelVerticalHeightCenter  Label = 14
	LabelVerticalHeightRight   Label = 15
	LabelTopBackLeft           Label = 16
	LabelTopBackCenter         Label = 17
	LabelTopBackRight          Label = 18
	LabelRearSurroundLeft      Label = 33
	LabelRearSurroundRight     Label = 34
	LabelLeftWide              Label = 35
	LabelRightWide             Label = 36
	LabelLFE2                  Label = 37
	LabelHeadphonesLeft        Label = 301
	LabelHeadphonesRight       Label = 302
	LabelMono                  Label = 42
)

// MaxOrdinaryLabel is the highest label value the chan-chunk description
// list is permitted to carry (kAudioChannelLabel_TopBackRight).
const MaxOrdinaryLabel = byte(LabelTopBackRight)

// BitCount returns the number of set bits in mask.
func BitCount(mask uint32) int {
	n := 0
	for mask != 0 {
		mask &= mask - 1
		n++
	}

	return n
}

// layoutTags maps a CAF/CoreAudio channel layout tag to its ordered label
// sequence. Entries cover the broadly used mono/stereo/matrix/MPEG/ITU/DVD/AAC
// layouts; LabelsForTag reports a tag absent here as unknown, and the chan
// parser rejects it (there is no fallback to the chunk's bitmap).
var layoutTags = map[uint32][]Label{
	tagMono:             {LabelMono},
	tagStereo:           {LabelLeft, LabelRight},
	tagStereoHeadphones: {LabelHeadphonesLeft, LabelHeadphonesRight},
	tagMatrixStereo:     {LabelLeft, LabelRight},
	tagMidSide:          {LabelLeft, LabelRight},
	tagXY:               {LabelLeft, LabelRight},
	tagBinaural:         {LabelLeft, LabelRight},
	tagAmbisonicBFormat: {LabelLeft, LabelRight, LabelCenter, LabelLFEScreen},
	tagQuadraphonic:     {LabelLeft, LabelRight, LabelLeftSurround, LabelRightSurround},
	tagPentagonal: {
		LabelLeft, LabelRight, LabelCenter, LabelLeftSurround, LabelRightSurround,
	},
	tagHexagonal: {
		LabelLeft, LabelRight, LabelCenter, LabelCenterSurround,
		LabelLeftSurround, LabelRightSurround,
	},
	tagOctagonal: {
		LabelLeft, LabelRight, LabelCenter, LabelLeftSurround, LabelRightSurround,
		LabelRearSurroundLeft, LabelRearSurroundRight, LabelCenterSurround,
	},
	tagMPEG_1_0: {LabelMono},
	tagMPEG_2_0: {LabelLeft, LabelRight},
	tagMPEG_3_0_A: {LabelLeft, LabelRight, LabelCenter},
	tagMPEG_3_0_B: {LabelCenter, LabelLeft, LabelRight},
	tagMPEG_4_0_A: {LabelLeft, LabelRight, LabelCenter, LabelCenterSurround},
	tagMPEG_4_0_B: {LabelCenter, LabelLeft, LabelRight, LabelCenterSurround},
	tagMPEG_5_0_A: {
		LabelLeft, LabelRight, LabelCenter, LabelLeftSurround, LabelRightSurround,
	},
	tagMPEG_5_0_B: {
		LabelLeft, LabelRight, LabelLeftSurround, LabelRightSurround, LabelCenter,
	},
	tagMPEG_5_0_C: {
		LabelLeft, LabelCenter, LabelRight, LabelLeftSurround, LabelRightSurround,
	},
	tagMPEG_5_0_D: {
		LabelCenter, LabelLeft, LabelRight, LabelLeftSurround, LabelRightSurround,
	},
	tagMPEG_5_1_A: {
		LabelLeft, LabelRight, LabelCenter, LabelLFEScreen,
		LabelLeftSurround, LabelRightSurround,
	},
	tagMPEG_5_1_B: {
		LabelLeft, LabelRight, LabelLeftSurround, LabelRightSurround,
		LabelCenter, LabelLFEScreen,
	},
	tagMPEG_5_1_C: {
		LabelLeft, LabelCenter, LabelRight, LabelLeftSurround,
		LabelRightSurround, LabelLFEScreen,
	},
	tagMPEG_5_1_D: {
		LabelCenter, LabelLeft, LabelRight, LabelLeftSurround,
		LabelRightSurround, LabelLFEScreen,
	},
	tagMPEG_6_1_A: {
		LabelLeft, LabelRight, LabelCenter, LabelLFEScreen,
		LabelLeftSurround, LabelRightSurround, LabelCenterSurround,
	},
	tagMPEG_7_1_A: {
		LabelLeft, LabelRight, LabelCenter, LabelLFEScreen,
		LabelLeftSurround, LabelRightSurround, LabelLeftCenter, LabelRightCenter,
	},
	tagMPEG_7_1_B: {
		LabelCenter, LabelLeftCenter, LabelRightCenter, LabelLeft, LabelRight,
		LabelLeftSurround, LabelRightSurround, LabelLFEScreen,
	},
	tagMPEG_7_1_C: {
		LabelLeft, LabelRight, LabelCenter, LabelLFEScreen,
		LabelLeftSurround, LabelRightSurround, LabelRearSurroundLeft, LabelRearSurroundRight,
	},
	tagEmagic7_1: {
		LabelLeft, LabelRight, LabelLeftSurround, LabelRightSurround,
		LabelCenter, LabelLFEScreen, LabelLeftCenter, LabelRightCenter,
	},
	tagSMPTE_DTV: {
		LabelLeft, LabelRight, LabelCenter, LabelLFEScreen,
		LabelLeftSurround, LabelRightSurround, LabelLeftWide, LabelRightWide,
	},
	tagITU_1_0: {LabelMono},
	tagITU_2_0: {LabelLeft, LabelRight},
	tagITU_2_1: {LabelLeft, LabelRight, LabelCenterSurround},
	tagITU_2_2: {LabelLeft, LabelRight, LabelLeftSurround, LabelRightSurround},
	tagITU_3_0: {LabelLeft, LabelRight, LabelCenter},
	tagITU_3_1: {LabelLeft, LabelRight, LabelCenter, LabelCenterSurround},
	tagITU_3_2: {
		LabelLeft, LabelRight, LabelCenter, LabelLeftSurround, LabelRightSurround,
	},
	tagITU_3_2_1: {
		LabelLeft, LabelRight, LabelCenter, LabelLeftSurround,
		LabelRightSurround, LabelLFEScreen,
	},
	tagITU_3_4_1: {
		LabelLeft, LabelRight, LabelCenter, LabelLeftSurround, LabelRightSurround,
		LabelRearSurroundLeft, LabelRearSurroundRight, LabelLFEScreen,
	},
	tagDVD_4: {LabelLeft, LabelRight, LabelLFEScreen},
	tagDVD_5: {LabelLeft, LabelRight, LabelLFEScreen, LabelCenterSurround},
	tagDVD_6: {
		LabelLeft, LabelRight, LabelLFEScreen, LabelLeftSurround, LabelRightSurround,
	},
	tagDVD_10: {LabelLeft, LabelRight, LabelCenter, LabelLFEScreen},
	tagDVD_11: {
		LabelLeft, LabelRight, LabelCenter, LabelLFEScreen, LabelCenterSurround,
	},
	tagDVD_18: {
		LabelLeft, LabelRight, LabelLeftSurround, LabelRightSurround, LabelLFEScreen,
	},
	tagAAC_6_0: {
		LabelCenter, LabelLeft, LabelRight, LabelLeftSurround,
		LabelRightSurround, LabelCenterSurround,
	},
	tagAAC_6_1: {
		LabelCenter, LabelLeft, LabelRight, LabelLeftSurround,
		LabelRightSurround, LabelCenterSurround, LabelLFEScreen,
	},
	tagAAC_7_0: {
		LabelCenter, LabelLeft, LabelRight, LabelLeftSurround,
		LabelRightSurround, LabelRearSurroundLeft, LabelRearSurroundRight,
	},
	tagAAC_Octagonal: {
		LabelCenter, LabelLeft, LabelRight, LabelLeftSurround, LabelRightSurround,
		LabelRearSurroundLeft, LabelRearSurroundRight, LabelCenterSurround,
	},
}
