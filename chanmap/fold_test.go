package chanmap

import "testing"

func TestTranslateLabelsMonoAndHeadphones(t *testing.T) {
	got := TranslateLabels([]Label{LabelMono})
	if len(got) != 1 || got[0] != LabelCenter {
		t.Fatalf("Mono fold = %v, want [Center]", got)
	}

	got = TranslateLabels([]Label{LabelHeadphonesLeft, LabelHeadphonesRight})
	if len(got) != 2 || got[0] != LabelLeft || got[1] != LabelRight {
		t.Fatalf("Headphones fold = %v, want [Left Right]", got)
	}
}

func TestTranslateLabelsRearSurroundFold(t *testing.T) {
	in := []Label{LabelLeft, LabelRight, LabelCenter, LabelLeftSurround, LabelRightSurround, LabelRearSurroundLeft, LabelRearSurroundRight}
	got := TranslateLabels(in)

	want := []Label{LabelLeft, LabelRight, LabelCenter, LabelLeftSurroundDirect, LabelRightSurroundDirect, LabelLeftSurround, LabelRightSurround}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestTranslateLabelsGuardSkipsFoldWhenSidePresent(t *testing.T) {
	in := []Label{LabelLeft, LabelRight, LabelLeftSurroundDirect, LabelRightSurroundDirect, LabelRearSurroundLeft, LabelRearSurroundRight}
	got := TranslateLabels(in)

	for i, l := range in {
		if got[i] != l {
			t.Fatalf("guard should have left labels untouched, got[%d]=%v want %v", i, got[i], l)
		}
	}
}

func TestMapToUSBOrderStableSort(t *testing.T) {
	labels := []Label{LabelCenter, LabelLeft, LabelRight}
	idx := MapToUSBOrder(labels)

	want := []int{1, 2, 0} // Left(1) < Right(2) < Center(3)
	for i := range want {
		if idx[i] != want[i] {
			t.Fatalf("idx = %v, want %v", idx, want)
		}
	}
}

func TestChannelMaskOverflow(t *testing.T) {
	if mask, ok := ChannelMask([]Label{LabelLeft, LabelRight}); !ok || mask != 0x3 {
		t.Fatalf("ChannelMask(Left,Right) = %#x,%v want 0x3,true", mask, ok)
	}
	if _, ok := ChannelMask([]Label{Label(40)}); ok {
		t.Fatalf("label 40 should not fit the 32-bit mask")
	}
}
