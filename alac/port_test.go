package alac

import "testing"

func TestUnpackLESignExtends16Bit(t *testing.T) {
	raw := []byte{0xFF, 0xFF, 0x00, 0x40} // sample 0: -1, sample 1: 0x4000

	out := unpackLE(raw, 16)
	if len(out) != 2 {
		t.Fatalf("got %d samples, want 2", len(out))
	}

	if out[0] != -1<<16 {
		t.Errorf("sample 0 = %d, want %d", out[0], -1<<16)
	}

	want := int32(0x4000) << 16
	if out[1] != want {
		t.Errorf("sample 1 = %d, want %d", out[1], want)
	}
}

func TestUnpackLE24Bit(t *testing.T) {
	raw := []byte{0x00, 0x00, 0x01} // 0x010000, positive

	out := unpackLE(raw, 24)
	if len(out) != 1 {
		t.Fatalf("got %d samples, want 1", len(out))
	}

	want := int32(0x010000) << 8
	if out[0] != want {
		t.Errorf("got %d, want %d", out[0], want)
	}
}
