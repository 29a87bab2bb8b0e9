package cookie

import "testing"

// buildESDS builds a minimal ES_Descriptor > DecoderConfigDescriptor >
// DecoderSpecificInfo tree wrapping the given AudioSpecificConfig bytes.
func buildESDS(asc []byte) []byte {
	dsi := append([]byte{tagDecoderSpecificInfo, byte(len(asc))}, asc...)

	dcdBody := make([]byte, 13)
	dcd := append([]byte{tagDecoderConfigDescriptor, byte(len(dcdBody) + len(dsi))}, dcdBody...)
	dcd = append(dcd, dsi...)

	esBody := []byte{0x00, 0x00, 0x00} // ES_ID(2) + flags(1), no optional fields
	es := append([]byte{tagESDescriptor, byte(len(esBody) + len(dcd))}, esBody...)
	es = append(es, dcd...)

	return es
}

func TestExtractASCWalksFullTree(t *testing.T) {
	asc := []byte{0x12, 0x10} // arbitrary AudioSpecificConfig bytes
	cookie := buildESDS(asc)

	got, err := ExtractASC(cookie)
	if err != nil {
		t.Fatalf("ExtractASC: %v", err)
	}

	if len(got) != len(asc) || got[0] != asc[0] || got[1] != asc[1] {
		t.Fatalf("got %v, want %v", got, asc)
	}
}

// TestExtractASCOverDeclaredESDescriptorSize uses the spec's literal
// Scenario 4 cookie bytes, whose ES_Descriptor declares a size (32) larger
// than the 27-byte cookie it appears in. A real esds box shaped like this
// must still yield the ASC rather than fail bounds-checking on the
// ES_Descriptor's own declared size.
func TestExtractASCOverDeclaredESDescriptorSize(t *testing.T) {
	cookie := []byte{
		0x03, 0x20, 0x00, 0x00, 0x00, 0x04, 0x12, 0x40, 0x15, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x05, 0x02, 0x12, 0x10, 0x06, 0x01, 0x02,
	}

	got, err := ExtractASC(cookie)
	if err != nil {
		t.Fatalf("ExtractASC: %v", err)
	}

	want := []byte{0x12, 0x10}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractASCMissingDecoderSpecificInfo(t *testing.T) {
	dcdBody := make([]byte, 13)
	dcd := append([]byte{tagDecoderConfigDescriptor, byte(len(dcdBody))}, dcdBody...)

	esBody := []byte{0x00, 0x00, 0x00}
	es := append([]byte{tagESDescriptor, byte(len(esBody) + len(dcd))}, esBody...)
	es = append(es, dcd...)

	if _, err := ExtractASC(es); err == nil {
		t.Fatal("expected ErrNoDecoderSpecificInfo")
	}
}

func TestExtractASCTruncatedBER(t *testing.T) {
	if _, err := ExtractASC([]byte{tagESDescriptor, 0x80}); err == nil {
		t.Fatal("expected truncated BER error")
	}
}

func TestStripALACWrapperRemovesKnownWrapper(t *testing.T) {
	wrapper := make([]byte, alacWrapperSize+8)
	copy(wrapper[4:12], "frmaalac")
	for i := alacWrapperSize; i < len(wrapper); i++ {
		wrapper[i] = byte(i)
	}

	got := StripALACWrapper(wrapper)
	if len(got) != 8 {
		t.Fatalf("got len %d, want 8", len(got))
	}
	if got[0] != byte(alacWrapperSize) {
		t.Fatalf("wrapper not stripped correctly: %v", got)
	}
}

func TestStripALACWrapperLeavesBareCookieUnchanged(t *testing.T) {
	bare := []byte{1, 2, 3, 4, 5}

	got := StripALACWrapper(bare)
	if len(got) != len(bare) {
		t.Fatalf("bare cookie was modified: %v", got)
	}
}
