package decoder

import (
	"context"
	"errors"
	"testing"

	"github.com/nu774/foo-input-caf"
)

func TestDecodePacketsDispatchesLPCM(t *testing.T) {
	d := New(&caf.Model{}, Options{})

	asbd := caf.AudioFormat{
		FormatID:         caf.CodecLPCM,
		FormatFlags:      caf.FlagIsSignedInt | caf.FlagIsLittleEndian,
		BytesPerPacket:   2,
		FramesPerPacket:  1,
		ChannelsPerFrame: 1,
		BitsPerChannel:   16,
	}

	raw := []byte{0x00, 0x40}

	samples, err := d.DecodePackets(context.Background(), asbd, caf.ChannelLayout{}, raw, []uint32{2})
	if err != nil {
		t.Fatalf("DecodePackets: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
}

func TestDecodePacketsDispatchesIMA4(t *testing.T) {
	d := New(&caf.Model{}, Options{})

	asbd := caf.AudioFormat{
		FormatID:         caf.CodecIMA4,
		ChannelsPerFrame: 1,
	}

	raw := make([]byte, 34)

	samples, err := d.DecodePackets(context.Background(), asbd, caf.ChannelLayout{}, raw, []uint32{34})
	if err != nil {
		t.Fatalf("DecodePackets: %v", err)
	}
	if len(samples) != 64 {
		t.Fatalf("got %d samples, want 64", len(samples))
	}
}

func TestDecodePacketsUnsupportedCodecWithNoPort(t *testing.T) {
	d := New(&caf.Model{}, Options{})

	asbd := caf.AudioFormat{FormatID: caf.CodecALAC}

	_, err := d.DecodePackets(context.Background(), asbd, caf.ChannelLayout{}, nil, nil)
	if !errors.Is(err, caf.ErrUnsupportedCodec) {
		t.Fatalf("got %v, want ErrUnsupportedCodec", err)
	}
}

func TestDecodePacketsRejectsHEAACv2ByDefault(t *testing.T) {
	d := New(&caf.Model{}, Options{})

	asbd := caf.AudioFormat{FormatID: caf.CodecAACHEv2}

	_, err := d.DecodePackets(context.Background(), asbd, caf.ChannelLayout{}, nil, nil)
	if !errors.Is(err, caf.ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodePacketsHonorsCanceledContext(t *testing.T) {
	d := New(&caf.Model{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.DecodePackets(ctx, caf.AudioFormat{FormatID: caf.CodecLPCM}, caf.ChannelLayout{}, nil, nil)
	if !errors.Is(err, caf.ErrAborted) {
		t.Fatalf("got %v, want ErrAborted", err)
	}
}

// stubDecoder is a minimal ExternalDecoder for exercising the
// Externals/cookie-extraction path without a real codec.
type stubDecoder struct {
	closed  bool
	packets int
}

func (s *stubDecoder) Decode(_ context.Context, packets [][]byte) ([]int32, error) {
	s.packets = len(packets)
	return make([]int32, len(packets)), nil
}

func (s *stubDecoder) Close() error {
	s.closed = true
	return nil
}

type stubPort struct {
	opened     int
	lastCookie []byte
	dec        *stubDecoder
}

func (p *stubPort) Open(_ caf.AudioFormat, magicCookie []byte) (ExternalDecoder, error) {
	p.opened++
	p.lastCookie = magicCookie
	p.dec = &stubDecoder{}
	return p.dec, nil
}

func TestDecodePacketsReusesOpenedExternalDecoder(t *testing.T) {
	port := &stubPort{}
	d := New(&caf.Model{}, Options{Externals: map[caf.FourCC]ExternalPort{caf.CodecALAC: port}})

	asbd := caf.AudioFormat{FormatID: caf.CodecALAC, ChannelsPerFrame: 1}

	for i := 0; i < 2; i++ {
		if _, err := d.DecodePackets(context.Background(), asbd, caf.ChannelLayout{}, []byte{1, 2}, []uint32{2}); err != nil {
			t.Fatalf("DecodePackets call %d: %v", i, err)
		}
	}

	if port.opened != 1 {
		t.Fatalf("Open called %d times, want 1 (decoder should be reused)", port.opened)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !port.dec.closed {
		t.Fatal("external decoder was not closed")
	}
}

func TestEffectiveCookieStripsALACWrapper(t *testing.T) {
	wrapper := make([]byte, 24+4)
	copy(wrapper[4:12], "frmaalac")

	got, err := effectiveCookie(caf.CodecALAC, wrapper)
	if err != nil {
		t.Fatalf("effectiveCookie: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got len %d, want 4", len(got))
	}
}

func TestEffectiveCookiePassesThroughUnknownCodec(t *testing.T) {
	raw := []byte{1, 2, 3}

	got, err := effectiveCookie(caf.CodecLPCM, raw)
	if err != nil {
		t.Fatalf("effectiveCookie: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %v, want %v", got, raw)
	}
}

func TestSplitPacketsSlicesByGivenSizes(t *testing.T) {
	raw := []byte{1, 2, 3, 4, 5}

	packets := splitPackets(raw, []uint32{2, 3})
	if len(packets) != 2 {
		t.Fatalf("got %d packets, want 2", len(packets))
	}
	if len(packets[0]) != 2 || len(packets[1]) != 3 {
		t.Fatalf("unexpected packet sizes: %v", packets)
	}
}
