package caf

import "errors"

// Sentinel error kinds. Every error the core returns wraps one of these via
// fmt.Errorf("%w: ...", Err...) so callers can classify failures with
// errors.Is without parsing strings.
var (
	// ErrIO wraps a failure reported by the underlying Stream.
	ErrIO = errors.New("caf: io error")
	// ErrMalformedContainer covers magic mismatches, missing required
	// chunks, size overflow, and bit-count disagreements.
	ErrMalformedContainer = errors.New("caf: malformed container")
	// ErrUnsupportedFormat covers unknown layout tags, disallowed
	// HE-AACv2, and variable-frames-without-packet-info.
	ErrUnsupportedFormat = errors.New("caf: unsupported format")
	// ErrUnsupportedCodec is returned when no decoder (native or
	// external) handles a codec FourCC.
	ErrUnsupportedCodec = errors.New("caf: unsupported codec")
	// ErrCookieParse is returned when an AAC magic cookie's ES
	// descriptor tree ends without a DecoderSpecificInfo (tag 5).
	ErrCookieParse = errors.New("caf: magic cookie parse error")
	// ErrAborted is returned when a caller-supplied context is canceled
	// mid-operation.
	ErrAborted = errors.New("caf: aborted")
	// ErrNotWritable is returned by write operations on a read-only
	// Stream.
	ErrNotWritable = errors.New("caf: stream is not writable")
)
