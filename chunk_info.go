package caf

import (
	"bytes"
	"fmt"
)

const maxInfoChunkSize = 64 << 20 // 64 MiB, matches CAFFile::parse_info's sanity bound

// parseInfo reads the info chunk: a u32 entry count (unused, the actual
// count is derived from NUL-splitting the remaining bytes) followed by
// alternating NUL-terminated key/value strings. Mirrors CAFFile::parse_info,
// including its tolerance for a trailing unpaired key (simply dropped).
func parseInfo(s Stream, size int64, st *parseState) error {
	if size <= 4 || size > maxInfoChunkSize {
		if size > 0 {
			if _, err := readFull(s, size); err != nil {
				return fmt.Errorf("%w: skipping oversized info chunk: %v", ErrIO, err)
			}
		}

		return nil
	}

	if _, err := readFull(s, 4); err != nil { // num_info field, unused
		return fmt.Errorf("%w: reading info chunk count: %v", ErrIO, err)
	}

	buf, err := readFull(s, size-4)
	if err != nil {
		return fmt.Errorf("%w: reading info chunk body: %v", ErrIO, err)
	}

	var tags []TagEntry

	rest := buf
	for {
		keyEnd := bytes.IndexByte(rest, 0)
		if keyEnd < 0 {
			break
		}
		key := string(rest[:keyEnd])
		rest = rest[keyEnd+1:]

		valEnd := bytes.IndexByte(rest, 0)
		if valEnd < 0 {
			break
		}
		val := string(rest[:valEnd])
		rest = rest[valEnd+1:]

		tags = append(tags, TagEntry{Key: key, Value: val})

		if len(rest) == 0 {
			break
		}
	}

	st.tags = tags

	return nil
}
