package caf

import "fmt"

// parseKuki slurps the magic cookie chunk verbatim; interpretation (AAC ASC
// extraction, ALAC wrapper stripping) happens later in package cookie.
func parseKuki(s Stream, size int64, st *parseState) error {
	if size <= 0 {
		return nil
	}

	buf, err := readFull(s, size)
	if err != nil {
		return fmt.Errorf("%w: reading kuki chunk: %v", ErrIO, err)
	}

	st.cookie = buf

	return nil
}
