// Package metadata translates between CAF info-chunk keys and a generic
// tag vocabulary, using the union of key tables found across the two
// revisions of the original plugin's metadata handling (Metadata.cpp's
// handlers[]/known_keys[][2] tables, and CAFMetaData.cpp's simpler inline
// chain) per SPEC_FULL.md's Open Question resolution.
package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is one generic key/value metadata entry, independent of container
// format.
type Tag struct {
	Key   string
	Value string
}

// cafToGeneric maps a lowercased CAF info key to the generic key(s) it
// expands to. track/disc number are handled specially (split "n/total")
// rather than through this table.
var cafToGeneric = map[string]string{
	"title":                "title",
	"artist":               "artist",
	"album":                "album",
	"album artist":         "album artist",
	"genre":                "genre",
	"composer":             "composer",
	"lyricist":             "writer",
	"comments":             "comment",
	"recorded date":        "date",
	"year":                 "date",
	"date":                 "date",
	"tempo":                "bpm",
	"key signature":        "key signature",
	"time signature":       "time signature",
	"encoding application": "tool",
	"source encoder":       "encoder",
	"nominal bit rate":     "nominal bitrate",
	"channel layout":       "channel layout",
	"isrc":                 "isrc",
	"software":             "encoder",
	"replaygain_track_gain": "replaygain_track_gain",
	"replaygain_track_peak": "replaygain_track_peak",
	"replaygain_album_gain": "replaygain_album_gain",
	"replaygain_album_peak": "replaygain_album_peak",
}

// genericToCAF is cafToGeneric's reverse, used when writing tags back into
// an info chunk. Built once from cafToGeneric, then overridden for the
// generic keys several CAF keys map to, so each is written back under one
// canonical CAF spelling. Track/disc number have no entry here.
var genericToCAF map[string]string

func init() {
	genericToCAF = make(map[string]string, len(cafToGeneric))
	for caf, generic := range cafToGeneric {
		if _, exists := genericToCAF[generic]; !exists {
			genericToCAF[generic] = caf
		}
	}

	// known_keys[][2] prefers these canonical spellings over the first
	// cafToGeneric entry encountered for the same generic key.
	genericToCAF["writer"] = "lyricist"
	genericToCAF["comment"] = "comments"
	genericToCAF["date"] = "year"
	genericToCAF["bpm"] = "tempo"
	genericToCAF["tool"] = "encoding application"
}

// FromCAF translates one info-chunk entry into zero or more generic tags.
// track number/disc number ("n/total" strings) split into a bare number
// tag and, when total is present, a matching "total tracks"/"total discs"
// tag. Unknown keys pass through unchanged (CAF's vocabulary is open).
func FromCAF(key, value string) []Tag {
	lower := strings.ToLower(key)

	switch lower {
	case "track number":
		return splitNOfTotal(value, "track", "total tracks")
	case "disc number":
		return splitNOfTotal(value, "disc", "total discs")
	}

	if generic, ok := cafToGeneric[lower]; ok {
		return []Tag{{Key: generic, Value: value}}
	}

	return []Tag{{Key: key, Value: value}}
}

// ToCAF translates a generic tag into its CAF info-chunk key, uppercasing
// unknown keys the way CAFFile::set_metadata does for values it doesn't
// recognize.
func ToCAF(key, value string) (cafKey, cafValue string) {
	lower := strings.ToLower(key)

	if caf, ok := genericToCAF[lower]; ok {
		return caf, value
	}

	return strings.ToUpper(key), value
}

// MergeTrackDisc combines a bare number and an optional total into the
// "n/total" form CAF's track number/disc number keys use.
func MergeTrackDisc(number, total string) string {
	if total == "" {
		return number
	}

	return fmt.Sprintf("%s/%s", number, total)
}

func splitNOfTotal(value, numberKey, totalKey string) []Tag {
	parts := strings.SplitN(value, "/", 2)

	tags := []Tag{{Key: numberKey, Value: strings.TrimSpace(parts[0])}}

	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		tags = append(tags, Tag{Key: totalKey, Value: strings.TrimSpace(parts[1])})
	}

	return tags
}

// ParseTrackOrDiscNumber splits a "track"/"total tracks" (or disc/total
// discs) pair of generic tags back into CAF's combined "n/total" value.
// number must already be a valid integer string; an empty total omits the
// slash.
func ParseTrackOrDiscNumber(number, total string) (string, error) {
	if _, err := strconv.Atoi(strings.TrimSpace(number)); err != nil {
		return "", fmt.Errorf("metadata: invalid track/disc number %q: %w", number, err)
	}

	return MergeTrackDisc(number, total), nil
}
