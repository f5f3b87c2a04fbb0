// Package protocol implements the tagged-header wire convention used by
// assistant replies. A reply may start with a bracketed three-letter tag,
// e.g. "[USR] hello" or "[SYS]{...}", which selects how the response is
// routed.
package protocol

import (
	"regexp"
	"strings"
)

// Tag is a recognized header tag.
type Tag string

const (
	// TagUser marks a reply intended for direct display to the human.
	TagUser Tag = "USR"
	// TagSystem marks a machine-directed side-channel payload.
	TagSystem Tag = "SYS"
)

// headerRe matches an optional leading header token: surrounding
// whitespace, brackets, exactly three ASCII letters.
var headerRe = regexp.MustCompile(`^\s*\[([A-Za-z]{3})\]\s*`)

// Recognized reports whether t is a member of the closed tag set.
func Recognized(t Tag) bool {
	switch t {
	case TagUser, TagSystem:
		return true
	}
	return false
}

// Parse extracts the header tag from raw. When a recognized tag is
// present, it returns the tag and the input with the entire matched
// header token removed (not trimmed further). When the bracketed token
// does not match the three-letter pattern, or the tag is not recognized,
// it returns (fallback, raw) with the header left in place: unknown
// headers stay visible to the user instead of being silently eaten.
func Parse(raw string, fallback Tag) (Tag, string) {
	loc := headerRe.FindStringSubmatchIndex(raw)
	if loc == nil {
		return fallback, raw
	}

	tag := Tag(strings.ToUpper(raw[loc[2]:loc[3]]))
	if !Recognized(tag) {
		return fallback, raw
	}
	return tag, raw[loc[1]:]
}
