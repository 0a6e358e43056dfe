package export

import (
	"regexp"
	"strings"
)

// FlagMarker delimits tool flags from the data selector in command
// arguments, for the families whose flags would otherwise be ambiguous with
// the selector.
const FlagMarker = "##"

// SplitMarker splits raw once on the first occurrence of marker. Text
// before the marker is the selector, text after is the tool-argument tail.
// Without a marker the whole string is the selector.
func SplitMarker(raw, marker string) (selector, tail string) {
	if i := strings.Index(raw, marker); i >= 0 {
		return strings.TrimSpace(raw[:i]), strings.TrimSpace(raw[i+len(marker):])
	}
	return strings.TrimSpace(raw), ""
}

// SplitFirstToken splits raw on the first run of whitespace. The first
// token is the selector, the rest is the tail.
func SplitFirstToken(raw string) (selector, tail string) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexFunc(raw, isSpace); i >= 0 {
		return raw[:i], strings.TrimSpace(raw[i:])
	}
	return raw, ""
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

var aliasTokenRe = regexp.MustCompile(`(?:^|\s)#\w`)

// SplitAliasPattern scans raw for the first whitespace-separated token that
// looks like a marked encoding alias. Everything before it is the selector,
// everything from it onward is the tail (the list of requested encodings).
func SplitAliasPattern(raw string) (selector, tail string) {
	loc := aliasTokenRe.FindStringIndex(raw)
	if loc == nil {
		return strings.TrimSpace(raw), ""
	}
	start := loc[0] + strings.IndexByte(raw[loc[0]:loc[1]], '#')
	return strings.TrimSpace(raw[:start]), strings.TrimSpace(raw[start:])
}
