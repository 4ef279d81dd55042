package bridge

import (
	"regexp"
	"strings"
)

var (
	taggedFenceOpen = regexp.MustCompile("^```(?:latex|tex)\\b\\s*")
	bareFenceOpen   = regexp.MustCompile("^```[ \\t]*\\r?\\n")
	fenceClose      = regexp.MustCompile("```\\s*$")
)

// StripCodeFence removes a leading ```latex (or bare ```) fence and a trailing
// ``` from a model response and trims surrounding whitespace. It repeats until
// nothing changes, so applying it twice is the same as applying it once.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	for {
		next := taggedFenceOpen.ReplaceAllString(s, "")
		next = bareFenceOpen.ReplaceAllString(next, "")
		next = fenceClose.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == s {
			return s
		}
		s = next
	}
}
