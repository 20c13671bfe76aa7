// Package normalize cleans raw generator HTML into the canonical single-line
// form every later stage expects: boilerplate removed, whitespace collapsed,
// valid NFC UTF-8, and nothing before the end of <head>.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	headPrefix = regexp.MustCompile(`.*</head>`)
)

// Normalizer cleans HTML text. It never fails: undecodable bytes are dropped.
type Normalizer struct {
	boilerplate []string
}

// New creates a Normalizer removing the given boilerplate substrings.
func New(boilerplate []string) *Normalizer {
	return &Normalizer{boilerplate: boilerplate}
}

// Clean returns the normalized form of s. Clean(Clean(s)) == Clean(s).
func (n *Normalizer) Clean(s string) string {
	// Encoding first, so a dropped byte cannot leave two spaces behind.
	s = toUTF8(s)
	// Collapsing can complete a boilerplate string split by a newline, and a
	// removal can join two halves of another; repeat until nothing changes.
	for {
		prev := s
		for _, b := range n.boilerplate {
			s = strings.ReplaceAll(s, b, "")
		}
		s = whitespace.ReplaceAllString(s, " ")
		s = headPrefix.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)
		if s == prev {
			return s
		}
	}
}

// toUTF8 drops ill-formed UTF-8 sequences and composes to NFC.
func toUTF8(s string) string {
	t := transform.Chain(
		runes.ReplaceIllFormed(),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == utf8.RuneError })),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		// The chain above cannot reject input; fall back to the stdlib scrub.
		return strings.ToValidUTF8(s, "")
	}
	return out
}
