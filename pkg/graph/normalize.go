package graph

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const fallbackID = "topic"

// NormalizeTopic turns a free-text topic into its lookup key: Unicode
// compatibility normalisation, lowercase, words joined by hyphens.
//
//	NormalizeTopic("  Machine   Learning ") == "machine-learning"
func NormalizeTopic(topic string) string {
	s := norm.NFKC.String(topic)
	s = cases.Lower(language.Und).String(s)
	return strings.Join(strings.Fields(s), "-")
}

// SanitizeID derives a node id from arbitrary text. The result is never
// empty and only contains letters, digits, '-' and '_'.
func SanitizeID(topic string) string {
	key := NormalizeTopic(topic)

	var b strings.Builder
	b.Grow(len(key))
	lastHyphen := true
	for _, r := range key {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-':
			if !lastHyphen {
				b.WriteRune(r)
				lastHyphen = true
			}
		}
	}

	id := strings.Trim(b.String(), "-")
	if id == "" {
		return fallbackID
	}
	return id
}

// displayName is the label shown for a topic's root node.
func displayName(topic string) string {
	name := strings.Join(strings.Fields(norm.NFC.String(topic)), " ")
	if name == "" {
		return "Untitled Topic"
	}
	return name
}
