// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// nonWordRe matches runs of everything that is not a letter, digit, or
// underscore. Cyrillic and Latin letters both survive.
var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// phraseSeparatorRe splits the extra-queries column: list separators
// (pipe, semicolon, slash, newline) and sentence punctuation both split.
var phraseSeparatorRe = regexp.MustCompile(`[|;/\n]+|[.!?]+`)

// Normalize folds text to NFKC, lowercases it, and strips everything but
// letters, digits, and underscores, collapsing the result into single
// space-separated words. Applying it twice gives the same result as once.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = nonWordRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// SplitPhrases breaks the extra-queries column into candidate phrases.
// Pieces are trimmed; blank pieces are dropped.
func SplitPhrases(text string) []string {
	if text == "" {
		return nil
	}
	parts := phraseSeparatorRe.Split(text, -1)
	phrases := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			phrases = append(phrases, p)
		}
	}
	return phrases
}
