// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// substringFloor is the minimum score for a candidate phrase that contains
// the whole normalized query.
const substringFloor = 0.95

// Similarity returns a score in [0, 1] for two normalized strings: 1 for
// identical non-empty strings, 0 when either side is empty. The base metric
// is Levenshtein similarity over runes, so Cyrillic text is measured in
// characters, not bytes.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	sim, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(sim)
}

// scoreNormalized scores one normalized candidate phrase against the
// normalized needle, applying the substring floor: a needle contained whole
// in the candidate scores at least substringFloor. The floor never lowers a
// higher base score.
func scoreNormalized(needle, candidate string) float64 {
	score := Similarity(needle, candidate)
	if needle != "" && strings.Contains(candidate, needle) && score < substringFloor {
		score = substringFloor
	}
	return score
}
