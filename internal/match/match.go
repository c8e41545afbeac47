// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match implements the fuzzy matching core: text normalization,
// similarity scoring, object detection, and ranking of knowledge base
// records against a free-text problem description.
package match

import (
	"sort"

	"github.com/pdiddy/support-engine/pkg/types"
)

// Match pairs a record with its score for one query.
type Match struct {
	// Score is the record's best phrase similarity, in [0, 1].
	Score float64

	// Record is the matched row.
	Record types.Record
}

// Rank scores records against query and returns the best matches in
// descending score order. The query is normalized once. When objectCode is
// non-empty only records whose normalized object code equals the normalized
// argument participate; everything else is skipped outright. Records are
// scored by their best candidate phrase: the problem column plus each piece
// of the extra-queries column. Ties keep sheet order. At least one match is
// returned when any record was scored; at most topN.
func Rank(query string, records []types.Record, topN int, objectCode string) []Match {
	needle := Normalize(query)
	scoped := objectCode != ""
	scope := Normalize(objectCode)

	matches := make([]Match, 0, len(records))
	for _, rec := range records {
		if scoped && Normalize(rec.ObjectCode()) != scope {
			continue
		}
		matches = append(matches, Match{Score: scoreRecord(needle, rec), Record: rec})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	n := topN
	if n < 1 {
		n = 1
	}
	if n > len(matches) {
		n = len(matches)
	}
	return matches[:n]
}

// scoreRecord returns the record's best phrase score against the already
// normalized needle.
func scoreRecord(needle string, rec types.Record) float64 {
	best := 0.0
	score := func(phrase string) {
		if phrase == "" {
			return
		}
		if s := scoreNormalized(needle, Normalize(phrase)); s > best {
			best = s
		}
	}

	score(rec.Problem())
	for _, phrase := range SplitPhrases(rec.ExtraQueries()) {
		score(phrase)
	}
	return best
}
