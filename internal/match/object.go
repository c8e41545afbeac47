// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/support-engine/pkg/types"
)

// DetectObjectCode scans the query for known object aliases and returns the
// owning code of the longest one found, or "" when no alias occurs. Length
// is measured in runes after normalization. Codes are checked in sorted
// order so equal-length aliases resolve the same way on every call.
func DetectObjectCode(query string, table types.SynonymTable) string {
	qn := Normalize(query)
	if qn == "" || len(table) == 0 {
		return ""
	}

	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	best := ""
	bestLen := 0
	consider := func(alias, code string) {
		an := Normalize(alias)
		if an == "" {
			return
		}
		if n := utf8.RuneCountInString(an); n > bestLen && strings.Contains(qn, an) {
			best, bestLen = code, n
		}
	}

	for _, code := range codes {
		for _, alias := range table[code] {
			consider(alias, code)
		}
		consider(code, code)
	}
	return best
}
