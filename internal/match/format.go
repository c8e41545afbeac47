// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatText writes matches as a numbered text block in the sheet's own
// language, one entry per match.
func FormatText(matches []Match, w io.Writer) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "Ничего не найдено.")
		return
	}

	for i, m := range matches {
		fmt.Fprintf(w, "%d. Совпадение: %.2f\n", i+1, m.Score)
		fmt.Fprintf(w, "   Проблема: %s\n", m.Record.Problem())
		fmt.Fprintf(w, "   Решение: %s\n", m.Record.Solution())
		if s2 := m.Record.SecondSolution(); strings.TrimSpace(s2) != "" {
			fmt.Fprintf(w, "   Решение_2: %s\n", s2)
		}
	}
}

// matchView is the JSON projection of a match.
type matchView struct {
	Score          float64 `json:"score"`
	Object         string  `json:"object,omitempty"`
	Problem        string  `json:"problem"`
	Solution       string  `json:"solution"`
	SecondSolution string  `json:"second_solution,omitempty"`
}

// FormatJSON writes matches as an indented JSON array.
func FormatJSON(matches []Match, w io.Writer) error {
	views := make([]matchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, matchView{
			Score:          m.Score,
			Object:         m.Record.ObjectCode(),
			Problem:        m.Record.Problem(),
			Solution:       m.Record.Solution(),
			SecondSolution: m.Record.SecondSolution(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}
