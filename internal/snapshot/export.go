// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/support-engine/pkg/types"
)

// exportEntry is the reviewer-facing view of a record. Blank fields are
// omitted so exports stay readable.
type exportEntry struct {
	Problem        string `json:"problem" yaml:"problem"`
	Solution       string `json:"solution" yaml:"solution"`
	SecondSolution string `json:"second_solution,omitempty" yaml:"second_solution,omitempty"`
	Object         string `json:"object,omitempty" yaml:"object,omitempty"`
	Queries        string `json:"queries,omitempty" yaml:"queries,omitempty"`
	VideoIDs       string `json:"video_ids,omitempty" yaml:"video_ids,omitempty"`
	PhotoIDs       string `json:"photo_ids,omitempty" yaml:"photo_ids,omitempty"`
}

func exportEntries(records []types.Record) []exportEntry {
	entries := make([]exportEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, exportEntry{
			Problem:        rec.Problem(),
			Solution:       rec.Solution(),
			SecondSolution: rec.SecondSolution(),
			Object:         rec.Get(types.FieldObject),
			Queries:        rec.ExtraQueries(),
			VideoIDs:       rec.Get(types.FieldVideo),
			PhotoIDs:       rec.Get(types.FieldPhoto),
		})
	}
	return entries
}

// ExportYAML writes the record set to w as a YAML document.
func ExportYAML(w io.Writer, records []types.Record) error {
	data, err := yaml.Marshal(exportEntries(records))
	if err != nil {
		return fmt.Errorf("marshaling records: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// ExportJSON writes the record set to w as indented JSON.
func ExportJSON(w io.Writer, records []types.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exportEntries(records)); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return nil
}
