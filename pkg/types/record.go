// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Canonical spreadsheet headers. The support sheet is maintained in Russian;
// header matching is case-insensitive and tolerant of stray whitespace.
const (
	FieldProblem        = "Проблема"
	FieldSolution       = "Решение"
	FieldSecondSolution = "Решение_2"
	FieldObject         = "Объект"
	FieldQueries        = "запросы"
	FieldVideo          = "Видео"
	FieldPhoto          = "Фото"
)

// Field is one named cell of a knowledge base row.
type Field struct {
	// Name is the column header as it appears in the sheet. May be empty:
	// exports sometimes carry the object column under a blank header cell.
	Name string `json:"name" yaml:"name"`

	// Value is the raw cell text.
	Value string `json:"value" yaml:"value"`
}

// Record is one knowledge base row: an ordered list of header/value pairs.
// Order is preserved from the source sheet so duplicate or renamed columns
// resolve the same way everywhere.
type Record struct {
	Fields []Field `json:"fields" yaml:"fields"`
}

// NewRecord builds a record from fields in sheet order.
func NewRecord(fields ...Field) Record {
	return Record{Fields: fields}
}

// Get returns the value of the first field whose trimmed header matches name
// case-insensitively, or "" when no field matches. Blank headers never match.
func (r Record) Get(name string) string {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, f := range r.Fields {
		if f.Name == "" {
			continue
		}
		if strings.ToLower(strings.TrimSpace(f.Name)) == want {
			return f.Value
		}
	}
	return ""
}

// ObjectCode returns the record's object column, raw. When the named column
// is absent or empty it falls back to the first blank-header field, which is
// where exports put the object column when its header cell was left empty.
func (r Record) ObjectCode() string {
	if v := r.Get(FieldObject); v != "" {
		return v
	}
	for _, f := range r.Fields {
		if f.Name == "" {
			return f.Value
		}
	}
	return ""
}

// Problem returns the problem description column.
func (r Record) Problem() string { return r.Get(FieldProblem) }

// Solution returns the primary solution column.
func (r Record) Solution() string { return r.Get(FieldSolution) }

// SecondSolution returns the alternate solution column.
func (r Record) SecondSolution() string { return r.Get(FieldSecondSolution) }

// ExtraQueries returns the extra query phrases column, unsplit.
func (r Record) ExtraQueries() string { return r.Get(FieldQueries) }

// VideoIDs returns the comma-separated tokens of the video column. Tokens
// are opaque identifiers for the delivery transport and are never parsed.
func (r Record) VideoIDs() []string { return splitIDs(r.Get(FieldVideo)) }

// PhotoIDs returns the comma-separated tokens of the photo column.
func (r Record) PhotoIDs() []string { return splitIDs(r.Get(FieldPhoto)) }

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// SynonymTable maps an object code to the aliases that identify it in free
// text. The code itself always counts as one of its own aliases.
type SynonymTable map[string][]string
