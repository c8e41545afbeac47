// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pdiddy/support-engine/pkg/types"
)

func testRecord(problem, solution, solution2, object, queries string) types.Record {
	return types.NewRecord(
		types.Field{Name: "Объект", Value: object},
		types.Field{Name: "Проблема", Value: problem},
		types.Field{Name: "Решение", Value: solution},
		types.Field{Name: "Решение_2", Value: solution2},
		types.Field{Name: "запросы", Value: queries},
	)
}

func testRecords() []types.Record {
	return []types.Record{
		testRecord("Проектор не включается", "Проверить питание", "", "проектор",
			"нет изображения | проектор не стартует"),
		testRecord("Нет звука в зале", "Включить усилитель", "Проверить микшер", "кп", ""),
		testRecord("Платформа не поднимается", "Перезапустить привод", "", "сцена",
			"не работает платформа"),
	}
}

func TestRankExactMatch(t *testing.T) {
	got := Rank("нет звука в зале", testRecords(), 1, "")
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	if got[0].Score != 1 {
		t.Errorf("score = %v, want 1", got[0].Score)
	}
	if p := got[0].Record.Problem(); p != "Нет звука в зале" {
		t.Errorf("matched %q", p)
	}
}

func TestRankSubstringFloor(t *testing.T) {
	got := Rank("звука", testRecords(), 1, "")
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	if got[0].Score < 0.95 {
		t.Errorf("score = %v, want >= 0.95", got[0].Score)
	}
	if p := got[0].Record.Problem(); p != "Нет звука в зале" {
		t.Errorf("matched %q", p)
	}
}

func TestRankUsesExtraQueries(t *testing.T) {
	got := Rank("не работает платформа", testRecords(), 1, "")
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	if got[0].Score != 1 {
		t.Errorf("score = %v, want 1 via extra query phrase", got[0].Score)
	}
	if p := got[0].Record.Problem(); p != "Платформа не поднимается" {
		t.Errorf("matched %q", p)
	}
}

func TestRankObjectScope(t *testing.T) {
	// Scoped ranking only considers records with the same normalized
	// object code; everything else is skipped, not zero-scored.
	got := Rank("не включается", testRecords(), 3, "проектор")
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	if obj := got[0].Record.ObjectCode(); obj != "проектор" {
		t.Errorf("matched object %q", obj)
	}

	if got := Rank("не включается", testRecords(), 3, "лифт"); len(got) != 0 {
		t.Errorf("unknown object scope returned %d matches, want 0", len(got))
	}
}

func TestRankScopeNormalizingToEmpty(t *testing.T) {
	// A scope that survives as text but normalizes away, such as bare
	// punctuation, still restricts the ranking: only records whose own
	// object code also normalizes to nothing take part.
	records := []types.Record{
		testRecord("Проектор не включается", "Проверить питание", "", "проектор", ""),
		testRecord("Сломалась дверь", "Вызвать мастера", "", "", ""),
	}

	got := Rank("дверь", records, 5, "!!!")
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	if p := got[0].Record.Problem(); p != "Сломалась дверь" {
		t.Errorf("matched %q, want the record without an object code", p)
	}
}

func TestRankTopNBounds(t *testing.T) {
	records := testRecords()

	if got := Rank("нет звука", records, 0, ""); len(got) != 1 {
		t.Errorf("topN 0 returned %d matches, want 1", len(got))
	}
	if got := Rank("нет звука", records, -2, ""); len(got) != 1 {
		t.Errorf("negative topN returned %d matches, want 1", len(got))
	}
	if got := Rank("нет звука", records, 10, ""); len(got) != len(records) {
		t.Errorf("large topN returned %d matches, want %d", len(got), len(records))
	}
	if got := Rank("нет звука", nil, 5, ""); len(got) != 0 {
		t.Errorf("no records returned %d matches, want 0", len(got))
	}
}

func TestRankStableOnTies(t *testing.T) {
	// A query sharing no characters with any record scores everything at
	// zero; sheet order must survive the sort.
	records := testRecords()
	got := Rank("qqq", records, len(records), "")
	if len(got) != len(records) {
		t.Fatalf("got %d matches, want %d", len(got), len(records))
	}
	for i, m := range got {
		if m.Score != 0 {
			t.Errorf("match %d score = %v, want 0", i, m.Score)
		}
		if want := records[i].Problem(); m.Record.Problem() != want {
			t.Errorf("match %d is %q, want %q (sheet order)", i, m.Record.Problem(), want)
		}
	}
}

func TestFormatText(t *testing.T) {
	matches := Rank("нет звука в зале", testRecords(), 2, "")

	var sb strings.Builder
	FormatText(matches, &sb)
	out := sb.String()

	for _, want := range []string{
		"1. Совпадение: 1.00",
		"Проблема: Нет звука в зале",
		"Решение: Включить усилитель",
		"Решение_2: Проверить микшер",
		"2. Совпадение:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTextEmpty(t *testing.T) {
	var sb strings.Builder
	FormatText(nil, &sb)
	if !strings.Contains(sb.String(), "Ничего не найдено.") {
		t.Errorf("empty output = %q", sb.String())
	}
}

func TestFormatJSON(t *testing.T) {
	matches := Rank("проектор не включается", testRecords(), 1, "")

	var sb strings.Builder
	if err := FormatJSON(matches, &sb); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var decoded []struct {
		Score          float64 `json:"score"`
		Object         string  `json:"object"`
		Problem        string  `json:"problem"`
		Solution       string  `json:"solution"`
		SecondSolution string  `json:"second_solution"`
	}
	if err := json.Unmarshal([]byte(sb.String()), &decoded); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("decoded %d entries, want 1", len(decoded))
	}
	if decoded[0].Score != 1 {
		t.Errorf("score = %v, want 1", decoded[0].Score)
	}
	if decoded[0].Problem != "Проектор не включается" {
		t.Errorf("problem = %q", decoded[0].Problem)
	}
	if decoded[0].Object != "проектор" {
		t.Errorf("object = %q", decoded[0].Object)
	}
	if decoded[0].SecondSolution != "" {
		t.Errorf("second_solution = %q, want omitted", decoded[0].SecondSolution)
	}
}
