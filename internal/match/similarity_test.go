// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "testing"

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		check func(t *testing.T, got float64)
	}{
		{
			name: "identical strings score one",
			a:    "проектор не работает",
			b:    "проектор не работает",
			check: func(t *testing.T, got float64) {
				if got != 1 {
					t.Errorf("got %v, want 1", got)
				}
			},
		},
		{
			name: "empty left side scores zero",
			a:    "",
			b:    "нет звука",
			check: func(t *testing.T, got float64) {
				if got != 0 {
					t.Errorf("got %v, want 0", got)
				}
			},
		},
		{
			name: "empty right side scores zero",
			a:    "нет звука",
			b:    "",
			check: func(t *testing.T, got float64) {
				if got != 0 {
					t.Errorf("got %v, want 0", got)
				}
			},
		},
		{
			name: "unrelated texts score low",
			a:    "звук пропал",
			b:    "проектор не включается",
			check: func(t *testing.T, got float64) {
				if got >= 0.5 {
					t.Errorf("got %v, want < 0.5", got)
				}
			},
		},
		{
			name: "overlapping texts score in between",
			a:    "нет звука",
			b:    "нет звука в зале",
			check: func(t *testing.T, got float64) {
				if got <= 0 || got >= 1 {
					t.Errorf("got %v, want in (0, 1)", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got < 0 || got > 1 {
				t.Fatalf("Similarity(%q, %q) = %v, out of [0, 1]", tt.a, tt.b, got)
			}
			tt.check(t, got)
		})
	}
}

func TestScoreNormalized(t *testing.T) {
	// Needle contained whole in a much longer candidate: the base score is
	// low but the substring floor lifts it.
	got := scoreNormalized("нет звука", "совсем нет звука в зале кп")
	if got < substringFloor {
		t.Errorf("substring score %v below floor %v", got, substringFloor)
	}

	// The floor never lowers a higher score.
	if got := scoreNormalized("нет звука", "нет звука"); got != 1 {
		t.Errorf("identical score %v, want 1", got)
	}

	// Empty needle gets no floor.
	if got := scoreNormalized("", "что угодно"); got != 0 {
		t.Errorf("empty needle score %v, want 0", got)
	}

	// Needle absent from candidate keeps the base score.
	if got := scoreNormalized("платформа", "экран мигает"); got >= substringFloor {
		t.Errorf("unrelated score %v unexpectedly floored", got)
	}
}
