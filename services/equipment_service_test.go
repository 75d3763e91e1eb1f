package services

import (
	"encoding/json"
	"testing"
)

func decodeList(t *testing.T, raw string) []any {
	t.Helper()
	var list []any
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return list
}

func TestNormalizeDetectedList_WellFormed(t *testing.T) {
	input := decodeList(t, `[
		{"name": "Leg Press", "category": "machines", "confidence": 0.99},
		{"name": "Dumbbells", "category": "free_weights", "confidence": 0.95}
	]`)

	got := normalizeDetectedList(input)
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}

	if got[0].Name != "Leg Press" || got[0].Category != "machines" || got[0].Confidence != 0.99 {
		t.Errorf("item 0 = %+v", got[0])
	}
	if got[0].Icon != "⚙️" {
		t.Errorf("machines icon = %q", got[0].Icon)
	}
	if got[1].Icon != "🏋️" {
		t.Errorf("free_weights icon = %q", got[1].Icon)
	}
	if got[0].ID == "" || got[1].ID == "" || got[0].ID == got[1].ID {
		t.Errorf("ids must be generated and distinct: %q, %q", got[0].ID, got[1].ID)
	}
}

func TestNormalizeDetectedList_Defaults(t *testing.T) {
	input := decodeList(t, `[{"category": "cardio"}, {"name": "Smith Machine"}]`)

	got := normalizeDetectedList(input)
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}

	if got[0].Name != "Unknown Machine" {
		t.Errorf("missing name defaulted to %q", got[0].Name)
	}
	if got[0].Icon != "🏃" {
		t.Errorf("cardio icon = %q", got[0].Icon)
	}
	if got[1].Category != "machines" {
		t.Errorf("missing category defaulted to %q", got[1].Category)
	}
	if got[1].Confidence != 0.8 {
		t.Errorf("missing confidence defaulted to %v", got[1].Confidence)
	}
}

func TestNormalizeDetectedList_FlatArray(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNames []string
	}{
		{
			name:      "interleaved keys and values",
			input:     `["name", "Leg Press", "category", "machines", "confidence", 0.95, "name", "Treadmill", "category", "cardio"]`,
			wantNames: []string{"Leg Press", "Treadmill"},
		},
		{
			name:      "numeric noise discarded",
			input:     `["name", "Squat Rack", 42.5, "category", "free_weights", -3, "name", "Elliptical"]`,
			wantNames: []string{"Squat Rack", "Elliptical"},
		},
		{
			name:      "trailing accumulator flushed",
			input:     `[{"name": "Cable Crossover"}, "name", "Rowing Machine"]`,
			wantNames: []string{"Rowing Machine"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeDetectedList(decodeList(t, tt.input))
			if len(got) != len(tt.wantNames) {
				t.Fatalf("got %d items, want %d (%+v)", len(got), len(tt.wantNames), got)
			}
			for i, want := range tt.wantNames {
				if got[i].Name != want {
					t.Errorf("item %d name = %q, want %q", i, got[i].Name, want)
				}
			}
		})
	}
}

func TestNormalizeDetectedList_ReconstructedCountMatchesNameKeys(t *testing.T) {
	// one output object per "name" key occurrence in the flattened input
	input := decodeList(t, `["name", "A", "name", "B", "name", "C", "category", "cable"]`)

	got := normalizeDetectedList(input)
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}
	if got[2].Category != "cable" || got[2].Icon != "🔗" {
		t.Errorf("last item = %+v", got[2])
	}
}

func TestNormalizeDetectedList_Garbage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"nulls dropped", `[null, null, {"name": "Dip Station"}]`, 1},
		{"bare numbers dropped", `[7, {"name": "Dip Station"}, 3.2]`, 1},
		{"nested arrays dropped", `[["name", "x"], {"name": "Dip Station"}]`, 1},
		{"empty list", `[]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeDetectedList(decodeList(t, tt.input))
			if len(got) != tt.want {
				t.Fatalf("got %d items, want %d", len(got), tt.want)
			}
		})
	}
}

func TestNormalizeDetectedList_Strings(t *testing.T) {
	input := decodeList(t, `[
		{"name": "Pull-up Bar", "category": "bodyweight"},
		"{\"name\": \"Rowing Machine\", \"category\": \"cardio\", \"confidence\": 0.9}",
		"Treadmill",
		"icon"
	]`)

	got := normalizeDetectedList(input)
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3 (%+v)", len(got), got)
	}

	if got[1].Name != "Rowing Machine" || got[1].Category != "cardio" {
		t.Errorf("double-encoded item = %+v", got[1])
	}
	if got[2].Name != "Treadmill" || got[2].Category != "machines" || got[2].Confidence != 0.9 {
		t.Errorf("bare string item = %+v", got[2])
	}
}

func TestNormalizeScanPayload(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "plain JSON object",
			text: `{"equipment": [{"name": "Leg Press", "category": "machines", "confidence": 0.99}]}`,
			want: 1,
		},
		{
			name: "markdown fenced",
			text: "Here you go:\n```json\n{\"equipment\": [{\"name\": \"Treadmill\", \"category\": \"cardio\"}]}\n```",
			want: 1,
		},
		{
			name: "unparseable text",
			text: "I could not identify any equipment.",
			want: 0,
		},
		{
			name: "equipment missing",
			text: `{"items": []}`,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeScanPayload(tt.text)
			if got == nil {
				t.Fatal("output must never be nil")
			}
			if len(got) != tt.want {
				t.Fatalf("got %d items, want %d", len(got), tt.want)
			}
			for _, item := range got {
				if item.ID == "" || item.Name == "" || item.Category == "" || item.Icon == "" || item.Confidence == 0 {
					t.Errorf("item has unpopulated fields: %+v", item)
				}
			}
		})
	}
}
