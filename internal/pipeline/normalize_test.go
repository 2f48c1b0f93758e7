package pipeline

import (
	"reflect"
	"testing"
)

func TestNormalizeManual_DropsEmptyValues(t *testing.T) {
	p := NormalizeManual(map[string]any{
		"q":          "",
		"user":       nil,
		"tags":       []any{},
		"categories": []any{"cars-vehicles", ""},
		"license":    "cc0",
	})

	if p.Query != "" {
		t.Errorf("Query = %q, want empty", p.Query)
	}
	if p.User != "" {
		t.Errorf("User = %q, want empty", p.User)
	}
	if p.Tags != nil {
		t.Errorf("Tags = %v, want nil", p.Tags)
	}
	if !reflect.DeepEqual(p.Categories, []string{"cars-vehicles"}) {
		t.Errorf("Categories = %v", p.Categories)
	}
	if p.License != "cc0" {
		t.Errorf("License = %q, want cc0", p.License)
	}
}

func TestNormalizeManual_PassesValuesThrough(t *testing.T) {
	p := NormalizeManual(map[string]any{
		"q":              "castle",
		"tags":           []any{"medieval", "stone"},
		"downloadable":   false,
		"rigged":         true,
		"min_face_count": float64(100),
		"max_face_count": float64(5000),
		"sort_by":        "likes",
	})

	if p.Query != "castle" {
		t.Errorf("Query = %q", p.Query)
	}
	if !reflect.DeepEqual(p.Tags, []string{"medieval", "stone"}) {
		t.Errorf("Tags = %v", p.Tags)
	}
	if p.Downloadable == nil || *p.Downloadable {
		t.Error("explicit downloadable=false lost")
	}
	if p.Rigged == nil || !*p.Rigged {
		t.Error("rigged=true lost")
	}
	if p.MinFaceCount == nil || *p.MinFaceCount != 100 {
		t.Error("min_face_count lost")
	}
	if p.MaxFaceCount == nil || *p.MaxFaceCount != 5000 {
		t.Error("max_face_count lost")
	}
	if p.SortBy != "likes" {
		t.Errorf("SortBy = %q", p.SortBy)
	}
}

func TestNormalizeManual_NoSlugification(t *testing.T) {
	// Manual input is trusted to be provider format already; a bad slug
	// passes through untouched and the remote service rejects it.
	p := NormalizeManual(map[string]any{"tags": []any{"Not A Slug"}})
	if !reflect.DeepEqual(p.Tags, []string{"Not A Slug"}) {
		t.Errorf("Tags = %v, want verbatim value", p.Tags)
	}
}

func TestNormalizeManual_UnknownKeysIgnored(t *testing.T) {
	p := NormalizeManual(map[string]any{
		"q":            "car",
		"someFutureKey": "value",
		"count":        float64(24),
	})

	if p.Query != "car" {
		t.Errorf("Query = %q", p.Query)
	}
}

func TestNormalizeManual_DateField(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *int
	}{
		{"numeric days", float64(14), intp(14)},
		{"this-month", "this-month", intp(30)},
		{"this-week", "this-week", intp(7)},
		{"today", "today", intp(1)},
		{"all-time omits", "all-time", nil},
		{"unknown window omits", "last-decade", nil},
		{"zero omits", float64(0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NormalizeManual(map[string]any{"date": tt.value})
			switch {
			case tt.want == nil && p.Date != nil:
				t.Errorf("Date = %d, want absent", *p.Date)
			case tt.want != nil && (p.Date == nil || *p.Date != *tt.want):
				t.Errorf("Date = %v, want %d", p.Date, *tt.want)
			}
		})
	}
}

func intp(v int) *int { return &v }
