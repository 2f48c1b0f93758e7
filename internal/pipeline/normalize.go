package pipeline

import (
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/domain"
)

// NormalizeManual converts the raw manual-filter mapping into a
// ParameterSet. Null, empty-string, and empty-array values mean "do not
// filter" and are dropped. Manual input is assumed to already be in
// provider slug format, so no slugification happens here; bad slugs are
// simply sent as given and rejected by the service.
func NormalizeManual(filters map[string]any) domain.ParameterSet {
	var p domain.ParameterSet

	p.Query, _ = stringField(filters, "q")
	p.User, _ = stringField(filters, "user")
	p.Tags = stringSliceField(filters, "tags")
	p.Categories = stringSliceField(filters, "categories")

	p.Downloadable = boolField(filters, "downloadable")
	p.Animated = boolField(filters, "animated")
	p.Rigged = boolField(filters, "rigged")
	p.StaffPicked = boolField(filters, "staffpicked")
	p.Sound = boolField(filters, "sound")
	p.ArchivesFlavours = boolField(filters, "archives_flavours")

	p.PBRType, _ = stringField(filters, "pbr_type")
	p.FileFormat, _ = stringField(filters, "file_format")
	p.License, _ = stringField(filters, "license")
	p.SortBy, _ = stringField(filters, "sort_by")
	p.AvailableArchiveType, _ = stringField(filters, "available_archive_type")
	p.Collection, _ = stringField(filters, "collection")

	p.MinFaceCount = intField(filters, "min_face_count")
	p.MaxFaceCount = intField(filters, "max_face_count")
	p.MaxUVLayerCount = intField(filters, "max_uv_layer_count")
	p.ArchivesMaxSize = intField(filters, "archives_max_size")
	p.ArchivesMaxFaceCount = intField(filters, "archives_max_face_count")
	p.ArchivesMaxVertexCount = intField(filters, "archives_max_vertex_count")
	p.ArchivesMaxTextureCount = intField(filters, "archives_max_texture_count")
	p.ArchivesTextureMaxResolution = intField(filters, "archives_texture_max_resolution")

	p.Date = dateField(filters)

	return p
}

func stringField(filters map[string]any, key string) (string, bool) {
	v, ok := filters[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func boolField(filters map[string]any, key string) *bool {
	v, ok := filters[key]
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return domain.BoolPtr(b)
}

func intField(filters map[string]any, key string) *int {
	v, ok := filters[key]
	if !ok {
		return nil
	}
	// JSON decoding yields float64; accept int for callers constructing
	// filter maps directly.
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return nil
		}
		return domain.IntPtr(int(n))
	case int:
		if n < 0 {
			return nil
		}
		return domain.IntPtr(n)
	default:
		return nil
	}
}

func stringSliceField(filters map[string]any, key string) []string {
	v, ok := filters[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// dateField accepts either a day count or a symbolic recency window.
// all-time (and anything unrecognized) means no date filter.
func dateField(filters map[string]any) *int {
	v, ok := filters["date"]
	if !ok {
		return nil
	}
	switch d := v.(type) {
	case float64:
		if d > 0 {
			return domain.IntPtr(int(d))
		}
	case int:
		if d > 0 {
			return domain.IntPtr(d)
		}
	case string:
		if days, ok := domain.RecencyWindow(d).Days(); ok {
			return domain.IntPtr(days)
		}
	}
	return nil
}
