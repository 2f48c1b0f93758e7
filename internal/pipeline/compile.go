package pipeline

import (
	"strconv"

	"github.com/Amon20044/SketchFab-Apify-Actor/internal/domain"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/search"
)

// Compile turns a ParameterSet and pagination state into the wire-ready
// query. It is the single normalization boundary for both entry branches:
// type=models is always first, empty fields are dropped, arrays become
// repeated keys in original order, and pagination comes last with count
// always present. Contradictory numeric constraints abort compilation; a
// query that can never match must not be sent.
func Compile(p domain.ParameterSet, pg domain.PaginationState) (search.Query, error) {
	if p.MinFaceCount != nil && p.MaxFaceCount != nil && *p.MaxFaceCount < *p.MinFaceCount {
		return nil, &domain.CompilationError{
			MinField: "min_face_count",
			MaxField: "max_face_count",
			Min:      *p.MinFaceCount,
			Max:      *p.MaxFaceCount,
		}
	}

	q := search.Query{{Key: "type", Value: domain.AssetType}}

	add := func(key, value string) {
		if value != "" {
			q = append(q, search.Param{Key: key, Value: value})
		}
	}
	addBool := func(key string, v *bool) {
		if v != nil {
			q = append(q, search.Param{Key: key, Value: strconv.FormatBool(*v)})
		}
	}
	addInt := func(key string, v *int) {
		if v != nil {
			q = append(q, search.Param{Key: key, Value: strconv.Itoa(*v)})
		}
	}

	add("q", p.Query)
	add("user", p.User)
	for _, t := range p.Tags {
		add("tags", t)
	}
	for _, c := range p.Categories {
		add("categories", c)
	}

	addBool("downloadable", p.Downloadable)
	addBool("animated", p.Animated)
	addBool("rigged", p.Rigged)
	addBool("staffpicked", p.StaffPicked)
	addBool("sound", p.Sound)

	add("pbr_type", p.PBRType)
	add("file_format", p.FileFormat)
	add("license", p.License)

	addInt("min_face_count", p.MinFaceCount)
	addInt("max_face_count", p.MaxFaceCount)
	addInt("max_uv_layer_count", p.MaxUVLayerCount)

	add("available_archive_type", p.AvailableArchiveType)
	addInt("archives_max_size", p.ArchivesMaxSize)
	addInt("archives_max_face_count", p.ArchivesMaxFaceCount)
	addInt("archives_max_vertex_count", p.ArchivesMaxVertexCount)
	addInt("archives_max_texture_count", p.ArchivesMaxTextureCount)
	addInt("archives_texture_max_resolution", p.ArchivesTextureMaxResolution)
	addBool("archives_flavours", p.ArchivesFlavours)

	add("sort_by", p.SortBy)
	addInt("date", p.Date)
	add("collection", p.Collection)

	size := pg.PageSize
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	q = append(q, search.Param{Key: "count", Value: strconv.Itoa(size)})
	if pg.Cursor != "" {
		q = append(q, search.Param{Key: "cursor", Value: pg.Cursor})
	}

	return q, nil
}
