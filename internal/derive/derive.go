package derive

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Amon20044/SketchFab-Apify-Actor/internal/domain"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/llm"
)

// Derivation is the adapter's result. It always carries a usable
// ParameterSet: derivation failures degrade to the deterministic fallback
// instead of failing the invocation, and Note explains why.
type Derivation struct {
	Params   domain.ParameterSet
	AIUsed   bool
	Fallback bool
	Note     string
}

// Adapter turns free-text intent into a ParameterSet through an NLU
// backend, treating the backend's output as untrusted input.
type Adapter struct {
	client llm.Client
	logger *zap.Logger
}

// New builds an adapter. A nil client means no credential was configured;
// Derive then always takes the fallback path.
func New(client llm.Client, logger *zap.Logger) *Adapter {
	return &Adapter{client: client, logger: logger}
}

// Derive never fails: any backend error or malformed candidate degrades to
// Fallback on the original query.
func (a *Adapter) Derive(ctx context.Context, query string) Derivation {
	if a.client == nil {
		a.logger.Warn("no derivation backend configured, using fallback")
		return a.fallback(query, domain.ErrDerivationUnavailable.Error())
	}

	prompt := fmt.Sprintf("Convert this search query to Sketchfab parameters: %q", query)

	raw, err := a.client.CompleteWithSystem(ctx, systemPrompt, prompt)
	if err != nil {
		a.logger.Warn("derivation backend call failed", zap.Error(err))
		return a.fallback(query, fmt.Sprintf("%s: %v", domain.ErrDerivationFailed, err))
	}

	params, err := parseCandidate(raw)
	if err != nil {
		a.logger.Warn("derivation candidate rejected", zap.Error(err))
		return a.fallback(query, err.Error())
	}

	a.logger.Info("derived search parameters",
		zap.String("q", params.Query),
		zap.Strings("tags", params.Tags),
		zap.Strings("categories", params.Categories),
	)

	return Derivation{Params: params, AIUsed: true}
}

func (a *Adapter) fallback(query, reason string) Derivation {
	return Derivation{
		Params:   Fallback(query),
		Fallback: true,
		Note:     reason,
	}
}

// Fallback is the deterministic degraded derivation: the first three
// whitespace tokens become the keyword query and up to five of the
// remaining tokens longer than two characters become tags.
func Fallback(query string) domain.ParameterSet {
	tokens := strings.Fields(query)

	n := len(tokens)
	if n > 3 {
		n = 3
	}

	var tags []string
	for _, tok := range tokens[n:] {
		if len(tags) == 5 {
			break
		}
		if len(tok) <= 2 {
			continue
		}
		if slug := domain.Slugify(tok); slug != "" {
			tags = append(tags, slug)
		}
	}

	return domain.ParameterSet{
		Query:        strings.Join(tokens[:n], " "),
		Tags:         tags,
		Downloadable: domain.BoolPtr(true),
	}
}

// parseCandidate validates an untrusted candidate object and repairs what
// it can: slug fields are re-slugified, unknown categories are dropped,
// out-of-range numbers are discarded, and downloadable is forced on when
// unset. A candidate without a keyword query is malformed outright.
func parseCandidate(raw string) (domain.ParameterSet, error) {
	raw = stripFences(raw)

	if !gjson.Valid(raw) {
		return domain.ParameterSet{}, fmt.Errorf("%w: not valid JSON", domain.ErrMalformedCandidate)
	}

	v := gjson.Parse(raw)
	if !v.IsObject() {
		return domain.ParameterSet{}, fmt.Errorf("%w: not a JSON object", domain.ErrMalformedCandidate)
	}

	q := strings.TrimSpace(v.Get("q").String())
	if q == "" {
		return domain.ParameterSet{}, fmt.Errorf("%w: missing keyword query", domain.ErrMalformedCandidate)
	}

	p := domain.ParameterSet{Query: q}

	p.User = slugField(v, "user")
	p.PBRType = slugField(v, "pbr_type")
	p.FileFormat = slugField(v, "file_format")
	p.License = slugField(v, "license")
	p.SortBy = slugField(v, "sort_by")

	for _, t := range v.Get("tags").Array() {
		if slug := domain.Slugify(t.String()); slug != "" {
			p.Tags = append(p.Tags, slug)
		}
	}
	for _, c := range v.Get("categories").Array() {
		slug := domain.Slugify(c.String())
		if domain.IsKnownCategory(slug) {
			p.Categories = append(p.Categories, slug)
		}
	}

	p.Downloadable = boolField(v, "downloadable")
	p.Animated = boolField(v, "animated")
	p.Rigged = boolField(v, "rigged")
	p.StaffPicked = boolField(v, "staffpicked")
	p.Sound = boolField(v, "sound")
	p.ArchivesFlavours = boolField(v, "archives_flavours")

	p.MinFaceCount = intField(v, "min_face_count")
	p.MaxFaceCount = intField(v, "max_face_count")
	p.MaxUVLayerCount = intField(v, "max_uv_layer_count")
	p.ArchivesMaxSize = intField(v, "archives_max_size")
	p.ArchivesMaxFaceCount = intField(v, "archives_max_face_count")
	p.ArchivesMaxVertexCount = intField(v, "archives_max_vertex_count")
	p.ArchivesMaxTextureCount = intField(v, "archives_max_texture_count")
	p.ArchivesTextureMaxResolution = intField(v, "archives_texture_max_resolution")

	p.AvailableArchiveType = slugField(v, "available_archive_type")
	p.Collection = strings.TrimSpace(v.Get("collection").String())

	if d := v.Get("date"); d.Exists() {
		switch d.Type {
		case gjson.Number:
			if n := int(d.Int()); n > 0 {
				p.Date = domain.IntPtr(n)
			}
		case gjson.String:
			if days, ok := domain.RecencyWindow(d.String()).Days(); ok {
				p.Date = domain.IntPtr(days)
			}
		}
	}

	// Natural-language intent defaults to actually getting the asset.
	if p.Downloadable == nil {
		p.Downloadable = domain.BoolPtr(true)
	}

	return p, nil
}

func slugField(v gjson.Result, key string) string {
	return domain.Slugify(v.Get(key).String())
}

func boolField(v gjson.Result, key string) *bool {
	switch v.Get(key).Type {
	case gjson.True:
		return domain.BoolPtr(true)
	case gjson.False:
		return domain.BoolPtr(false)
	default:
		return nil
	}
}

func intField(v gjson.Result, key string) *int {
	f := v.Get(key)
	if f.Type != gjson.Number {
		return nil
	}
	n := int(f.Int())
	if n < 0 {
		return nil
	}
	return domain.IntPtr(n)
}

// stripFences removes a markdown code fence if the backend wrapped its JSON
// in one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
