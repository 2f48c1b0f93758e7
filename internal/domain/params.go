package domain

import (
	"strings"
	"unicode"
)

// AssetType is the fixed discriminator sent with every search request.
const AssetType = "models"

// RecencyWindow is a symbolic time filter accepted on input. all-time means
// the date field is omitted entirely.
type RecencyWindow string

const (
	WindowAllTime   RecencyWindow = "all-time"
	WindowThisMonth RecencyWindow = "this-month"
	WindowThisWeek  RecencyWindow = "this-week"
	WindowToday     RecencyWindow = "today"
)

// Days maps a window to its day count. ok is false for all-time and for
// anything outside the closed set, both of which mean "no date filter".
func (w RecencyWindow) Days() (days int, ok bool) {
	switch w {
	case WindowThisMonth:
		return 30, true
	case WindowThisWeek:
		return 7, true
	case WindowToday:
		return 1, true
	default:
		return 0, false
	}
}

// Categories is the closed set of category slugs the search service knows
// about. Values outside this set are dropped, never rejected.
var Categories = []string{
	"animals-pets",
	"architecture",
	"art-abstract",
	"cars-vehicles",
	"characters-creatures",
	"cultural-heritage-history",
	"electronics-gadgets",
	"fashion-style",
	"food-drink",
	"furniture-home",
	"music",
	"nature-plants",
	"news-politics",
	"people",
	"places-travel",
	"science-technology",
	"sports-fitness",
	"weapons-military",
}

var categorySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		m[c] = struct{}{}
	}
	return m
}()

func IsKnownCategory(slug string) bool {
	_, ok := categorySet[slug]
	return ok
}

// ParameterSet is the canonical, provider-agnostic form of a compiled query.
// Pointer fields are tri-state: nil means "do not filter on this axis".
type ParameterSet struct {
	Query      string
	User       string
	Tags       []string
	Categories []string

	Downloadable *bool
	Animated     *bool
	Rigged       *bool
	StaffPicked  *bool
	Sound        *bool

	PBRType    string
	FileFormat string
	License    string

	MinFaceCount    *int
	MaxFaceCount    *int
	MaxUVLayerCount *int

	AvailableArchiveType         string
	ArchivesMaxSize              *int
	ArchivesMaxFaceCount         *int
	ArchivesMaxVertexCount       *int
	ArchivesMaxTextureCount      *int
	ArchivesTextureMaxResolution *int
	ArchivesFlavours             *bool

	SortBy     string
	Date       *int
	Collection string
}

// Normalize brings the set into its canonical pre-compilation form: arrays
// deduped keeping first occurrence, unknown categories dropped, and
// downloadable defaulted to true unless explicitly set to false.
func (p *ParameterSet) Normalize() {
	p.Tags = dedupe(p.Tags)

	var cats []string
	for _, c := range dedupe(p.Categories) {
		if IsKnownCategory(c) {
			cats = append(cats, c)
		}
	}
	p.Categories = cats

	if p.Downloadable == nil {
		p.Downloadable = BoolPtr(true)
	}
}

func dedupe(values []string) []string {
	if len(values) < 2 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Slugify converts free text into the provider's slug format: lowercase,
// whitespace collapsed to single hyphens, punctuation stripped.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

func BoolPtr(v bool) *bool { return &v }

func IntPtr(v int) *int { return &v }
