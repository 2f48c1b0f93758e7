package pipeline

import "github.com/Amon20044/SketchFab-Apify-Actor/internal/domain"

// Path tags which entry branch an invocation took. The two branches join
// at compilation; downstream stages never dispatch on it, it is carried
// for output metadata.
type Path string

const (
	PathAI     Path = "ai"
	PathManual Path = "manual"
)

// Route picks the derivation branch: AI only when the flag is set and the
// free-text query is non-empty after trimming. Total and side-effect free.
func Route(intent domain.SearchIntent) Path {
	if intent.UseAI && intent.HasNaturalQuery() {
		return PathAI
	}
	return PathManual
}
