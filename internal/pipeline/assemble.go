package pipeline

import (
	"encoding/json"

	"github.com/Amon20044/SketchFab-Apify-Actor/internal/derive"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/domain"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/search"
)

// Outcome is everything one invocation produced. Constructed once,
// consumed once by the output assembler, then discarded.
type Outcome struct {
	RunID      string
	Mode       Path
	Intent     domain.SearchIntent
	Derivation derive.Derivation
	Params     domain.ParameterSet
	Query      search.Query
	Results    []json.RawMessage
	Pagination search.PaginationInfo

	// SearchError is the captured remote failure, if any. The invocation
	// still completes: the metadata record carries the description.
	SearchError string
}

// Metadata is the first record of every invocation. Downstream consumers
// read it before any result record, so a failed search is visible before
// partial results would be.
type Metadata struct {
	IsMetadata     bool                  `json:"_metadata"`
	RunID          string                `json:"run_id"`
	Mode           string                `json:"mode"`
	AIUsed         bool                  `json:"ai_used"`
	DerivationNote string                `json:"derivation_note,omitempty"`
	OriginalQuery  string                `json:"original_query,omitempty"`
	SearchParams   map[string]any        `json:"search_params"`
	ResultCount    int                   `json:"result_count"`
	Pagination     search.PaginationInfo `json:"pagination"`
	Error          *string               `json:"error"`
}

func buildMetadata(o *Outcome) Metadata {
	m := Metadata{
		IsMetadata:     true,
		RunID:          o.RunID,
		Mode:           string(o.Mode),
		AIUsed:         o.Derivation.AIUsed,
		DerivationNote: o.Derivation.Note,
		SearchParams:   paramsToMap(o.Query),
		ResultCount:    len(o.Results),
		Pagination:     o.Pagination,
	}
	if o.Mode == PathAI {
		m.OriginalQuery = o.Intent.NaturalQuery
	}
	if o.SearchError != "" {
		e := o.SearchError
		m.Error = &e
	}
	return m
}

// paramsToMap renders the compiled query for the metadata record: repeated
// keys become arrays, single keys stay scalar.
func paramsToMap(q search.Query) map[string]any {
	out := make(map[string]any, len(q))
	for _, p := range q {
		switch existing := out[p.Key].(type) {
		case nil:
			out[p.Key] = p.Value
		case string:
			out[p.Key] = []string{existing, p.Value}
		case []string:
			out[p.Key] = append(existing, p.Value)
		}
	}
	return out
}
