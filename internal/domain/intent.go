package domain

import "strings"

const DefaultPageSize = 24

// SearchIntent is the caller's request as received: control fields plus the
// raw manual-filter mapping. Immutable once constructed.
type SearchIntent struct {
	UseAI        bool
	NaturalQuery string
	APIKey       string
	Cursor       string
	PageSize     int

	// Filters holds the raw manual filter fields with control keys already
	// excluded. Values are as decoded from JSON.
	Filters map[string]any
}

// HasNaturalQuery reports whether the free-text query is non-empty after
// trimming.
func (i SearchIntent) HasNaturalQuery() bool {
	return strings.TrimSpace(i.NaturalQuery) != ""
}

// Pagination returns the pagination state for this intent, applying the
// page size default.
func (i SearchIntent) Pagination() PaginationState {
	size := i.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return PaginationState{Cursor: i.Cursor, PageSize: size}
}

// PaginationState is the cursor position and page size for one search call.
// An empty cursor means the first page.
type PaginationState struct {
	Cursor   string
	PageSize int
}
