package search

import "net/url"

// PaginationInfo records which directions the service offered for the
// current page. A missing URL means no such direction, never an error.
type PaginationInfo struct {
	NextCursor string `json:"next_cursor,omitempty"`
	PrevCursor string `json:"previous_cursor,omitempty"`
	HasNext    bool   `json:"has_next"`
	HasPrev    bool   `json:"has_previous"`
}

// ExtractCursor pulls the cursor query parameter out of a page URL. It
// yields ok=false for an empty URL, an unparseable URL, or a URL without a
// cursor parameter.
func ExtractCursor(rawURL string) (cursor string, ok bool) {
	if rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	cursor = u.Query().Get("cursor")
	return cursor, cursor != ""
}

// PaginationFromURLs derives PaginationInfo from the next/previous page
// URLs of a search response. Nil means the service offered no such page.
func PaginationFromURLs(next, previous *string) PaginationInfo {
	var info PaginationInfo
	if next != nil {
		if c, ok := ExtractCursor(*next); ok {
			info.NextCursor = c
			info.HasNext = true
		}
	}
	if previous != nil {
		if c, ok := ExtractCursor(*previous); ok {
			info.PrevCursor = c
			info.HasPrev = true
		}
	}
	return info
}
