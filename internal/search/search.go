package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

var (
	ErrUnauthorized   = errors.New("invalid API credentials")
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrInvalidRequest = errors.New("invalid request parameters")
	ErrSearchFailed   = errors.New("search request failed")
)

// SearchClient issues exactly one request per Search call. Pagination is
// caller-driven through the cursors in the response.
type SearchClient interface {
	Search(ctx context.Context, query Query) (*Response, error)
}

// Param is one wire-ready query parameter. Repeated keys carry array values.
type Param struct {
	Key   string
	Value string
}

// Query is the ordered list of compiled parameters. Order is preserved on
// the wire: url.Values would re-sort keys on encode, which loses the
// guarantee that array values keep their original order relative position
// and that pagination keys come last.
type Query []Param

func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Get returns the first value for key, or "".
func (q Query) Get(key string) string {
	for _, p := range q {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Values returns all values for key in order.
func (q Query) Values(key string) []string {
	var out []string
	for _, p := range q {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}

func (q Query) Has(key string) bool {
	for _, p := range q {
		if p.Key == key {
			return true
		}
	}
	return false
}

// Response is one page of results. Result payloads are owned by the remote
// service and passed through unmodified.
type Response struct {
	Results    []json.RawMessage
	Pagination PaginationInfo
}
