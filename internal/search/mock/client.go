package mock

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Amon20044/SketchFab-Apify-Actor/internal/search"
)

type Client struct {
	Results    []json.RawMessage
	Pagination search.PaginationInfo
	Error      error
	Delay      time.Duration

	CallCount  int
	LastQuery  search.Query
	AllQueries []search.Query

	mu sync.Mutex
}

func New() *Client {
	return &Client{}
}

func (c *Client) WithResults(results []json.RawMessage) *Client {
	c.Results = results
	return c
}

func (c *Client) WithPagination(info search.PaginationInfo) *Client {
	c.Pagination = info
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Search(ctx context.Context, query search.Query) (*search.Response, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastQuery = query
	c.AllQueries = append(c.AllQueries, query)
	delay := c.Delay
	err := c.Error
	results := c.Results
	pagination := c.Pagination
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}

	return &search.Response{
		Results:    results,
		Pagination: pagination,
	}, nil
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastQuery = nil
	c.AllQueries = nil
}

var _ search.SearchClient = (*Client)(nil)
