package sketchfab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Amon20044/SketchFab-Apify-Actor/internal/search"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sketchfab.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type searchResponse struct {
	Results  []json.RawMessage `json:"results"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
}

// Search issues a single GET against /v3/search. Failures are not retried:
// the caller decides what a failed page means.
func (c *Client) Search(ctx context.Context, query search.Query) (*search.Response, error) {
	endpoint := c.baseURL + "/v3/search?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, search.ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, search.ErrRateLimit
	case http.StatusBadRequest:
		return nil, search.ErrInvalidRequest
	default:
		c.logger.Error("sketchfab request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("url", endpoint),
		)
		return nil, fmt.Errorf("%w: status %d", search.ErrSearchFailed, resp.StatusCode)
	}

	var sfResp searchResponse
	if err := json.Unmarshal(respBody, &sfResp); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", search.ErrSearchFailed, err)
	}

	return &search.Response{
		Results:    sfResp.Results,
		Pagination: search.PaginationFromURLs(sfResp.Next, sfResp.Previous),
	}, nil
}

var _ search.SearchClient = (*Client)(nil)
