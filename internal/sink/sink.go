package sink

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrPushFailed = errors.New("record push failed")
	ErrClosed     = errors.New("sink closed")
)

// Sink is an append-only, ordered record stream. Records arrive in the
// order Push is called and must be kept in that order.
type Sink interface {
	Push(ctx context.Context, record json.RawMessage) error
}
