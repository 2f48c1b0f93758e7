package mock

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Amon20044/SketchFab-Apify-Actor/internal/sink"
)

type Sink struct {
	Error error

	mu      sync.Mutex
	records []json.RawMessage
}

func New() *Sink {
	return &Sink{}
}

func (s *Sink) WithError(err error) *Sink {
	s.Error = err
	return s
}

func (s *Sink) Push(ctx context.Context, record json.RawMessage) error {
	if s.Error != nil {
		return s.Error
	}

	// Copy: callers may reuse backing arrays between pushes.
	buf := make(json.RawMessage, len(record))
	copy(buf, record)

	s.mu.Lock()
	s.records = append(s.records, buf)
	s.mu.Unlock()
	return nil
}

func (s *Sink) Records() []json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]json.RawMessage, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Sink) Reset() {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
}

var _ sink.Sink = (*Sink)(nil)
