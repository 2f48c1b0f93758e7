package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// JSONLines writes one compact JSON object per line to w. Safe for
// concurrent use, though the pipeline pushes sequentially.
type JSONLines struct {
	mu sync.Mutex
	w  io.Writer
}

func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{w: w}
}

func (s *JSONLines) Push(ctx context.Context, record json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Re-compact so multi-line payloads stay one record per line.
	var buf bytes.Buffer
	if err := json.Compact(&buf, record); err != nil {
		return fmt.Errorf("%w: %v", ErrPushFailed, err)
	}
	buf.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrPushFailed, err)
	}
	return nil
}

var _ Sink = (*JSONLines)(nil)
