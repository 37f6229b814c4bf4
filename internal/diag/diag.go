package diag

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event types emitted by the session core. The set is small and stable;
// hosts may switch on Type without worrying about churn.
const (
	// TypeStorageReadFailed: the durable store errored while hydrating.
	TypeStorageReadFailed = "storage_read_failed"
	// TypeStorageWriteFailed: a best-effort mirror write did not stick.
	TypeStorageWriteFailed = "storage_write_failed"
	// TypeStorageCorrupt: the durable payload did not decode; the key was purged.
	TypeStorageCorrupt = "storage_corrupt"
	// TypeRefreshFailed: the refresh endpoint rejected a recovery attempt.
	TypeRefreshFailed = "refresh_failed"
	// TypeReplayIssued: a request was replayed after a successful refresh.
	TypeReplayIssued = "replay_issued"
	// TypeReplayNotPossible: a 401 response could not be replayed (no rewindable body).
	TypeReplayNotPossible = "replay_not_possible"
	// TypeGuardDenied: a navigation guard denied and redirected.
	TypeGuardDenied = "guard_denied"
	// TypeSubscriberDropped: a slow subscriber missed a session emission.
	TypeSubscriberDropped = "subscriber_dropped"
)

// Event is the canonical diagnostic record delivered to sinks.
type Event struct {
	EventID   string            `json:"event_id"`
	Timestamp time.Time         `json:"timestamp"`
	Type      string            `json:"type"`
	Key       string            `json:"key,omitempty"`
	Path      string            `json:"path,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Status    int               `json:"status,omitempty"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Sink receives emitted diagnostic events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops diagnostic events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink writes diagnostic events into a buffered channel.
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
