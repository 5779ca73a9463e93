package analytics

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront/pkg/logger"
	"go.uber.org/multierr"
)

// LogSink writes each event as a structured log line.
type LogSink struct {
	logg *logger.Logger
}

func NewLogSink(logg *logger.Logger) *LogSink {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogSink{logg: logg}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Write(ctx context.Context, ev Event) error {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"event":      ev.Name,
		"user_id":    ev.UserID,
		"session_id": ev.SessionID,
		"payload":    ev.Payload,
	})
	s.logg.Info(ctx, "analytics event")
	return nil
}

// DataLayer keeps the most recent events in memory, oldest dropped first.
type DataLayer struct {
	mu     sync.Mutex
	size   int
	events []Event
}

const defaultDataLayerSize = 500

func NewDataLayer(size int) *DataLayer {
	if size <= 0 {
		size = defaultDataLayerSize
	}
	return &DataLayer{size: size}
}

func (d *DataLayer) Name() string { return "datalayer" }

func (d *DataLayer) Write(_ context.Context, ev Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	if over := len(d.events) - d.size; over > 0 {
		d.events = append(d.events[:0:0], d.events[over:]...)
	}
	return nil
}

// Snapshot returns the buffered events, oldest first.
func (d *DataLayer) Snapshot() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// SinkError names the sink a delivery failed on.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string { return e.Sink + ": " + e.Err.Error() }

func (e *SinkError) Unwrap() error { return e.Err }

// Multi writes to every sink and combines their failures, each wrapped in a
// *SinkError.
type Multi []Sink

func (m Multi) Name() string { return "multi" }

func (m Multi) Write(ctx context.Context, ev Event) error {
	var err error
	for _, s := range m {
		if werr := s.Write(ctx, ev); werr != nil {
			err = multierr.Append(err, &SinkError{Sink: s.Name(), Err: werr})
		}
	}
	return err
}
