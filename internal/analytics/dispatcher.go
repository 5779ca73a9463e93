package analytics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront/internal/facts"
	"github.com/angelmondragon/storefront/internal/storage"
	"github.com/angelmondragon/storefront/pkg/clock"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const defaultQueueSize = 1024

var ErrDispatcherClosed = errors.New("analytics dispatcher closed")

type Options struct {
	Slots   storage.Slots
	Sinks   []Sink
	Clock   clock.Clock
	Logger  *logger.Logger
	Metrics *metrics.Storefront
	Debug   bool
	// QueueSize bounds events waiting for delivery; extra events are dropped.
	QueueSize int
}

// delivery is one queued event, or a flush marker when done is set.
type delivery struct {
	ctx  context.Context
	ev   Event
	done chan struct{}
}

// Dispatcher enriches events on the caller and delivers them to the sinks
// from a single background worker. Sink failures and queue overflow are
// logged and counted, never returned.
type Dispatcher struct {
	slots   storage.Slots
	sinks   Multi
	clock   clock.Clock
	logg    *logger.Logger
	metrics *metrics.Storefront
	debug   bool

	mu      sync.RWMutex
	closed  bool
	queue   chan delivery
	stopped chan struct{}
}

func NewDispatcher(opts Options) (*Dispatcher, error) {
	if opts.Slots == nil {
		return nil, fmt.Errorf("slots required")
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	d := &Dispatcher{
		slots:   opts.Slots,
		sinks:   Multi(opts.Sinks),
		clock:   opts.Clock,
		logg:    opts.Logger,
		metrics: opts.Metrics,
		debug:   opts.Debug,
		queue:   make(chan delivery, opts.QueueSize),
		stopped: make(chan struct{}),
	}
	go d.run()
	return d, nil
}

func (d *Dispatcher) Emit(ctx context.Context, fs ...facts.Fact) {
	for _, f := range fs {
		d.Track(ctx, f.Name, f.Props)
	}
}

func (d *Dispatcher) Track(ctx context.Context, name string, props map[string]any) {
	if name == "" {
		return
	}
	session := SessionFrom(ctx)
	ev := enrich(name, d.userID(ctx, session), session, d.clock.Now(), props)
	d.metrics.IncAnalyticsEvent(name)

	if d.debug {
		d.logg.Info(d.logg.WithFields(ctx, map[string]any{"event": name, "payload": ev.Payload}), "[track]")
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(ctx, name, "closed")
		return
	}
	select {
	case d.queue <- delivery{ctx: context.WithoutCancel(ctx), ev: ev}:
	default:
		d.drop(ctx, name, "queue full")
	}
}

func (d *Dispatcher) drop(ctx context.Context, name, reason string) {
	d.metrics.IncAnalyticsDropped(name)
	d.logg.Warn(d.logg.WithFields(ctx, map[string]any{"event": name, "reason": reason}), "analytics event dropped")
}

// Flush waits until every event queued before the call has been delivered.
func (d *Dispatcher) Flush(ctx context.Context) error {
	done := make(chan struct{})
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- delivery{done: done}:
		d.mu.RUnlock()
	case <-ctx.Done():
		d.mu.RUnlock()
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.stopped)
	for job := range d.queue {
		if job.done != nil {
			close(job.done)
			continue
		}
		d.deliver(job.ctx, job.ev)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	for _, err := range multierr.Errors(d.sinks.Write(ctx, ev)) {
		sink := "unknown"
		var se *SinkError
		if errors.As(err, &se) {
			sink = se.Sink
		}
		d.metrics.IncSinkFailure(sink)
		d.logg.Warn(d.logg.WithFields(ctx, map[string]any{
			"event": ev.Name,
			"sink":  sink,
			"error": err.Error(),
		}), "analytics sink failed")
	}
}

// Startup emits debug_mode_enabled when debug is on.
func (d *Dispatcher) Startup(ctx context.Context) {
	if d.debug {
		d.Track(ctx, facts.DebugModeEnabled, map[string]any{"debug": true})
	}
}

// userID returns the anonymous user id of session, creating it on first use.
// Without a session, or when the slot cannot be written, a fresh id is used.
func (d *Dispatcher) userID(ctx context.Context, session string) string {
	if session == "" {
		return d.newUserID()
	}
	raw, found, err := d.slots.Get(ctx, session, storage.UserIDSlot)
	if err == nil && found && len(raw) > 0 {
		return string(raw)
	}
	id := d.newUserID()
	if err := d.slots.Set(ctx, session, storage.UserIDSlot, []byte(id)); err != nil {
		d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "failed to persist user id")
	}
	return id
}

func (d *Dispatcher) newUserID() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return "user_" + random + "_" + strconv.FormatInt(d.clock.Now().UnixMilli(), 16)
}
