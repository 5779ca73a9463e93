package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	cbigquery "cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 250 * time.Millisecond
	defaultMaximumBackoff = 2 * time.Second
)

type tableInserter interface {
	InsertRows(ctx context.Context, table string, rows []any) error
}

// EventRow is the BigQuery shape of an event.
type EventRow struct {
	EventName  string             `bigquery:"event_name"`
	UserID     string             `bigquery:"user_id"`
	SessionID  string             `bigquery:"session_id"`
	OccurredAt time.Time          `bigquery:"occurred_at"`
	Payload    cbigquery.NullJSON `bigquery:"payload"`
}

// BigQuerySink streams events into the events table, retrying transient
// failures with exponential backoff.
type BigQuerySink struct {
	client         tableInserter
	table          string
	maxAttempts    int
	initialBackoff time.Duration
	maximumBackoff time.Duration
}

func NewBigQuerySink(client tableInserter, table string) (*BigQuerySink, error) {
	if client == nil {
		return nil, errors.New("bigquery client required")
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, errors.New("events table is required")
	}
	return &BigQuerySink{
		client:         client,
		table:          table,
		maxAttempts:    defaultMaxAttempts,
		initialBackoff: defaultInitialBackoff,
		maximumBackoff: defaultMaximumBackoff,
	}, nil
}

func (s *BigQuerySink) Name() string { return "bigquery" }

func (s *BigQuerySink) Write(ctx context.Context, ev Event) error {
	row, err := newEventRow(ev)
	if err != nil {
		return err
	}
	return s.insertWithRetry(ctx, []any{&row})
}

func newEventRow(ev Event) (EventRow, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return EventRow{}, fmt.Errorf("marshal event %s: %w", ev.Name, err)
	}
	return EventRow{
		EventName:  ev.Name,
		UserID:     ev.UserID,
		SessionID:  ev.SessionID,
		OccurredAt: ev.Timestamp,
		Payload:    cbigquery.NullJSON{Valid: true, JSONVal: string(payload)},
	}, nil
}

func (s *BigQuerySink) insertWithRetry(ctx context.Context, rows []any) error {
	attempts := 0
	backoff := s.initialBackoff

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.client.InsertRows(ctx, s.table, rows)
		if err == nil {
			return nil
		}

		attempts++
		if attempts >= s.maxAttempts || !isRetryable(err) {
			return fmt.Errorf("insert %s rows: %w", s.table, err)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff = min(backoff*2, s.maximumBackoff)
	}
}

func isRetryable(err error) bool {
	var pme cbigquery.PutMultiError
	if errors.As(err, &pme) {
		if len(pme) == 0 {
			return false
		}
		for _, rowErr := range pme {
			for _, inner := range rowErr.Errors {
				if !isRetryable(inner) {
					return false
				}
			}
		}
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests, http.StatusRequestTimeout, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Aborted, codes.DeadlineExceeded, codes.Internal, codes.ResourceExhausted, codes.Unavailable:
			return true
		}
	}
	return false
}
