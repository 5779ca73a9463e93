package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
)

const defaultPublishTimeout = 15 * time.Second

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

// PubSubSink publishes each event as a JSON message on the analytics topic.
type PubSubSink struct {
	pub     publisher
	timeout time.Duration
}

func NewPubSubSink(p *gcppubsub.Publisher) (*PubSubSink, error) {
	if p == nil {
		return nil, errors.New("pubsub publisher required")
	}
	return &PubSubSink{pub: &gcpPublisher{Publisher: p}, timeout: defaultPublishTimeout}, nil
}

func (s *PubSubSink) Name() string { return "pubsub" }

func (s *PubSubSink) Write(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.Name, err)
	}
	msg := &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event":      ev.Name,
			"session_id": ev.SessionID,
			"user_id":    ev.UserID,
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.pub.Publish(publishCtx, msg).Get(publishCtx); err != nil {
		return fmt.Errorf("publish event %s: %w", ev.Name, err)
	}
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return p.Publisher.Publish(ctx, msg)
}
