// Package eventbus relays outbox messages to a message broker.
package eventbus

import (
	"context"
	"log/slog"
)

// Publisher sends serialised events to a broker.
type Publisher interface {
	// Publish sends payload under routingKey.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	Close() error
}

// NoopPublisher drops every message. Used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.logger.Debug("noop publish",
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

func (p *NoopPublisher) Close() error { return nil }
