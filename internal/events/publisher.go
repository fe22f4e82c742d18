// Package events publishes admission decisions to Kafka for downstream
// consumers (alerting, analytics). The gateway itself stores nothing;
// publishing is fire-and-forget and must never slow down admission.
package events

import (
	"context"
	"time"

	"github.com/Ak47-369/bookticket-api-gateway/internal/domain/models"
	"github.com/Ak47-369/bookticket-api-gateway/pkg/kafka"
	applogger "github.com/Ak47-369/bookticket-api-gateway/pkg/logger"
)

// Publisher emits admission events. A Publisher with a nil producer is a
// valid no-op, used when events are disabled.
type Publisher struct {
	producer *kafka.Producer
	topic    string
	logger   *applogger.Logger
}

// NewPublisher creates a Kafka-backed decision publisher.
func NewPublisher(producer *kafka.Producer, topic string, l *applogger.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, logger: l}
}

// Disabled returns a publisher that drops every event.
func Disabled() *Publisher {
	return &Publisher{}
}

// AdmissionDecided publishes one decision keyed by identity so events for
// the same key stay ordered per partition. The request context is not
// used: an abandoned connection must not cancel the publish.
func (p *Publisher) AdmissionDecided(_ context.Context, ev models.AdmissionEvent) {
	if p.producer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.producer.Publish(ctx, p.topic, []byte(ev.Key), ev); err != nil {
			if p.logger != nil {
				p.logger.Warn("admission event publish failed",
					applogger.String("key", ev.Key),
					applogger.Error(err),
				)
			}
		}
	}()
}

// Close flushes and closes the underlying producer.
func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
