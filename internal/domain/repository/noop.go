package repository

import (
	"context"

	"github.com/Ak47-369/bookticket-api-gateway/internal/domain/models"
)

// NoopMetrics discards all observations. Used when metrics are disabled
// and as a default in tests.
type NoopMetrics struct{}

func (NoopMetrics) RecordDecision(filter, outcome string) {}
func (NoopMetrics) RecordAuthFailure(reason string)       {}
func (NoopMetrics) RecordFailOpen()                       {}
func (NoopMetrics) RecordStoreLatency(seconds float64)    {}

// NoopPublisher discards admission events.
type NoopPublisher struct{}

func (NoopPublisher) AdmissionDecided(ctx context.Context, ev models.AdmissionEvent) {}
