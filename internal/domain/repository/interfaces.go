package repository

import (
	"context"

	"github.com/Ak47-369/bookticket-api-gateway/internal/domain/models"
)

// Metrics records admission-layer observations.
type Metrics interface {
	RecordDecision(filter, outcome string)
	RecordAuthFailure(reason string)
	RecordFailOpen()
	RecordStoreLatency(seconds float64)
}

// DecisionPublisher emits admission decisions to an external stream.
type DecisionPublisher interface {
	AdmissionDecided(ctx context.Context, ev models.AdmissionEvent)
}
