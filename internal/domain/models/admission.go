package models

import "time"

// Admission outcomes as recorded in metrics and decision events.
const (
	OutcomeAllowed      = "allowed"
	OutcomeRateLimited  = "rate_limited"
	OutcomeUnauthorized = "unauthorized"
)

// AdmissionEvent describes one admission decision for a single request.
// Ephemeral: published to the decision topic when events are enabled,
// never stored by the gateway itself.
type AdmissionEvent struct {
	Key       string    `json:"key"`
	Outcome   string    `json:"outcome"`
	Status    int       `json:"status"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Remaining float64   `json:"remaining_tokens"`
	At        time.Time `json:"at"`
}
