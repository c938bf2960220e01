// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Auth outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// Auth flow metrics
	IncRegistration(outcome string)
	IncLogin(outcome string)
	IncTokenVerification(outcome string)

	// HTTP surface metrics
	IncRateLimited()
	ObserveRequestDuration(method, path string, status int, duration time.Duration)

	// Audit pipeline metrics
	IncAuditEventPublished(outcome string)
	IncAuditEventProcessed(outcome string)
}
