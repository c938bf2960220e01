package model

import "time"

// AuthEvent is a persisted audit trail entry. EventID carries the Redis
// stream ID so replayed deliveries deduplicate on insert.
type AuthEvent struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	UserID     string    `json:"user_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	IPHash     string    `json:"ip_hash"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
