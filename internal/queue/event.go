// Package queue defines message payloads exchanged over the message broker.
package queue

// RegistrationConfirmedEvent is published when a registration is accepted by
// the backend.  It carries enough for downstream consumers to log, notify,
// or trigger analytics without calling the backend again.
type RegistrationConfirmedEvent struct {
	RegistrationID uint64 `json:"registration_id"`
	EventID        uint64 `json:"event_id"`
	Email          string `json:"email"`
	PackageID      string `json:"package_id"`
	Attendees      int    `json:"attendees"`
	TotalCents     int64  `json:"total_cents"`
	ConfirmedAt    string `json:"confirmed_at"`
}
