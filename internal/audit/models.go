package audit

import "time"

// Entry is an immutable, append-only activity log record for a complaint.
//
// Invariants:
// - Entries are never updated or deleted.
// - Exactly one entry is written per successful workflow transition.
// - complaint_id and user_id are required; both are foreign keys.
//
// Storage recommendation (Postgres):
// - Table activity_logs with an INSERT-only policy.
// - Optional: trigger to prevent UPDATE/DELETE.

type Entry struct {
	ID          string `json:"id" db:"id"`
	ComplaintID string `json:"complaint_id" db:"complaint_id"`

	// UserID is the authenticated actor that caused the entry.
	UserID string `json:"user_id" db:"user_id"`

	// Action is the business category of the record. Keep these stable;
	// they are part of the activity log contract.
	Action Action `json:"action" db:"action"`

	// Detail is a short human-readable description for display.
	Detail string `json:"detail,omitempty" db:"detail"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Action string

const (
	ActionCreated   Action = "created"
	ActionAssigned  Action = "assigned"
	ActionStarted   Action = "started"
	ActionCompleted Action = "completed"
	ActionVerified  Action = "verified"
	ActionRejected  Action = "rejected"
	ActionFeedback  Action = "feedback"
)
