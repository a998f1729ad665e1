package complaint

import "time"

// Complaint is the central entity: a reported waste-management issue tracked
// through its resolution lifecycle.
//
// Invariants:
// - Status only moves forward along the workflow graph, with the single
//   rejection loop completed -> assigned.
// - AssignedWorkerID is set iff status is assigned/in_progress/completed/verified.
// - CompletedAt is set iff the complaint has reached completed at least once.
// - Rating is 1..5 when present.
//
// Reporter identity, title, description, coordinates, address and creation
// time are immutable after Create. All mutation goes through the workflow
// engine; rows are never hard-deleted.

type Complaint struct {
	ID         string `json:"id" db:"id"`
	ReporterID string `json:"reporter_id" db:"reporter_id"`

	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`
	Lat         float64 `json:"lat" db:"location_lat"`
	Lng         float64 `json:"lng" db:"location_lng"`
	Address     string  `json:"address" db:"address"`

	Status   Status   `json:"status" db:"status"`
	Priority Priority `json:"priority" db:"priority"`

	AssignedWorkerID string     `json:"assigned_worker_id,omitempty" db:"assigned_worker_id"`
	AssignedAt       *time.Time `json:"assigned_at,omitempty" db:"assigned_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty" db:"verified_at"`

	// Evidence references are opaque blob store handles, never filesystem paths.
	OriginalEvidenceRef string `json:"original_evidence_ref,omitempty" db:"original_evidence_ref"`
	BeforeEvidenceRef   string `json:"before_evidence_ref,omitempty" db:"before_evidence_ref"`
	AfterEvidenceRef    string `json:"after_evidence_ref,omitempty" db:"after_evidence_ref"`

	CitizenFeedback string `json:"citizen_feedback,omitempty" db:"citizen_feedback"`
	// CitizenRating is nil until feedback is attached.
	CitizenRating *int `json:"citizen_rating,omitempty" db:"citizen_rating"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusVerified   Status = "verified"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}
