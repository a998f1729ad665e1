package complaint

import (
	"context"
	"errors"

	"waste-platform/internal/audit"
)

var ErrNotFound = errors.New("complaint: not found")

// FilterKind is a closed set of list scopes. Each variant maps to one
// statically defined query; no query strings are built per call.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterByReporter
	FilterByWorker
)

type Filter struct {
	Kind FilterKind

	// SubjectID scopes FilterByReporter / FilterByWorker. Ignored for FilterAll.
	SubjectID string
}

// Store is the persistence contract for complaints.
//
// The store performs no business validation; transition rules live in the
// workflow engine and run inside the mutate callback. The store's job is to
// guarantee the atomicity unit: mutation and audit entry commit together,
// serialized per complaint id.

type Store interface {
	// Create persists a new complaint together with its creation log entry.
	Create(ctx context.Context, c Complaint, log audit.Entry) error

	Get(ctx context.Context, id string) (Complaint, error)

	List(ctx context.Context, f Filter) ([]Complaint, error)

	// Update loads the complaint, applies mutate under a per-complaint
	// mutual-exclusion scope, persists the result and appends log(updated)
	// in the same atomicity unit. If mutate returns an error nothing is
	// written and the error is returned unchanged. Last writer wins per
	// complaint; different complaints update independently.
	Update(ctx context.Context, id string, mutate func(*Complaint) error, log func(Complaint) audit.Entry) (Complaint, error)
}
