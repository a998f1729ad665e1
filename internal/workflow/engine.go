package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"waste-platform/internal/audit"
	"waste-platform/internal/complaint"
	"waste-platform/internal/metrics"
	"waste-platform/internal/rbac"

	"github.com/google/uuid"
)

// Engine validates and applies complaint state transitions.
//
// States: pending -> assigned -> in_progress -> completed -> verified,
// with a single backward edge completed -> assigned on rejection. verified
// is terminal except for citizen feedback attachment, which does not change
// status.
//
// Every successful transition writes exactly one activity log entry in the
// same atomicity unit as the entity mutation; the store guarantees both
// commit or neither does. On any error the complaint and its trail are left
// exactly as before the call.
//
// Error taxonomy surfaced to callers:
// - complaint.ErrNotFound: unknown complaint id
// - rbac.ErrForbidden: role or ownership precondition failed
// - ErrInvalidTransition: status precondition failed
// - ErrValidation: malformed input (missing evidence, rating out of range)

var (
	ErrInvalidTransition = errors.New("workflow: invalid transition")
	ErrValidation        = errors.New("workflow: validation failed")
)

// WorkerDirectory resolves assignable workers. Assigning to an id that is
// not a worker would break foreign-key integrity, so the engine checks
// before touching the complaint.
type WorkerDirectory interface {
	IsWorker(ctx context.Context, userID string) (bool, error)
}

// Subject is the authenticated actor performing a transition.
type Subject struct {
	ID   string
	Role rbac.Role
}

type Engine struct {
	store   complaint.Store
	workers WorkerDirectory
	clock   func() time.Time
}

func New(store complaint.Store, workers WorkerDirectory) *Engine {
	return &Engine{store: store, workers: workers, clock: time.Now}
}

type SubmitInput struct {
	Title       string
	Description string
	Lat         float64
	Lng         float64
	Address     string
	Priority    complaint.Priority

	// OriginalEvidenceRef is an optional blob store reference for the photo
	// attached at submission. The blob must already be stored; a blob fault
	// prevents the transition from ever starting.
	OriginalEvidenceRef string
}

// Submit creates a new complaint in status pending. Citizens only.
func (e *Engine) Submit(ctx context.Context, actor Subject, in SubmitInput) (complaint.Complaint, error) {
	if err := rbac.Authorize(actor.Role, actor.ID, rbac.ActionSubmit, complaint.Complaint{}); err != nil {
		return complaint.Complaint{}, err
	}
	if in.Title == "" || in.Description == "" || in.Address == "" {
		return complaint.Complaint{}, fmt.Errorf("%w: title, description and address are required", ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = complaint.PriorityMedium
	}
	if !complaint.ValidPriority(in.Priority) {
		return complaint.Complaint{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}

	now := e.clock().UTC()
	c := complaint.Complaint{
		ID:                  uuid.NewString(),
		ReporterID:          actor.ID,
		Title:               in.Title,
		Description:         in.Description,
		Lat:                 in.Lat,
		Lng:                 in.Lng,
		Address:             in.Address,
		Status:              complaint.StatusPending,
		Priority:            in.Priority,
		OriginalEvidenceRef: in.OriginalEvidenceRef,
		CreatedAt:           now,
	}

	log := audit.Entry{
		ID:          uuid.NewString(),
		ComplaintID: c.ID,
		UserID:      actor.ID,
		Action:      audit.ActionCreated,
		Detail:      "Complaint submitted by citizen",
		CreatedAt:   now,
	}
	if err := e.store.Create(ctx, c, log); err != nil {
		metrics.ObserveTransition(string(rbac.ActionSubmit), false)
		return complaint.Complaint{}, err
	}
	metrics.ObserveTransition(string(rbac.ActionSubmit), true)
	return c, nil
}

// Assign hands a pending complaint to a worker. Agents only. Re-assignment
// is allowed only while the complaint sits in pending or back in assigned
// after a rejection; once work has started the assignment is fixed.
func (e *Engine) Assign(ctx context.Context, actor Subject, complaintID, workerID string) (complaint.Complaint, error) {
	if workerID == "" {
		return complaint.Complaint{}, fmt.Errorf("%w: worker_id is required", ErrValidation)
	}
	ok, err := e.workers.IsWorker(ctx, workerID)
	if err != nil {
		return complaint.Complaint{}, err
	}
	if !ok {
		return complaint.Complaint{}, fmt.Errorf("%w: %q is not a worker", ErrValidation, workerID)
	}

	now := e.clock().UTC()
	return e.transition(ctx, actor, complaintID, rbac.ActionAssign, []complaint.Status{complaint.StatusPending, complaint.StatusAssigned}, func(c *complaint.Complaint) error {
		c.Status = complaint.StatusAssigned
		c.AssignedWorkerID = workerID
		t := now
		c.AssignedAt = &t
		return nil
	}, func(c complaint.Complaint) audit.Entry {
		return e.entry(c.ID, actor.ID, audit.ActionAssigned, fmt.Sprintf("Complaint assigned to worker ID: %s", workerID), now)
	})
}

// Start moves an assigned complaint to in_progress. Only the assigned worker.
func (e *Engine) Start(ctx context.Context, actor Subject, complaintID string) (complaint.Complaint, error) {
	now := e.clock().UTC()
	return e.transition(ctx, actor, complaintID, rbac.ActionStart, []complaint.Status{complaint.StatusAssigned}, func(c *complaint.Complaint) error {
		c.Status = complaint.StatusInProgress
		return nil
	}, func(c complaint.Complaint) audit.Entry {
		return e.entry(c.ID, actor.ID, audit.ActionStarted, "Work started on complaint", now)
	})
}

// Complete marks the work done. Only the assigned worker, and both evidence
// references must be supplied.
func (e *Engine) Complete(ctx context.Context, actor Subject, complaintID, beforeRef, afterRef string) (complaint.Complaint, error) {
	if beforeRef == "" || afterRef == "" {
		return complaint.Complaint{}, fmt.Errorf("%w: before and after evidence are both required", ErrValidation)
	}

	now := e.clock().UTC()
	return e.transition(ctx, actor, complaintID, rbac.ActionComplete, []complaint.Status{complaint.StatusInProgress}, func(c *complaint.Complaint) error {
		c.Status = complaint.StatusCompleted
		t := now
		c.CompletedAt = &t
		c.BeforeEvidenceRef = beforeRef
		c.AfterEvidenceRef = afterRef
		return nil
	}, func(c complaint.Complaint) audit.Entry {
		return e.entry(c.ID, actor.ID, audit.ActionCompleted, "Work completed with before/after photos", now)
	})
}

// Verify closes or rejects a completed complaint. Agents only. Approval sets
// verified_at; rejection returns the complaint to assigned on the same
// worker and sets nothing else.
func (e *Engine) Verify(ctx context.Context, actor Subject, complaintID string, approved bool, note string) (complaint.Complaint, error) {
	now := e.clock().UTC()

	action := audit.ActionVerified
	if !approved {
		action = audit.ActionRejected
	}
	detail := note
	if detail == "" {
		detail = fmt.Sprintf("Complaint %s by agent", action)
	}

	return e.transition(ctx, actor, complaintID, rbac.ActionVerify, []complaint.Status{complaint.StatusCompleted}, func(c *complaint.Complaint) error {
		if approved {
			c.Status = complaint.StatusVerified
			t := now
			c.VerifiedAt = &t
		} else {
			// Rejection loop: back to the same worker, no verified_at.
			c.Status = complaint.StatusAssigned
		}
		return nil
	}, func(c complaint.Complaint) audit.Entry {
		return e.entry(c.ID, actor.ID, action, detail, now)
	})
}

// Feedback attaches citizen feedback to a verified complaint. Reporter only;
// status is not changed.
func (e *Engine) Feedback(ctx context.Context, actor Subject, complaintID, feedback string, rating int) (complaint.Complaint, error) {
	if rating < 1 || rating > 5 {
		return complaint.Complaint{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	now := e.clock().UTC()
	return e.transition(ctx, actor, complaintID, rbac.ActionFeedback, []complaint.Status{complaint.StatusVerified}, func(c *complaint.Complaint) error {
		c.CitizenFeedback = feedback
		r := rating
		c.CitizenRating = &r
		return nil
	}, func(c complaint.Complaint) audit.Entry {
		return e.entry(c.ID, actor.ID, audit.ActionFeedback, fmt.Sprintf("Citizen provided feedback and rating: %d/5", rating), now)
	})
}

// transition runs the shared skeleton: load, check the status precondition,
// authorize against the current entity, mutate, persist with the audit entry.
// The store holds the per-complaint lock for the duration, so both checks see
// the same state that gets written.
//
// Status is checked before authorization: a transition that is impossible in
// the current state reports ErrInvalidTransition no matter who asks. Ownership
// denials (rbac.ErrForbidden) only arise in states where the transition would
// otherwise be legal.
func (e *Engine) transition(ctx context.Context, actor Subject, complaintID string, action rbac.Action, from []complaint.Status, mutate func(*complaint.Complaint) error, log func(complaint.Complaint) audit.Entry) (complaint.Complaint, error) {
	out, err := e.store.Update(ctx, complaintID, func(c *complaint.Complaint) error {
		if !statusIn(c.Status, from) {
			return fmt.Errorf("%w: cannot %s a complaint in status %q", ErrInvalidTransition, action, c.Status)
		}
		if err := rbac.Authorize(actor.Role, actor.ID, action, *c); err != nil {
			return err
		}
		return mutate(c)
	}, log)
	metrics.ObserveTransition(string(action), err == nil)
	if err != nil {
		return complaint.Complaint{}, err
	}
	return out, nil
}

func statusIn(s complaint.Status, allowed []complaint.Status) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

func (e *Engine) entry(complaintID, userID string, action audit.Action, detail string, now time.Time) audit.Entry {
	return audit.Entry{
		ID:          uuid.NewString(),
		ComplaintID: complaintID,
		UserID:      userID,
		Action:      action,
		Detail:      detail,
		CreatedAt:   now,
	}
}
