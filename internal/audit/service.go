package audit

import (
	"context"
	"errors"
)

// Repository is the persistence contract for activity log entries.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Entry) error
	ListByComplaint(ctx context.Context, complaintID string) ([]Entry, error)
}

// Service serves the per-complaint activity trail to readers.
//
// Writes do not go through here: entries are appended by the complaint store
// inside the same atomicity unit as the entity mutation, so a trail write can
// never succeed while the transition fails (or the other way around).

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var ErrInvalidEntry = errors.New("audit: invalid entry")

// ListByComplaint returns the complaint's trail, newest first.
func (s *Service) ListByComplaint(ctx context.Context, complaintID string) ([]Entry, error) {
	if s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	if complaintID == "" {
		return nil, ErrInvalidEntry
	}
	return s.repo.ListByComplaint(ctx, complaintID)
}
