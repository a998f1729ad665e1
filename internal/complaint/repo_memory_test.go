package complaint

import (
	"context"
	"errors"
	"testing"
	"time"

	"waste-platform/internal/audit"
)

func seedComplaint(t *testing.T, s *MemoryStore, c Complaint) {
	t.Helper()
	err := s.Create(context.Background(), c, audit.Entry{
		ID: "log-" + c.ID, ComplaintID: c.ID, UserID: c.ReporterID,
		Action: audit.ActionCreated, Detail: "Complaint submitted by citizen", CreatedAt: c.CreatedAt,
	})
	if err != nil {
		t.Fatalf("create %s: %v", c.ID, err)
	}
}

func TestCreateWritesComplaintAndLogTogether(t *testing.T) {
	s := NewMemoryStore(nil)
	seedComplaint(t, s, Complaint{ID: "c1", ReporterID: "cit1", Status: StatusPending, CreatedAt: time.Now()})

	if _, err := s.Get(context.Background(), "c1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	entries, err := s.AuditRepo().ListByComplaint(context.Background(), "c1")
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != audit.ActionCreated {
		t.Fatalf("unexpected trail: %+v", entries)
	}
}

func TestGetUnknownID(t *testing.T) {
	s := NewMemoryStore(nil)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	s := NewMemoryStore(nil)
	base := time.Unix(1700000000, 0)
	seedComplaint(t, s, Complaint{ID: "c1", ReporterID: "cit1", Status: StatusPending, CreatedAt: base})
	seedComplaint(t, s, Complaint{ID: "c2", ReporterID: "cit2", Status: StatusAssigned, AssignedWorkerID: "w1", CreatedAt: base.Add(time.Second)})
	seedComplaint(t, s, Complaint{ID: "c3", ReporterID: "cit1", Status: StatusAssigned, AssignedWorkerID: "w1", CreatedAt: base.Add(2 * time.Second)})

	all, err := s.List(context.Background(), Filter{Kind: FilterAll})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	// Newest first.
	if all[0].ID != "c3" || all[2].ID != "c1" {
		t.Fatalf("expected newest-first order, got %v, %v, %v", all[0].ID, all[1].ID, all[2].ID)
	}

	mine, err := s.List(context.Background(), Filter{Kind: FilterByReporter, SubjectID: "cit1"})
	if err != nil {
		t.Fatalf("list by reporter: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 for cit1, got %d", len(mine))
	}

	assigned, err := s.List(context.Background(), Filter{Kind: FilterByWorker, SubjectID: "w1"})
	if err != nil {
		t.Fatalf("list by worker: %v", err)
	}
	if len(assigned) != 2 {
		t.Fatalf("expected 2 for w1, got %d", len(assigned))
	}

	none, err := s.List(context.Background(), Filter{Kind: FilterByWorker, SubjectID: "w9"})
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty slice, got %d", len(none))
	}
}

func TestUpdateAppliesMutationAndLogsOnce(t *testing.T) {
	s := NewMemoryStore(nil)
	seedComplaint(t, s, Complaint{ID: "c1", ReporterID: "cit1", Status: StatusPending, CreatedAt: time.Now()})

	got, err := s.Update(context.Background(), "c1", func(c *Complaint) error {
		c.Status = StatusAssigned
		c.AssignedWorkerID = "w1"
		return nil
	}, func(c Complaint) audit.Entry {
		return audit.Entry{ID: "log-2", ComplaintID: c.ID, UserID: "ag1", Action: audit.ActionAssigned, Detail: "Complaint assigned to worker ID: w1", CreatedAt: time.Now()}
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != StatusAssigned || got.AssignedWorkerID != "w1" {
		t.Fatalf("unexpected result: %+v", got)
	}

	entries, _ := s.AuditRepo().ListByComplaint(context.Background(), "c1")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestUpdateFailedMutationLeavesStateUntouched(t *testing.T) {
	s := NewMemoryStore(nil)
	seedComplaint(t, s, Complaint{ID: "c1", ReporterID: "cit1", Status: StatusPending, CreatedAt: time.Now()})

	boom := errors.New("precondition failed")
	_, err := s.Update(context.Background(), "c1", func(c *Complaint) error {
		c.Status = StatusVerified // must not leak out
		return boom
	}, func(c Complaint) audit.Entry {
		t.Fatal("log callback must not run on mutation failure")
		return audit.Entry{}
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected mutation error, got %v", err)
	}

	got, err := s.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("failed update must not persist, got %q", got.Status)
	}
	entries, _ := s.AuditRepo().ListByComplaint(context.Background(), "c1")
	if len(entries) != 1 {
		t.Fatalf("failed update must not log, got %d entries", len(entries))
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s := NewMemoryStore(nil)
	_, err := s.Update(context.Background(), "nope", func(c *Complaint) error { return nil }, func(c Complaint) audit.Entry { return audit.Entry{} })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
