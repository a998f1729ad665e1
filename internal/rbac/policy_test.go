package rbac

import (
	"errors"
	"testing"

	"waste-platform/internal/complaint"
)

func TestAuthorize(t *testing.T) {
	owned := complaint.Complaint{ID: "c1", ReporterID: "cit1", AssignedWorkerID: "w1"}

	tests := []struct {
		name    string
		role    Role
		subject string
		action  Action
		c       complaint.Complaint
		allowed bool
	}{
		{"agent assigns any", RoleAgent, "ag1", ActionAssign, owned, true},
		{"agent verifies any", RoleAgent, "ag1", ActionVerify, owned, true},
		{"agent reads any", RoleAgent, "ag1", ActionGet, owned, true},
		{"agent cannot submit", RoleAgent, "ag1", ActionSubmit, complaint.Complaint{}, false},
		{"agent cannot start", RoleAgent, "ag1", ActionStart, owned, false},

		{"assigned worker starts", RoleWorker, "w1", ActionStart, owned, true},
		{"assigned worker completes", RoleWorker, "w1", ActionComplete, owned, true},
		{"assigned worker reads", RoleWorker, "w1", ActionGet, owned, true},
		{"other worker cannot start", RoleWorker, "w2", ActionStart, owned, false},
		{"other worker cannot read", RoleWorker, "w2", ActionGet, owned, false},
		{"worker cannot assign", RoleWorker, "w1", ActionAssign, owned, false},
		{"worker cannot verify", RoleWorker, "w1", ActionVerify, owned, false},
		{"worker may list", RoleWorker, "w2", ActionList, complaint.Complaint{}, true},

		{"citizen submits", RoleCitizen, "cit1", ActionSubmit, complaint.Complaint{}, true},
		{"reporter gives feedback", RoleCitizen, "cit1", ActionFeedback, owned, true},
		{"reporter reads own", RoleCitizen, "cit1", ActionGet, owned, true},
		{"other citizen cannot read", RoleCitizen, "cit2", ActionGet, owned, false},
		{"other citizen no feedback", RoleCitizen, "cit2", ActionFeedback, owned, false},
		{"citizen cannot assign", RoleCitizen, "cit1", ActionAssign, owned, false},
		{"citizen cannot verify", RoleCitizen, "cit1", ActionVerify, owned, false},

		{"unknown role denied", Role("admin"), "x", ActionGet, owned, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.role, tc.subject, tc.action, tc.c)
			if tc.allowed && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tc.allowed && !errors.Is(err, ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestVisibilityFilter(t *testing.T) {
	if f := VisibilityFilter(RoleAgent, "ag1"); f.Kind != complaint.FilterAll {
		t.Fatalf("agent should see all, got %v", f)
	}
	if f := VisibilityFilter(RoleWorker, "w1"); f.Kind != complaint.FilterByWorker || f.SubjectID != "w1" {
		t.Fatalf("worker should see own assignments, got %v", f)
	}
	if f := VisibilityFilter(RoleCitizen, "cit1"); f.Kind != complaint.FilterByReporter || f.SubjectID != "cit1" {
		t.Fatalf("citizen should see own reports, got %v", f)
	}
}

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"citizen", "agent", "worker"} {
		if _, ok := ParseRole(raw); !ok {
			t.Fatalf("expected %q to parse", raw)
		}
	}
	if _, ok := ParseRole("admin"); ok {
		t.Fatal("expected unknown role to fail")
	}
}
