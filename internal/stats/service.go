package stats

import (
	"context"
	"errors"

	"waste-platform/internal/complaint"
	"waste-platform/internal/rbac"
)

// Service computes role-scoped dashboard snapshots by scanning the complaint
// store on every request. No incremental counters and no caching: counts
// must always equal a full recomputation, and staleness is not acceptable
// for operational dashboards at this scale.

var ErrInvalidRequest = errors.New("stats: invalid request")

type Service struct {
	store complaint.Store
}

func NewService(store complaint.Store) *Service { return &Service{store: store} }

// Dashboard is the union of the three role views; exactly one of the nested
// structs is populated per request.
type Dashboard struct {
	Agent   *AgentStats   `json:"agent,omitempty"`
	Worker  *WorkerStats  `json:"worker,omitempty"`
	Citizen *CitizenStats `json:"citizen,omitempty"`
}

type AgentStats struct {
	TotalComplaints      int `json:"total_complaints"`
	PendingComplaints    int `json:"pending_complaints"`
	InProgressComplaints int `json:"in_progress_complaints"`
	CompletedComplaints  int `json:"completed_complaints"`

	StatusBreakdown map[complaint.Status]int `json:"status_breakdown"`
}

type WorkerStats struct {
	AssignedTasks  int `json:"assigned_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	PendingTasks   int `json:"pending_tasks"`
}

type CitizenStats struct {
	MyComplaints       int `json:"my_complaints"`
	ResolvedComplaints int `json:"resolved_complaints"`
	PendingComplaints  int `json:"pending_complaints"`
}

func (s *Service) Dashboard(ctx context.Context, subjectID string, role rbac.Role) (Dashboard, error) {
	if subjectID == "" {
		return Dashboard{}, ErrInvalidRequest
	}
	if s.store == nil {
		return Dashboard{}, errors.New("stats: store not configured")
	}

	switch role {
	case rbac.RoleAgent:
		out, err := s.agent(ctx)
		return Dashboard{Agent: out}, err
	case rbac.RoleWorker:
		out, err := s.worker(ctx, subjectID)
		return Dashboard{Worker: out}, err
	case rbac.RoleCitizen:
		out, err := s.citizen(ctx, subjectID)
		return Dashboard{Citizen: out}, err
	default:
		return Dashboard{}, ErrInvalidRequest
	}
}

func (s *Service) agent(ctx context.Context) (*AgentStats, error) {
	rows, err := s.store.List(ctx, complaint.Filter{Kind: complaint.FilterAll})
	if err != nil {
		return nil, err
	}

	out := &AgentStats{StatusBreakdown: make(map[complaint.Status]int)}
	for _, c := range rows {
		out.TotalComplaints++
		out.StatusBreakdown[c.Status]++
		switch c.Status {
		case complaint.StatusPending:
			out.PendingComplaints++
		case complaint.StatusInProgress:
			out.InProgressComplaints++
		case complaint.StatusCompleted, complaint.StatusVerified:
			out.CompletedComplaints++
		case complaint.StatusAssigned:
			// counted only in the breakdown
		}
	}
	return out, nil
}

func (s *Service) worker(ctx context.Context, workerID string) (*WorkerStats, error) {
	rows, err := s.store.List(ctx, complaint.Filter{Kind: complaint.FilterByWorker, SubjectID: workerID})
	if err != nil {
		return nil, err
	}

	out := &WorkerStats{}
	for _, c := range rows {
		out.AssignedTasks++
		switch c.Status {
		case complaint.StatusCompleted, complaint.StatusVerified:
			out.CompletedTasks++
		case complaint.StatusAssigned, complaint.StatusInProgress:
			out.PendingTasks++
		case complaint.StatusPending:
			// unreachable while assignment implies status >= assigned
		}
	}
	return out, nil
}

func (s *Service) citizen(ctx context.Context, reporterID string) (*CitizenStats, error) {
	rows, err := s.store.List(ctx, complaint.Filter{Kind: complaint.FilterByReporter, SubjectID: reporterID})
	if err != nil {
		return nil, err
	}

	out := &CitizenStats{}
	for _, c := range rows {
		out.MyComplaints++
		switch c.Status {
		case complaint.StatusVerified:
			out.ResolvedComplaints++
		case complaint.StatusPending, complaint.StatusAssigned, complaint.StatusInProgress:
			out.PendingComplaints++
		case complaint.StatusCompleted:
			// awaiting verification; not open, not resolved
		}
	}
	return out, nil
}
