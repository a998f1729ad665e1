package rbac

import (
	"errors"

	"waste-platform/internal/complaint"
)

var ErrForbidden = errors.New("rbac: forbidden")

// Authorize is the pure access policy: (role, action, entity state/ownership)
// to allow/deny. It is stateless and re-evaluated on every call; policy
// correctness matters more than latency here.
//
// Rules, first match wins, default deny:
//  1. agent may assign and verify on any complaint
//  2. worker may start/complete only on complaints assigned to them
//  3. citizen may submit unconditionally, feedback only on own reports
//  4. reads: agent sees all, worker sees assigned-to-me, citizen sees own
func Authorize(role Role, subjectID string, action Action, c complaint.Complaint) error {
	switch role {
	case RoleAgent:
		switch action {
		case ActionAssign, ActionVerify, ActionList, ActionGet:
			return nil
		}
	case RoleWorker:
		switch action {
		case ActionStart, ActionComplete, ActionList, ActionGet:
			if c.AssignedWorkerID == subjectID || action == ActionList {
				return nil
			}
		}
	case RoleCitizen:
		switch action {
		case ActionSubmit, ActionList:
			return nil
		case ActionFeedback, ActionGet:
			if c.ReporterID == subjectID {
				return nil
			}
		}
	}
	return ErrForbidden
}

// CanView reports read access to a single complaint.
func CanView(role Role, subjectID string, c complaint.Complaint) bool {
	return Authorize(role, subjectID, ActionGet, c) == nil
}

// VisibilityFilter maps a subject to the list scope the policy grants:
// agents see everything, workers their assignments, citizens their reports.
func VisibilityFilter(role Role, subjectID string) complaint.Filter {
	switch role {
	case RoleAgent:
		return complaint.Filter{Kind: complaint.FilterAll}
	case RoleWorker:
		return complaint.Filter{Kind: complaint.FilterByWorker, SubjectID: subjectID}
	default:
		return complaint.Filter{Kind: complaint.FilterByReporter, SubjectID: subjectID}
	}
}
