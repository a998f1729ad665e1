package rbac

// Role is the closed set of actor roles. Keep the string values stable;
// they are part of auth contracts and the users table CHECK constraint.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAgent   Role = "agent"
	RoleWorker  Role = "worker"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCitizen, RoleAgent, RoleWorker:
		return Role(s), true
	default:
		return "", false
	}
}

// Action is the closed set of policy-checked operations.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionAssign   Action = "assign"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionVerify   Action = "verify"
	ActionFeedback Action = "feedback"
	ActionList     Action = "list"
	ActionGet      Action = "get"
)
