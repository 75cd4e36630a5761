package access

// Membership is one workspace grant in a user's snapshot.
type Membership struct {
	WorkspaceID string   `json:"workspaceId" yaml:"workspaceId"`
	Role        string   `json:"role" yaml:"role"`
	Modules     []string `json:"modules" yaml:"modules"`
	Permissions []string `json:"permissions" yaml:"permissions"`
}

// Decision is the outcome of an evaluation.
// The failure flags only explain a denial; they never affect Granted.
type Decision struct {
	Granted               bool `json:"granted"`
	ModuleCheckFailed     bool `json:"moduleCheckFailed"`
	PermissionCheckFailed bool `json:"permissionCheckFailed"`
}

// Denial messages shown by guards.
const (
	MessageModuleDenied     = "this module is not enabled for the selected company"
	MessagePermissionDenied = "you do not have permission to perform this action"
	MessageBothDenied       = "this module is not enabled and you do not have permission to perform this action"
)

// Message returns the user-facing denial message, or "" when granted.
func (d Decision) Message() string {
	switch {
	case d.Granted:
		return ""
	case d.ModuleCheckFailed && d.PermissionCheckFailed:
		return MessageBothDenied
	case d.ModuleCheckFailed:
		return MessageModuleDenied
	default:
		return MessagePermissionDenied
	}
}

// Find returns the membership for the selected workspace.
// An empty selected id never matches.
func Find(memberships []Membership, selectedWorkspaceID string) (Membership, bool) {
	if selectedWorkspaceID == "" {
		return Membership{}, false
	}
	for _, m := range memberships {
		if m.WorkspaceID == selectedWorkspaceID {
			return m, true
		}
	}
	return Membership{}, false
}

// Evaluate checks q against the selected workspace's grants.
//
// When no membership matches the selected workspace both grant sets are
// empty, so any non-empty requirement fails while an open query still passes.
func Evaluate(memberships []Membership, selectedWorkspaceID string, q Query) Decision {
	m, _ := Find(memberships, selectedWorkspaceID)
	return EvaluateMembership(m, q)
}

// EvaluateMembership checks q against a single membership.
func EvaluateMembership(m Membership, q Query) Decision {
	moduleOK := q.Module.SatisfiedBy(m.Modules)
	permissionOK := q.Permission.SatisfiedBy(m.Permissions)

	return Decision{
		Granted:               moduleOK && permissionOK,
		ModuleCheckFailed:     !moduleOK,
		PermissionCheckFailed: !permissionOK,
	}
}
