// Package access evaluates module and permission requirements against a
// user's workspace membership snapshot.
//
// Evaluation is a pure function: the caller supplies the snapshot and the
// selected workspace on every call, and the evaluator never keeps state.
// Missing or malformed data always resolves to "not granted".
package access

import "strings"

// Mode selects how a set of candidate names is satisfied.
type Mode int

const (
	// Any is satisfied when at least one candidate is granted.
	Any Mode = iota
	// All is satisfied when every candidate is granted.
	All
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	if m == All {
		return "all"
	}
	return "any"
}

type kind int

const (
	kindNone kind = iota
	kindSingle
	kindSet
)

// Requirement constrains one axis (modules or permissions).
// The zero value is None, which is always satisfied.
type Requirement struct {
	kind  kind
	names []string
	mode  Mode
}

// None returns a requirement that is always satisfied.
func None() Requirement {
	return Requirement{}
}

// Single requires exactly the named grant.
func Single(name string) Requirement {
	return Requirement{kind: kindSingle, names: []string{name}}
}

// Set requires the candidate names under the given mode.
func Set(mode Mode, names ...string) Requirement {
	cp := make([]string, len(names))
	copy(cp, names)
	return Requirement{kind: kindSet, names: cp, mode: mode}
}

// AnyOf is shorthand for Set(Any, names...).
func AnyOf(names ...string) Requirement {
	return Set(Any, names...)
}

// AllOf is shorthand for Set(All, names...).
func AllOf(names ...string) Requirement {
	return Set(All, names...)
}

// IsNone reports whether the requirement places no constraint.
func (r Requirement) IsNone() bool {
	return r.kind == kindNone
}

// Names returns a copy of the required names.
func (r Requirement) Names() []string {
	cp := make([]string, len(r.names))
	copy(cp, r.names)
	return cp
}

// Mode returns the set mode. Singles report Any.
func (r Requirement) Mode() Mode {
	return r.mode
}

// SatisfiedBy reports whether the granted names satisfy r.
// Matching is exact and case-sensitive.
func (r Requirement) SatisfiedBy(granted []string) bool {
	switch r.kind {
	case kindNone:
		return true
	case kindSingle:
		return contains(granted, r.names[0])
	case kindSet:
		if r.mode == All {
			for _, name := range r.names {
				if !contains(granted, name) {
					return false
				}
			}
			return true
		}
		for _, name := range r.names {
			if contains(granted, name) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// String renders the requirement for logs and audit records.
func (r Requirement) String() string {
	switch r.kind {
	case kindSingle:
		return r.names[0]
	case kindSet:
		return r.mode.String() + "(" + strings.Join(r.names, ",") + ")"
	default:
		return "-"
	}
}

func contains(granted []string, name string) bool {
	for _, g := range granted {
		if g == name {
			return true
		}
	}
	return false
}

// Query combines a module requirement and a permission requirement.
// Both must hold for access to be granted.
type Query struct {
	Module     Requirement
	Permission Requirement
}

// RequireModule builds a query needing a single module.
func RequireModule(name string) Query {
	return Query{Module: Single(name)}
}

// RequirePermission builds a query needing a single permission.
func RequirePermission(name string) Query {
	return Query{Permission: Single(name)}
}

// RequireModulePermission builds a query needing one module and one permission.
func RequireModulePermission(module, permission string) Query {
	return Query{Module: Single(module), Permission: Single(permission)}
}

// IsOpen reports whether the query has no requirement on either axis.
func (q Query) IsOpen() bool {
	return q.Module.IsNone() && q.Permission.IsNone()
}

// String renders the query as "module=... permission=...".
func (q Query) String() string {
	return "module=" + q.Module.String() + " permission=" + q.Permission.String()
}
