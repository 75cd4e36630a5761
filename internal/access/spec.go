package access

import "errors"

// ErrAmbiguousRequirement is returned when both the singular and the plural
// field of the same axis are populated.
var ErrAmbiguousRequirement = errors.New("requirement sets both a single name and a list on the same axis")

// Spec is the wire form of a Query as sent by the dashboard.
type Spec struct {
	Module      string   `json:"module,omitempty" yaml:"module,omitempty" binding:"omitempty,accessname" example:"salesman"`
	Modules     []string `json:"modules,omitempty" yaml:"modules,omitempty" binding:"omitempty,dive,accessname"`
	Permission  string   `json:"permission,omitempty" yaml:"permission,omitempty" binding:"omitempty,accessname" example:"create_salesman"`
	Permissions []string `json:"permissions,omitempty" yaml:"permissions,omitempty" binding:"omitempty,dive,accessname"`
	RequireAll  bool     `json:"requireAll,omitempty" yaml:"requireAll,omitempty"`
}

// Query converts the wire form into a Query.
// RequireAll applies to both list fields; it has no effect on singles.
func (s Spec) Query() (Query, error) {
	mode := Any
	if s.RequireAll {
		mode = All
	}

	module, err := axis(s.Module, s.Modules, mode)
	if err != nil {
		return Query{}, err
	}
	permission, err := axis(s.Permission, s.Permissions, mode)
	if err != nil {
		return Query{}, err
	}

	return Query{Module: module, Permission: permission}, nil
}

func axis(single string, set []string, mode Mode) (Requirement, error) {
	switch {
	case single != "" && set != nil:
		return Requirement{}, ErrAmbiguousRequirement
	case single != "":
		return Single(single), nil
	case set != nil:
		return Set(mode, set...), nil
	default:
		return None(), nil
	}
}

// SpecOf converts a Query back to its wire form.
// A query whose two set axes use different modes has no faithful wire form;
// RequireAll is then taken from the module axis.
func SpecOf(q Query) Spec {
	var s Spec
	switch q.Module.kind {
	case kindSingle:
		s.Module = q.Module.names[0]
	case kindSet:
		s.Modules = q.Module.Names()
		s.RequireAll = q.Module.mode == All
	}
	switch q.Permission.kind {
	case kindSingle:
		s.Permission = q.Permission.names[0]
	case kindSet:
		s.Permissions = q.Permission.Names()
		if q.Module.kind != kindSet {
			s.RequireAll = q.Permission.mode == All
		}
	}
	return s
}
