package domain

import "fmt"

// TargetKind discriminates what an appointment is booked against.
type TargetKind string

const (
	TargetNone         TargetKind = "none"
	TargetProfessional TargetKind = "professional"
	TargetResource     TargetKind = "resource"
)

// AssignmentTarget is the tagged "owner" of an appointment's time span:
// a professional, a physical resource, or neither (single-operator tenant).
// Conflict checking is always scoped to one target, so the resolver has a
// single codepath instead of nullable-column branching at every call site.
type AssignmentTarget struct {
	Kind TargetKind
	ID   int64
}

// ProfessionalTarget builds a target for a professional.
func ProfessionalTarget(id int64) AssignmentTarget {
	return AssignmentTarget{Kind: TargetProfessional, ID: id}
}

// ResourceTarget builds a target for a physical resource.
func ResourceTarget(id int64) AssignmentTarget {
	return AssignmentTarget{Kind: TargetResource, ID: id}
}

// NoTarget builds the target for tenants that book without an owner.
func NoTarget() AssignmentTarget {
	return AssignmentTarget{Kind: TargetNone}
}

// Matches reports whether the appointment occupies this target.
// An untargeted request only conflicts with other untargeted appointments.
func (t AssignmentTarget) Matches(a *Appointment) bool {
	switch t.Kind {
	case TargetProfessional:
		return a.ProfessionalID != nil && *a.ProfessionalID == t.ID
	case TargetResource:
		return a.ResourceID != nil && *a.ResourceID == t.ID
	default:
		return a.ProfessionalID == nil && a.ResourceID == nil
	}
}

// ProfessionalID returns the professional id for storage, or nil.
func (t AssignmentTarget) ProfessionalID() *int64 {
	if t.Kind == TargetProfessional {
		id := t.ID
		return &id
	}
	return nil
}

// ResourceID returns the resource id for storage, or nil.
func (t AssignmentTarget) ResourceID() *int64 {
	if t.Kind == TargetResource {
		id := t.ID
		return &id
	}
	return nil
}

// String renders the target for logs and lock keys.
func (t AssignmentTarget) String() string {
	if t.Kind == TargetNone {
		return "none"
	}
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}
