// Package role resolves tenant user roles and answers role-membership
// queries. It knows nothing about products, sales or routes.
package role

import (
	"slices"

	"github.com/go-faster/errors"
)

// Role is a fixed capability class. The numeric value is the identifier
// persisted by the server and must never change for an existing role.
type Role int

const (
	// Admin can do everything, including destructive actions.
	Admin Role = 1
	// Seller can create sales and edit inventory.
	Seller Role = 2
	// Viewer has read-only access.
	Viewer Role = 3
)

// ErrUnknownRole is returned when a role name or identifier is not recognized.
var ErrUnknownRole = errors.New("unknown role")

// table is the single {id <-> name} mapping. Both lookup directions are
// derived from it, so a new role is added here and nowhere else.
var table = []struct {
	role Role
	name string
}{
	{Admin, "admin"},
	{Seller, "seller"},
	{Viewer, "viewer"},
}

var (
	byID   = make(map[Role]string, len(table))
	byName = make(map[string]Role, len(table))
)

func init() {
	for _, e := range table {
		byID[e.role] = e.name
		byName[e.name] = e.role
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	if name, ok := byID[r]; ok {
		return name
	}
	return "unknown"
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	_, ok := byID[r]
	return ok
}

// FromID maps a persisted role identifier to a Role.
func FromID(id int) (Role, bool) {
	r := Role(id)
	return r, r.IsValid()
}

// Parse converts a symbolic role name into a Role.
func Parse(name string) (Role, error) {
	if r, ok := byName[name]; ok {
		return r, nil
	}
	return 0, errors.Wrapf(ErrUnknownRole, "parse %q", name)
}

// All returns every known role in identifier order.
func All() []Role {
	out := make([]Role, len(table))
	for i, e := range table {
		out[i] = e.role
	}
	return out
}

// Subject is anything carrying an assigned role identifier, typically the
// current user. Implementations must tolerate a nil receiver and report 0.
type Subject interface {
	AssignedRole() int
}

// HasRole reports whether subject holds one of the allowed roles. An absent
// subject is always denied. There is no hierarchy: Admin does not satisfy
// HasRole(s, Seller) unless Admin is listed too.
func HasRole(subject Subject, allowed ...Role) bool {
	if subject == nil {
		return false
	}
	r, ok := FromID(subject.AssignedRole())
	if !ok {
		return false
	}
	return slices.Contains(allowed, r)
}

// NameOf returns the symbolic role name of subject for display. It reports
// false for an absent subject or an unrecognized identifier.
func NameOf(subject Subject) (string, bool) {
	if subject == nil {
		return "", false
	}
	name, ok := byID[Role(subject.AssignedRole())]
	return name, ok
}
