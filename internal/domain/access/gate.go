// Package access decides what the current user may see and do. Every rule is
// a role check combined with an optional domain predicate; denial is silent
// and surfaces as a redirect or an absent action.
package access

import (
	"cmp"
	"slices"
	"strings"

	"github.com/xenking/orbit-console/internal/domain/role"
)

// SafeRedirect is where a denied navigation lands.
const SafeRedirect = "/"

// Route paths of the console sections.
const (
	PathDashboard = "/dashboard"
	PathInventory = "/dashboard/inventory"
	PathSales     = "/dashboard/sales"
	PathCustomers = "/dashboard/customers"
	PathAdmin     = "/dashboard/admin"
	PathSettings  = "/dashboard/settings"
)

// Rule restricts a path prefix to a set of roles.
type Rule struct {
	Prefix string
	Roles  []role.Role
}

// Decision is the outcome of a route check.
type Decision struct {
	Allowed  bool
	Redirect string
}

// DefaultRules are the console's route guards.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: PathInventory, Roles: editors},
		{Prefix: PathSales, Roles: editors},
		{Prefix: PathCustomers, Roles: editors},
		{Prefix: PathAdmin, Roles: admins},
	}
}

// Gate checks navigation against route rules. Nested paths inherit the rule
// of their longest matching prefix; unmatched paths are open.
type Gate struct {
	rules []Rule
}

// NewGate creates a Gate from rules.
func NewGate(rules []Rule) *Gate {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b Rule) int {
		return cmp.Compare(len(b.Prefix), len(a.Prefix))
	})
	return &Gate{rules: sorted}
}

// Check decides whether subject may enter path.
func (g *Gate) Check(subject role.Subject, path string) Decision {
	rule, ok := g.match(path)
	if !ok || role.HasRole(subject, rule.Roles...) {
		return Decision{Allowed: true}
	}
	return Decision{Redirect: SafeRedirect}
}

func (g *Gate) match(path string) (Rule, bool) {
	path = strings.TrimSuffix(path, "/")
	for _, r := range g.rules {
		if path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/") {
			return r, true
		}
	}
	return Rule{}, false
}
