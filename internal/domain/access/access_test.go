package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xenking/orbit-console/internal/domain/role"
	"github.com/xenking/orbit-console/internal/domain/sale"
)

type user int

func (u user) AssignedRole() int { return int(u) }

var (
	admin  = user(role.Admin)
	seller = user(role.Seller)
	viewer = user(role.Viewer)
)

func TestGate_Check(t *testing.T) {
	g := NewGate(DefaultRules())

	tests := []struct {
		name    string
		subject role.Subject
		path    string
		allowed bool
	}{
		{name: "viewer denied sales", subject: viewer, path: PathSales, allowed: false},
		{name: "viewer denied nested sales", subject: viewer, path: "/dashboard/sales/123", allowed: false},
		{name: "seller allowed inventory", subject: seller, path: PathInventory, allowed: true},
		{name: "seller trailing slash", subject: seller, path: "/dashboard/customers/", allowed: true},
		{name: "seller denied admin", subject: seller, path: PathAdmin, allowed: false},
		{name: "admin allowed admin users", subject: admin, path: "/dashboard/admin/users", allowed: true},
		{name: "viewer allowed dashboard", subject: viewer, path: PathDashboard, allowed: true},
		{name: "prefix is not a path segment", subject: viewer, path: "/dashboard/salesforce", allowed: true},
		{name: "absent subject denied guarded", subject: nil, path: PathInventory, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := g.Check(tt.subject, tt.path)
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				assert.Empty(t, d.Redirect)
			} else {
				assert.Equal(t, SafeRedirect, d.Redirect)
			}
		})
	}
}

func TestGate_LongestPrefixWins(t *testing.T) {
	g := NewGate([]Rule{
		{Prefix: "/dashboard", Roles: []role.Role{role.Admin, role.Seller, role.Viewer}},
		{Prefix: "/dashboard/reports/finance", Roles: []role.Role{role.Admin}},
		{Prefix: "/dashboard/reports", Roles: []role.Role{role.Admin, role.Seller}},
	})

	assert.True(t, g.Check(seller, "/dashboard/reports/daily").Allowed)
	assert.False(t, g.Check(seller, "/dashboard/reports/finance/q3").Allowed)
	assert.False(t, g.Check(viewer, "/dashboard/reports").Allowed)
	assert.True(t, g.Check(viewer, "/dashboard/home").Allowed)
}

func TestCanCancelSale(t *testing.T) {
	completed := sale.Sale{Status: sale.StatusCompleted}
	cancelled := sale.Sale{Status: sale.StatusCancelled}
	pending := sale.Sale{Status: sale.StatusPending}

	assert.True(t, CanCancelSale(admin, completed))
	assert.False(t, CanCancelSale(admin, cancelled))
	assert.False(t, CanCancelSale(admin, pending))
	assert.False(t, CanCancelSale(seller, completed))
	assert.False(t, CanCancelSale(nil, completed))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		fn   func(role.Subject) bool
		want map[role.Role]bool
	}{
		{name: "create sale", fn: CanCreateSale, want: map[role.Role]bool{role.Admin: true, role.Seller: true}},
		{name: "edit product", fn: CanEditProduct, want: map[role.Role]bool{role.Admin: true, role.Seller: true}},
		{name: "adjust stock", fn: CanAdjustStock, want: map[role.Role]bool{role.Admin: true, role.Seller: true}},
		{name: "edit category", fn: CanEditCategory, want: map[role.Role]bool{role.Admin: true, role.Seller: true}},
		{name: "delete product", fn: CanDeleteProduct, want: map[role.Role]bool{role.Admin: true}},
		{name: "delete category", fn: CanDeleteCategory, want: map[role.Role]bool{role.Admin: true}},
		{name: "delete customer", fn: CanDeleteCustomer, want: map[role.Role]bool{role.Admin: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range role.All() {
				assert.Equal(t, tt.want[r], tt.fn(user(r)), r.String())
			}
			assert.False(t, tt.fn(nil))
		})
	}
}

func actions(items []MenuItem) []Action {
	var out []Action
	for _, it := range items {
		out = append(out, it.Action)
	}
	return out
}

func TestProductActions(t *testing.T) {
	assert.Equal(t, []Action{ActionEdit, ActionAdjust, ActionMovements, ActionDelete}, actions(ProductActions(admin)))
	assert.Equal(t, []Action{ActionEdit, ActionAdjust, ActionMovements}, actions(ProductActions(seller)))
	assert.Empty(t, ProductActions(viewer))
	assert.Empty(t, ProductActions(nil))
}

func TestCategoryActions(t *testing.T) {
	assert.Equal(t, []Action{ActionEdit, ActionDelete}, actions(CategoryActions(admin)))
	assert.Equal(t, []Action{ActionEdit}, actions(CategoryActions(seller)))
	assert.Empty(t, CategoryActions(viewer))
}

func TestSaleActions(t *testing.T) {
	completed := sale.Sale{Status: sale.StatusCompleted}

	assert.Equal(t, []Action{ActionView, ActionCancel}, actions(SaleActions(admin, completed)))
	assert.Equal(t, []Action{ActionView}, actions(SaleActions(seller, completed)))
	assert.Equal(t, []Action{ActionView}, actions(SaleActions(admin, sale.Sale{Status: sale.StatusCancelled})))
}

func TestCustomerActions(t *testing.T) {
	assert.Equal(t, []Action{ActionHistory, ActionEdit, ActionDelete}, actions(CustomerActions(admin)))
	assert.Equal(t, []Action{ActionHistory, ActionEdit}, actions(CustomerActions(seller)))
}

func TestOffers(t *testing.T) {
	assert.True(t, Offers(ProductActions(seller), ActionMovements))
	assert.False(t, Offers(ProductActions(viewer), ActionMovements))
	assert.True(t, Offers(CustomerActions(viewer), ActionHistory))
	assert.False(t, Offers(SaleActions(seller, sale.Sale{Status: sale.StatusCompleted}), ActionCancel))
	assert.False(t, Offers(nil, ActionView))
}

func TestNavItems(t *testing.T) {
	g := NewGate(DefaultRules())

	paths := func(items []NavItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.Path)
		}
		return out
	}

	assert.Equal(t, []string{PathDashboard, PathInventory, PathSales, PathCustomers, PathAdmin}, paths(g.NavItems(admin)))
	assert.Equal(t, []string{PathDashboard, PathInventory, PathSales, PathCustomers}, paths(g.NavItems(seller)))
	assert.Equal(t, []string{PathDashboard}, paths(g.NavItems(viewer)))
	assert.Empty(t, g.NavItems(nil))
}

func TestSettingsTabs(t *testing.T) {
	values := func(tabs []SettingsTab) []string {
		var out []string
		for _, tab := range tabs {
			out = append(out, tab.Value)
		}
		return out
	}

	assert.Equal(t, []string{"my-profile", "password", "organization", "danger-zone"}, values(SettingsTabs(admin)))
	assert.Equal(t, []string{"my-profile", "password", "danger-zone"}, values(SettingsTabs(seller)))
	assert.Equal(t, []string{"my-profile", "password", "danger-zone"}, values(SettingsTabs(viewer)))
	assert.Empty(t, SettingsTabs(nil))
}
