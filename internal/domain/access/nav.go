package access

import (
	"github.com/xenking/orbit-console/internal/domain/role"
)

// NavItem is a sidebar entry.
type NavItem struct {
	Title string
	Path  string
}

var navigation = []NavItem{
	{Title: "Dashboard", Path: PathDashboard},
	{Title: "Inventory", Path: PathInventory},
	{Title: "Sales", Path: PathSales},
	{Title: "Customers", Path: PathCustomers},
	{Title: "Admin", Path: PathAdmin},
}

// NavItems returns the sidebar entries subject may open. Visibility follows
// the route rules so a link is never shown for a page that would redirect.
func (g *Gate) NavItems(subject role.Subject) []NavItem {
	if _, ok := role.NameOf(subject); !ok {
		return nil
	}
	var out []NavItem
	for _, item := range navigation {
		if g.Check(subject, item.Path).Allowed {
			out = append(out, item)
		}
	}
	return out
}

// SettingsTab is a tab of the settings page.
type SettingsTab struct {
	Value string
	Title string
}

var settingsTabs = []struct {
	tab   SettingsTab
	roles []role.Role
}{
	{tab: SettingsTab{Value: "my-profile", Title: "My profile"}},
	{tab: SettingsTab{Value: "password", Title: "Password"}},
	{tab: SettingsTab{Value: "organization", Title: "Organization"}, roles: admins},
	{tab: SettingsTab{Value: "danger-zone", Title: "Danger zone"}},
}

// SettingsTabs returns the tabs visible to subject.
func SettingsTabs(subject role.Subject) []SettingsTab {
	if _, ok := role.NameOf(subject); !ok {
		return nil
	}
	var out []SettingsTab
	for _, t := range settingsTabs {
		if t.roles == nil || role.HasRole(subject, t.roles...) {
			out = append(out, t.tab)
		}
	}
	return out
}
