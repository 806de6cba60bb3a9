package access

import (
	"github.com/xenking/orbit-console/internal/domain/role"
	"github.com/xenking/orbit-console/internal/domain/sale"
)

var (
	admins  = []role.Role{role.Admin}
	editors = []role.Role{role.Admin, role.Seller}
)

// CanCancelSale requires admin and a completed sale.
func CanCancelSale(subject role.Subject, s sale.Sale) bool {
	return role.HasRole(subject, admins...) && s.Status == sale.StatusCompleted
}

// CanCreateSale requires admin or seller.
func CanCreateSale(subject role.Subject) bool {
	return role.HasRole(subject, editors...)
}

// CanEditProduct requires admin or seller.
func CanEditProduct(subject role.Subject) bool {
	return role.HasRole(subject, editors...)
}

// CanAdjustStock requires admin or seller.
func CanAdjustStock(subject role.Subject) bool {
	return role.HasRole(subject, editors...)
}

// CanEditCategory requires admin or seller.
func CanEditCategory(subject role.Subject) bool {
	return role.HasRole(subject, editors...)
}

func CanDeleteProduct(subject role.Subject) bool {
	return role.HasRole(subject, admins...)
}

func CanDeleteCategory(subject role.Subject) bool {
	return role.HasRole(subject, admins...)
}

func CanDeleteCustomer(subject role.Subject) bool {
	return role.HasRole(subject, admins...)
}

// Action identifies a row-level menu entry.
type Action string

const (
	ActionView      Action = "view"
	ActionEdit      Action = "edit"
	ActionAdjust    Action = "adjust-stock"
	ActionMovements Action = "movements"
	ActionHistory   Action = "history"
	ActionCancel    Action = "cancel"
	ActionDelete    Action = "delete"
)

// MenuItem is one entry of an actions menu.
type MenuItem struct {
	Action      Action
	Label       string
	Destructive bool
}

// Offers reports whether menu contains action.
func Offers(menu []MenuItem, action Action) bool {
	for _, item := range menu {
		if item.Action == action {
			return true
		}
	}
	return false
}

// ProductActions is empty for users who cannot edit inventory.
func ProductActions(subject role.Subject) []MenuItem {
	if !CanEditProduct(subject) {
		return nil
	}
	items := []MenuItem{
		{Action: ActionEdit, Label: "Edit"},
		{Action: ActionAdjust, Label: "Adjust stock"},
		{Action: ActionMovements, Label: "Movement history"},
	}
	if CanDeleteProduct(subject) {
		items = append(items, MenuItem{Action: ActionDelete, Label: "Delete", Destructive: true})
	}
	return items
}

// CategoryActions is empty for users who cannot edit categories.
func CategoryActions(subject role.Subject) []MenuItem {
	if !CanEditCategory(subject) {
		return nil
	}
	items := []MenuItem{{Action: ActionEdit, Label: "Edit"}}
	if CanDeleteCategory(subject) {
		items = append(items, MenuItem{Action: ActionDelete, Label: "Delete", Destructive: true})
	}
	return items
}

// SaleActions always offers the detail view.
func SaleActions(subject role.Subject, s sale.Sale) []MenuItem {
	items := []MenuItem{{Action: ActionView, Label: "View details"}}
	if CanCancelSale(subject, s) {
		items = append(items, MenuItem{Action: ActionCancel, Label: "Cancel sale", Destructive: true})
	}
	return items
}

// CustomerActions offers history and edit to anyone who can see customers.
func CustomerActions(subject role.Subject) []MenuItem {
	items := []MenuItem{
		{Action: ActionHistory, Label: "Purchase history"},
		{Action: ActionEdit, Label: "Edit"},
	}
	if CanDeleteCustomer(subject) {
		items = append(items, MenuItem{Action: ActionDelete, Label: "Delete", Destructive: true})
	}
	return items
}
