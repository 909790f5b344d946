// Package access is the role → view policy. It backs both the
// navigation filtering and the HTTP role middleware, but it is advisory:
// nothing stops code holding a ledger service from mutating any ledger.
// That limitation is documented, not fixed.
package access

import "go-retail-pos/internal/models"

// View names gated by the policy.
const (
	ViewDashboard  = "dashboard"
	ViewPOS        = "pos"
	ViewInventory  = "inventory"
	ViewCustomers  = "customers"
	ViewReturns    = "returns"
	ViewExpenses   = "expenses"
	ViewPurchases  = "purchases"
	ViewPayroll    = "payroll"
	ViewReports    = "reports"
	ViewSettings   = "settings"
	ViewStaff      = "staff"
	ViewStorefront = "storefront"
)

// cashierDenied is the fixed back-office denylist for cashiers.
var cashierDenied = map[string]bool{
	ViewReports:   true,
	ViewExpenses:  true,
	ViewPurchases: true,
	ViewPayroll:   true,
	ViewSettings:  true,
	ViewStaff:     true,
}

// managerDenied holds the only two views a manager cannot open.
var managerDenied = map[string]bool{
	ViewPayroll:  true,
	ViewSettings: true,
}

// HasAccess reports whether role may open view. Admin sees everything,
// an unknown role sees nothing.
func HasAccess(role, view string) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return !managerDenied[view]
	case models.RoleCashier:
		return !cashierDenied[view]
	default:
		return false
	}
}

// AllowedViews lists the views a role may open, in navigation order.
func AllowedViews(role string) []string {
	all := []string{
		ViewDashboard, ViewPOS, ViewInventory, ViewCustomers, ViewReturns,
		ViewExpenses, ViewPurchases, ViewPayroll, ViewReports, ViewStaff,
		ViewSettings, ViewStorefront,
	}
	var out []string
	for _, v := range all {
		if HasAccess(role, v) {
			out = append(out, v)
		}
	}
	return out
}
