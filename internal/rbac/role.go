// Package rbac owns the role/capability matrix and the Principal that every
// core operation is authorized against. Authorization rules are declared here
// once; call sites ask HasCapability instead of comparing role lists inline.
package rbac

import "strings"

// Role is one of the ten operator roles.
type Role string

const (
	RoleOwner             Role = "owner"
	RoleAdmin             Role = "admin"
	RoleSalesManager      Role = "sales_manager"
	RoleTeamLead          Role = "team_lead"
	RoleAgent             Role = "agent"
	RoleSiteIncharge      Role = "site_incharge"
	RoleContractor        Role = "contractor"
	RoleAccountant        Role = "accountant"
	RoleCustomerPurchased Role = "customer_purchased"
	RoleCustomerProspect  Role = "customer_prospect"
)

var roleLabels = map[Role]string{
	RoleOwner:             "Owner",
	RoleAdmin:             "Administrator",
	RoleSalesManager:      "Sales Manager",
	RoleTeamLead:          "Team Lead",
	RoleAgent:             "Sales Agent",
	RoleSiteIncharge:      "Site In-charge",
	RoleContractor:        "Contractor",
	RoleAccountant:        "Accountant",
	RoleCustomerPurchased: "Customer (Purchased)",
	RoleCustomerProspect:  "Customer (Prospect)",
}

var orderedRoles = []Role{
	RoleOwner,
	RoleAdmin,
	RoleSalesManager,
	RoleTeamLead,
	RoleAgent,
	RoleSiteIncharge,
	RoleContractor,
	RoleAccountant,
	RoleCustomerPurchased,
	RoleCustomerProspect,
}

// Roles returns every known role in a stable order.
func Roles() []Role {
	return append([]Role(nil), orderedRoles...)
}

// ParseRole maps a raw value onto a known role. Unknown values report false.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := roleLabels[role]
	return role, ok
}

// Valid reports whether r is one of the ten known roles.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label returns a human readable name for dashboards.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return "Unknown"
}

// IsAgentTier reports whether the role works only its own pipeline.
func IsAgentTier(r Role) bool {
	return HasCapability(r, EditLeadOwnPipeline) && !HasCapability(r, ViewAllLeads)
}

// IsManagerialTier reports whether the role sees every lead.
func IsManagerialTier(r Role) bool {
	return HasCapability(r, ViewAllLeads)
}
