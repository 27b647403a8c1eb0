package rbac

import "sort"

// Capability is a single named permission grantable to a role.
type Capability string

const (
	ViewFinancials          Capability = "view_financials"
	EditCustomerDetails     Capability = "edit_customer_details"
	ApproveRequests         Capability = "approve_requests"
	ManageUsers             Capability = "manage_users"
	ManageFleet             Capability = "manage_fleet"
	VerifyConstructionTasks Capability = "verify_construction_tasks"
	ViewCommission          Capability = "view_commission"
	ManageInventory         Capability = "manage_inventory"
	ViewAllLeads            Capability = "view_all_leads"
	EditLeadOwnPipeline     Capability = "edit_lead_own_pipeline"
)

var allCapabilities = []Capability{
	ViewFinancials,
	EditCustomerDetails,
	ApproveRequests,
	ManageUsers,
	ManageFleet,
	VerifyConstructionTasks,
	ViewCommission,
	ManageInventory,
	ViewAllLeads,
	EditLeadOwnPipeline,
}

// Capabilities returns every known capability in declaration order.
func Capabilities() []Capability {
	return append([]Capability(nil), allCapabilities...)
}

// CapabilitySet is an immutable-by-convention set of capabilities.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from caps.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether c is in the set. A nil set has nothing.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Any reports whether at least one of caps is in the set.
func (s CapabilitySet) Any(caps ...Capability) bool {
	for _, c := range caps {
		if s.Has(c) {
			return true
		}
	}
	return false
}

// Sorted returns the members in lexical order, for stable output.
func (s CapabilitySet) Sorted() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
