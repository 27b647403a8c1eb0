package domain

import "estate_dashboard_backend/internal/rbac"

// CanView reports whether p may see lead. ViewAllLeads sees everything,
// EditLeadOwnPipeline sees leads assigned to p, everyone else sees nothing.
func CanView(p rbac.Principal, lead Lead) bool {
	if p.IsZero() {
		return false
	}
	if p.Can(rbac.ViewAllLeads) {
		return true
	}
	return p.Can(rbac.EditLeadOwnPipeline) && lead.AssignedAgentID == p.ID
}

// CanWorkPipeline reports whether p may move lead along the funnel.
// Actors other than the assigned agent need the ViewAllLeads override.
func CanWorkPipeline(p rbac.Principal, lead Lead) bool {
	if p.IsZero() || !p.Can(rbac.EditLeadOwnPipeline) {
		return false
	}
	return lead.AssignedAgentID == p.ID || p.Can(rbac.ViewAllLeads)
}

// ScopeKey identifies the visible lead set of p for caching.
func ScopeKey(p rbac.Principal) string {
	switch {
	case p.IsZero():
		return "none"
	case p.Can(rbac.ViewAllLeads):
		return "all"
	case p.Can(rbac.EditLeadOwnPipeline):
		return "agent:" + p.ID.String()
	default:
		return "none"
	}
}
