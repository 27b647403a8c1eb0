package rbac

// grants is the single source of truth for role permissions.
// Anything not listed here is denied.
var grants = map[Role]CapabilitySet{
	RoleOwner: NewCapabilitySet(allCapabilities...),
	RoleAdmin: NewCapabilitySet(
		ViewFinancials,
		EditCustomerDetails,
		ApproveRequests,
		ManageUsers,
		ManageFleet,
		VerifyConstructionTasks,
		ManageInventory,
		ViewAllLeads,
		EditLeadOwnPipeline,
	),
	RoleSalesManager: NewCapabilitySet(
		ViewFinancials,
		EditCustomerDetails,
		ApproveRequests,
		ViewCommission,
		ManageInventory,
		ViewAllLeads,
		EditLeadOwnPipeline,
	),
	RoleTeamLead: NewCapabilitySet(
		EditCustomerDetails,
		ViewCommission,
		ViewAllLeads,
		EditLeadOwnPipeline,
	),
	RoleAgent: NewCapabilitySet(
		ViewCommission,
		EditLeadOwnPipeline,
	),
	RoleSiteIncharge: NewCapabilitySet(
		ManageFleet,
		VerifyConstructionTasks,
	),
	RoleContractor: NewCapabilitySet(
		VerifyConstructionTasks,
	),
	RoleAccountant: NewCapabilitySet(
		ViewFinancials,
		ApproveRequests,
	),
	RoleCustomerPurchased: NewCapabilitySet(),
	RoleCustomerProspect:  NewCapabilitySet(),
}

// HasCapability reports whether role is granted capability.
// Unknown roles and unknown capabilities are denied.
func HasCapability(role Role, capability Capability) bool {
	set, ok := grants[role]
	if !ok {
		return false
	}
	return set.Has(capability)
}

// CapabilitiesFor returns a fresh copy of the role's capability set.
// Unknown roles get an empty set.
func CapabilitiesFor(role Role) CapabilitySet {
	set := grants[role]
	out := make(CapabilitySet, len(set))
	for c := range set {
		out[c] = struct{}{}
	}
	return out
}
