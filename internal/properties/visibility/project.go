// Package visibility projects property records down to what a principal may see.
package visibility

import (
	"estate_dashboard_backend/internal/properties/domain"
	"estate_dashboard_backend/internal/rbac"
)

// elevated capabilities see purchaser-only documents without being the purchaser.
var elevated = []rbac.Capability{rbac.EditCustomerDetails, rbac.ViewFinancials}

// CanEditCustomerDetails reports whether p may read customer fields
// verbatim and write them.
func CanEditCustomerDetails(p rbac.Principal) bool {
	return p.Can(rbac.EditCustomerDetails)
}

// CanSeeDocument reports whether p may receive doc attached to record.
func CanSeeDocument(record domain.PropertyRecord, doc domain.Document, p rbac.Principal) bool {
	if doc.Visibility == domain.VisibilityPublic {
		return true
	}
	// Anything not explicitly public is treated as purchaser-only.
	return record.IsPurchaser(p.ID) || p.CanAny(elevated...)
}

// Project returns a copy of record containing only what p is entitled to.
// Customer fields are blanked without EditCustomerDetails. Documents p may
// not see are dropped from the slice. The input is never modified.
func Project(record domain.PropertyRecord, p rbac.Principal) domain.PropertyRecord {
	out := record
	if !CanEditCustomerDetails(p) {
		out.Customer = domain.CustomerDetails{}
	}

	out.Documents = make([]domain.Document, 0, len(record.Documents))
	for _, doc := range record.Documents {
		if CanSeeDocument(record, doc, p) {
			out.Documents = append(out.Documents, doc)
		}
	}
	return out
}
