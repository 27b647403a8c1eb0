package rbac

import "github.com/google/uuid"

// Principal is an authenticated actor. It is passed explicitly into every
// core operation; there is no ambient current user.
type Principal struct {
	ID            uuid.UUID `json:"id"`
	DisplayName   string    `json:"displayName"`
	Role          Role      `json:"role"`
	Email         string    `json:"email,omitempty"`
	CredentialRef string    `json:"-"`
}

// Can reports whether the principal's role grants capability.
func (p Principal) Can(capability Capability) bool {
	return HasCapability(p.Role, capability)
}

// CanAny reports whether the principal holds at least one of caps.
func (p Principal) CanAny(caps ...Capability) bool {
	for _, c := range caps {
		if p.Can(c) {
			return true
		}
	}
	return false
}

// Capabilities returns the principal's capability set.
func (p Principal) Capabilities() CapabilitySet {
	return CapabilitiesFor(p.Role)
}

// IsZero reports whether p is the empty principal.
func (p Principal) IsZero() bool {
	return p.ID == uuid.Nil
}
