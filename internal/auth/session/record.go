package session

import (
	"encoding/json"
	"fmt"

	"estate_dashboard_backend/internal/rbac"

	"github.com/google/uuid"
)

// record is the persisted session layout. Nothing else survives a restart.
type record struct {
	PrincipalID uuid.UUID `json:"principalId"`
	Role        string    `json:"role"`
	DisplayName string    `json:"displayName"`
}

func encodeRecord(p rbac.Principal) ([]byte, error) {
	return json.Marshal(record{
		PrincipalID: p.ID,
		Role:        string(p.Role),
		DisplayName: p.DisplayName,
	})
}

func decodeRecord(data []byte) (rbac.Principal, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return rbac.Principal{}, fmt.Errorf("decode session record: %w", err)
	}
	if rec.PrincipalID == uuid.Nil {
		return rbac.Principal{}, fmt.Errorf("session record has no principal id")
	}
	role, ok := rbac.ParseRole(rec.Role)
	if !ok {
		return rbac.Principal{}, fmt.Errorf("session record has unknown role %q", rec.Role)
	}
	return rbac.Principal{
		ID:          rec.PrincipalID,
		Role:        role,
		DisplayName: rec.DisplayName,
	}, nil
}
