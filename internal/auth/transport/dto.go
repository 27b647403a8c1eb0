package transport

import "time"

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
	Secret     string `json:"secret" validate:"required,max=72"`
}

type PrincipalResponse struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"displayName"`
	Role         string   `json:"role"`
	RoleLabel    string   `json:"roleLabel"`
	Capabilities []string `json:"capabilities"`
}

type LoginResponse struct {
	AccessToken string            `json:"accessToken"`
	ExpiresAt   time.Time         `json:"expiresAt"`
	Principal   PrincipalResponse `json:"principal"`
}
