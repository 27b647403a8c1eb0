package transport

import (
	"estate_dashboard_backend/internal/leads/domain"
	"estate_dashboard_backend/platform/validator"
)

// RegisterValidations adds the "stage" tag used by the request DTOs.
func RegisterValidations(val *validator.Validator) error {
	return val.RegisterEnum("stage", func(raw string) bool {
		_, ok := domain.ParseStage(raw)
		return ok
	})
}
