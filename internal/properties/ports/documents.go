// Package ports defines the interfaces the properties context needs from others.
package ports

import (
	"context"

	"estate_dashboard_backend/internal/properties/domain"
)

// DocumentLinker turns a stored document into a short-lived download URL.
type DocumentLinker interface {
	DocumentURL(ctx context.Context, doc domain.Document) (string, error)
}
