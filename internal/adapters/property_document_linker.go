// Package adapters bridges bounded contexts: each adapter satisfies a port
// declared by the consuming domain using a service from the providing one.
package adapters

import (
	"context"
	"fmt"

	"estate_dashboard_backend/internal/adapters/storage"
	"estate_dashboard_backend/internal/properties/domain"
	"estate_dashboard_backend/internal/properties/ports"
)

type documentPresigner interface {
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*storage.PresignedURL, error)
}

// PropertyDocumentLinker turns the object key of a projected document into a
// presigned download link.
type PropertyDocumentLinker struct {
	presigner documentPresigner
	bucket    string
}

func NewPropertyDocumentLinker(presigner documentPresigner, bucket string) *PropertyDocumentLinker {
	return &PropertyDocumentLinker{presigner: presigner, bucket: bucket}
}

func (l *PropertyDocumentLinker) DocumentURL(ctx context.Context, doc domain.Document) (string, error) {
	if doc.ObjectKey == "" {
		return "", fmt.Errorf("document %s has no object key", doc.ID)
	}
	presigned, err := l.presigner.GenerateDownloadURL(ctx, l.bucket, doc.ObjectKey)
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}

var _ ports.DocumentLinker = (*PropertyDocumentLinker)(nil)
