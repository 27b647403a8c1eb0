// Package sessionstore provides durable single-key stores for the session record.
package sessionstore

import "context"

// Store holds one opaque session record under a fixed key.
// Get reports ok=false when no record is stored.
type Store interface {
	Get(ctx context.Context) (data []byte, ok bool, err error)
	Set(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}
