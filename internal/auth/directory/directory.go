// Package directory is an in-memory identity directory backed by bcrypt hashes.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"estate_dashboard_backend/internal/auth/session"
	"estate_dashboard_backend/internal/rbac"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateIdentifier = errors.New("identifier already registered")
	ErrInvalidEntry        = errors.New("invalid directory entry")
)

type entry struct {
	principal rbac.Principal
	hash      []byte
}

// Directory verifies credentials against bcrypt hashes held in memory.
type Directory struct {
	mu           sync.RWMutex
	byIdentifier map[string]entry
	byID         map[uuid.UUID]rbac.Principal
	cost         int
	dummyHash    []byte
}

// New creates an empty directory hashing new passwords with cost.
// A cost below bcrypt.MinCost falls back to bcrypt.DefaultCost.
func New(cost int) (*Directory, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("estate-dashboard-dummy"), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &Directory{
		byIdentifier: make(map[string]entry),
		byID:         make(map[uuid.UUID]rbac.Principal),
		cost:         cost,
		dummyHash:    dummy,
	}, nil
}

func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// Add registers principal under its e-mail with a plaintext password.
func (d *Directory) Add(principal rbac.Principal, password string) error {
	if password == "" {
		return fmt.Errorf("%w: empty password for %s", ErrInvalidEntry, principal.Email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return fmt.Errorf("hash password for %s: %w", principal.Email, err)
	}
	return d.AddHashed(principal, string(hash))
}

// AddHashed registers principal with an existing bcrypt hash.
func (d *Directory) AddHashed(principal rbac.Principal, hash string) error {
	identifier := normalizeIdentifier(principal.Email)
	if identifier == "" || principal.ID == uuid.Nil || !principal.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEntry, principal.Email)
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidEntry, identifier, err)
	}

	principal.Email = identifier
	principal.CredentialRef = "bcrypt:" + principal.ID.String()

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byIdentifier[identifier]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, identifier)
	}
	d.byIdentifier[identifier] = entry{principal: principal, hash: []byte(hash)}
	d.byID[principal.ID] = principal
	return nil
}

// Verify implements session.Directory. Unknown identifiers are compared against
// a dummy hash so both failure paths take comparable time.
func (d *Directory) Verify(ctx context.Context, identifier, secret string) (rbac.Principal, error) {
	if err := ctx.Err(); err != nil {
		return rbac.Principal{}, err
	}

	d.mu.RLock()
	e, ok := d.byIdentifier[normalizeIdentifier(identifier)]
	d.mu.RUnlock()

	if !ok {
		_ = bcrypt.CompareHashAndPassword(d.dummyHash, []byte(secret))
		return rbac.Principal{}, session.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(e.hash, []byte(secret)); err != nil {
		return rbac.Principal{}, session.ErrInvalidCredentials
	}
	return e.principal, nil
}

// Lookup implements session.Directory.
func (d *Directory) Lookup(_ context.Context, id uuid.UUID) (rbac.Principal, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.byID[id]
	return p, ok
}

// Principals returns every registered principal.
func (d *Directory) Principals() []rbac.Principal {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]rbac.Principal, 0, len(d.byID))
	for _, p := range d.byID {
		out = append(out, p)
	}
	return out
}

var _ session.Directory = (*Directory)(nil)
