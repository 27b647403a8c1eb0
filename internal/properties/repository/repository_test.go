package repository

import (
	"context"
	"errors"
	"testing"

	"estate_dashboard_backend/internal/properties/domain"

	"github.com/google/uuid"
)

func TestInsertGetUpdate(t *testing.T) {
	ctx := context.Background()
	repo := New()
	rec := domain.PropertyRecord{
		ID:        uuid.New(),
		Title:     "Villa 7",
		Documents: []domain.Document{{ID: uuid.New(), Name: "Brochure", Visibility: domain.VisibilityPublic}},
	}

	if err := repo.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.Insert(ctx, rec); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate insert: %v", err)
	}

	got, err := repo.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.Documents[0].Name = "mutated"
	again, _ := repo.Get(ctx, rec.ID)
	if again.Documents[0].Name != "Brochure" {
		t.Fatal("Get must return a copy")
	}

	failErr := errors.New("rejected")
	if _, err := repo.Update(ctx, rec.ID, func(r *domain.PropertyRecord) error {
		r.Title = "half written"
		return failErr
	}); !errors.Is(err, failErr) {
		t.Fatalf("Update error: %v", err)
	}
	if cur, _ := repo.Get(ctx, rec.ID); cur.Title != "Villa 7" {
		t.Fatalf("failed update was stored: %q", cur.Title)
	}

	updated, err := repo.Update(ctx, rec.ID, func(r *domain.PropertyRecord) error {
		r.Title = "Villa 7A"
		return nil
	})
	if err != nil || updated.Title != "Villa 7A" {
		t.Fatalf("Update = %+v, %v", updated, err)
	}

	if _, err := repo.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing record: %v", err)
	}
	if _, err := repo.Update(ctx, uuid.New(), func(*domain.PropertyRecord) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing record update: %v", err)
	}
}
