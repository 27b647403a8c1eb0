package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"estate_dashboard_backend/internal/leads/domain"

	"github.com/google/uuid"
)

var base = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func seedLead(t *testing.T, r *Repository) domain.Lead {
	t.Helper()
	l := domain.Lead{ID: uuid.New(), Stage: domain.StageProspecting, Value: 100, Probability: 10}
	if err := r.InsertLead(context.Background(), l); err != nil {
		t.Fatalf("InsertLead: %v", err)
	}
	return l
}

func TestUpdateLeadWritesNothingOnError(t *testing.T) {
	ctx := context.Background()
	r := New()
	l := seedLead(t, r)
	before := r.Version()

	boom := errors.New("rejected")
	_, err := r.UpdateLead(ctx, l.ID, func(lead *domain.Lead) (bool, error) {
		lead.Stage = domain.StageWon
		return true, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	got, _ := r.GetLead(ctx, l.ID)
	if got.Stage != domain.StageProspecting || r.Version() != before {
		t.Fatal("failed mutation must leave the lead and version untouched")
	}
}

func TestUpdateLeadUnchangedKeepsVersion(t *testing.T) {
	ctx := context.Background()
	r := New()
	l := seedLead(t, r)
	before := r.Version()

	if _, err := r.UpdateLead(ctx, l.ID, func(*domain.Lead) (bool, error) { return false, nil }); err != nil {
		t.Fatal(err)
	}
	if r.Version() != before {
		t.Fatal("no-op mutation must not bump the version")
	}

	if _, err := r.UpdateLead(ctx, uuid.New(), func(*domain.Lead) (bool, error) { return true, nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown lead: %v", err)
	}
}

func TestFollowUpsMaintainNextFollowUp(t *testing.T) {
	ctx := context.Background()
	r := New()
	l := seedLead(t, r)

	later := domain.FollowUp{ID: uuid.New(), LeadID: l.ID, ScheduledAt: base.Add(48 * time.Hour)}
	sooner := domain.FollowUp{ID: uuid.New(), LeadID: l.ID, ScheduledAt: base.Add(2 * time.Hour)}
	for _, fu := range []domain.FollowUp{later, sooner} {
		if _, err := r.AddFollowUp(ctx, fu, nil); err != nil {
			t.Fatalf("AddFollowUp: %v", err)
		}
	}

	got, _ := r.GetLead(ctx, l.ID)
	if got.NextFollowUpAt == nil || !got.NextFollowUpAt.Equal(sooner.ScheduledAt) {
		t.Fatalf("next follow-up = %v, want %v", got.NextFollowUpAt, sooner.ScheduledAt)
	}

	done, changed, err := r.CompleteFollowUp(ctx, sooner.ID, base, nil)
	if err != nil || !changed || !done.Completed {
		t.Fatalf("complete: %+v changed=%v err=%v", done, changed, err)
	}
	again, changed, err := r.CompleteFollowUp(ctx, sooner.ID, base.Add(time.Hour), nil)
	if err != nil || changed || !again.CompletedAt.Equal(base) {
		t.Fatalf("second complete must return the stored record: %+v changed=%v err=%v", again, changed, err)
	}

	got, _ = r.GetLead(ctx, l.ID)
	if got.NextFollowUpAt == nil || !got.NextFollowUpAt.Equal(later.ScheduledAt) {
		t.Fatalf("next follow-up after completion = %v", got.NextFollowUpAt)
	}
}

func TestAddFollowUpGuardAndMissingLead(t *testing.T) {
	ctx := context.Background()
	r := New()
	l := seedLead(t, r)

	if _, err := r.AddFollowUp(ctx, domain.FollowUp{ID: uuid.New(), LeadID: uuid.New()}, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing lead: %v", err)
	}

	deny := errors.New("deny")
	if _, err := r.AddFollowUp(ctx, domain.FollowUp{ID: uuid.New(), LeadID: l.ID}, func(domain.Lead, *domain.FollowUp) error { return deny }); !errors.Is(err, deny) {
		t.Fatalf("guard: %v", err)
	}
	if n := len(r.Snapshot(ctx).FollowUps); n != 0 {
		t.Fatalf("guarded insert leaked %d follow-ups", n)
	}
	if _, _, err := r.CompleteFollowUp(ctx, uuid.New(), base, nil); !errors.Is(err, ErrFollowUpNotFound) {
		t.Fatalf("unknown follow-up: %v", err)
	}
}

func TestSnapshotIsIsolatedFromWriters(t *testing.T) {
	ctx := context.Background()
	r := New()
	l := seedLead(t, r)

	snap := r.Snapshot(ctx)
	snap.Leads[0].Stage = domain.StageLost
	if got, _ := r.GetLead(ctx, l.ID); got.Stage != domain.StageProspecting {
		t.Fatal("snapshot must not alias stored leads")
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = r.UpdateLead(ctx, l.ID, func(lead *domain.Lead) (bool, error) {
				lead.Value++
				lead.Probability = int(lead.Value % 100)
				return true, nil
			})
		}()
		go func() {
			defer wg.Done()
			s := r.Snapshot(ctx)
			if got := s.Leads[0]; int(got.Value%100) != got.Probability && got.Value != 100 {
				t.Errorf("torn read: value=%d probability=%d", got.Value, got.Probability)
			}
		}()
	}
	wg.Wait()
}
