package forecast

import (
	"context"
	"math"
	"testing"
	"time"

	"estate_dashboard_backend/internal/leads/domain"
	"estate_dashboard_backend/internal/leads/management"
	"estate_dashboard_backend/internal/leads/repository"
	"estate_dashboard_backend/internal/metrics"
	"estate_dashboard_backend/internal/rbac"
	"estate_dashboard_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAggregateForecastAndRealized(t *testing.T) {
	leads := []domain.Lead{
		{Stage: domain.StageNegotiation, Value: 8_500_000, Probability: 85},
		{Stage: domain.StageWon, Value: 7_200_000},
	}

	got := Aggregate(leads, nil)
	if got.Forecast != 7_225_000 {
		t.Fatalf("forecast = %v, want 7225000", got.Forecast)
	}
	if got.Realized != 7_200_000 {
		t.Fatalf("realized = %d, want 7200000", got.Realized)
	}
	if got.Count != 2 || got.TotalValue != 15_700_000 {
		t.Fatalf("count=%d total=%d", got.Count, got.TotalValue)
	}
}

func TestAggregateLargeValuesDoNotOverflow(t *testing.T) {
	v := int64(math.MaxInt64 / 2)
	leads := []domain.Lead{
		{Stage: domain.StageProposal, Value: v, Probability: 100},
		{Stage: domain.StageNegotiation, Value: v, Probability: 50},
	}

	got := Aggregate(leads, nil)
	want := float64(v) * 1.5
	if got.Forecast <= 0 || math.Abs(got.Forecast-want)/want > 1e-9 {
		t.Fatalf("forecast = %v, want about %v", got.Forecast, want)
	}
}

func TestAggregateExcludesTerminalFromForecast(t *testing.T) {
	tests := []struct {
		name     string
		leads    []domain.Lead
		forecast float64
		realized int64
	}{
		{"empty", nil, 0, 0},
		{"lost counts nowhere", []domain.Lead{{Stage: domain.StageLost, Value: 1_000, Probability: 90}}, 0, 0},
		{"won ignores probability", []domain.Lead{{Stage: domain.StageWon, Value: 1_000, Probability: 40}}, 0, 1_000},
		{"fractional forecast", []domain.Lead{{Stage: domain.StageProspecting, Value: 333, Probability: 15}}, 49.95, 0},
		{
			"mixed",
			[]domain.Lead{
				{Stage: domain.StageProposal, Value: 2_000_000, Probability: 50},
				{Stage: domain.StageClosing, Value: 1_000_000, Probability: 90},
				{Stage: domain.StageLost, Value: 5_000_000, Probability: 60},
				{Stage: domain.StageWon, Value: 3_000_000, Probability: 100},
			},
			1_900_000, 3_000_000,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Aggregate(tc.leads, nil)
			if got.Forecast != tc.forecast || got.Realized != tc.realized {
				t.Fatalf("forecast=%v realized=%d, want %v / %d", got.Forecast, got.Realized, tc.forecast, tc.realized)
			}
		})
	}
}

func TestAggregateStageFilter(t *testing.T) {
	leads := []domain.Lead{
		{Stage: domain.StageProposal, Value: 100, Probability: 50},
		{Stage: domain.StageProposal, Value: 300, Probability: 50},
		{Stage: domain.StageWon, Value: 700},
	}
	proposal := domain.StageProposal
	got := Aggregate(leads, &proposal)
	if got.Count != 2 || got.TotalValue != 400 || got.Forecast != 200 || got.Realized != 0 {
		t.Fatalf("filtered = %+v", got)
	}

	counts := map[domain.Stage]int{}
	for _, s := range Breakdown(leads) {
		counts[s.Stage] = s.Count
	}
	if len(counts) != 7 || counts[domain.StageProposal] != 2 || counts[domain.StageWon] != 1 {
		t.Fatalf("breakdown = %v", counts)
	}
}

func TestPipelineCacheIsInvalidatedByAdvance(t *testing.T) {
	ctx := context.Background()
	repo := repository.New()
	agent := rbac.Principal{ID: uuid.New(), Role: rbac.RoleAgent}
	owner := rbac.Principal{ID: uuid.New(), Role: rbac.RoleOwner}

	lead := domain.Lead{ID: uuid.New(), Stage: domain.StageClosing, Value: 1_000_000, Probability: 90, AssignedAgentID: agent.ID}
	if err := repo.InsertLead(ctx, lead); err != nil {
		t.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := New(repo)
	svc.SetMetrics(m)
	leads := management.New(repo, nil, logger.Nop())
	leads.SetClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) })

	first := svc.Pipeline(ctx, owner, nil)
	second := svc.Pipeline(ctx, owner, nil)
	if first.Summary != second.Summary || testutil.ToFloat64(m.AggregateCacheHits) != 1 {
		t.Fatal("second read must be served from cache")
	}
	if first.Summary.Forecast != 900_000 {
		t.Fatalf("forecast = %v", first.Summary.Forecast)
	}

	if _, err := leads.Advance(ctx, lead.ID, domain.StageWon, agent); err != nil {
		t.Fatal(err)
	}

	after := svc.Pipeline(ctx, owner, nil)
	if after.Summary.Forecast != 0 || after.Summary.Realized != 1_000_000 {
		t.Fatalf("stale aggregate after advance: %+v", after.Summary)
	}
}

func TestPipelineScopesToVisibleLeads(t *testing.T) {
	ctx := context.Background()
	repo := repository.New()
	agent := rbac.Principal{ID: uuid.New(), Role: rbac.RoleAgent}
	for _, assignee := range []uuid.UUID{agent.ID, uuid.New()} {
		l := domain.Lead{ID: uuid.New(), Stage: domain.StageProposal, Value: 1_000, Probability: 50, AssignedAgentID: assignee}
		if err := repo.InsertLead(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	svc := New(repo)
	if got := svc.Pipeline(ctx, agent, nil).Summary.Count; got != 1 {
		t.Fatalf("agent count = %d", got)
	}
	if got := svc.Pipeline(ctx, rbac.Principal{ID: uuid.New(), Role: rbac.RoleAdmin}, nil).Summary.Count; got != 2 {
		t.Fatalf("admin count = %d", got)
	}
	if got := svc.Pipeline(ctx, rbac.Principal{ID: uuid.New(), Role: rbac.RoleCustomerProspect}, nil).Summary.Count; got != 0 {
		t.Fatalf("customer count = %d", got)
	}
}
