package forecast

import (
	"context"
	"sync"

	"estate_dashboard_backend/internal/leads/domain"
	"estate_dashboard_backend/internal/leads/repository"
	"estate_dashboard_backend/internal/metrics"
	"estate_dashboard_backend/internal/rbac"
)

// Repository is what the pipeline report reads from.
type Repository interface {
	repository.LeadReader
	repository.Versioned
}

// Report is the pipeline view for one principal.
type Report struct {
	Summary Summary        `json:"summary"`
	Stages  []StageSummary `json:"stages"`
}

type cacheKey struct {
	scope string
	stage domain.Stage
}

type cacheEntry struct {
	version uint64
	report  Report
}

// Service serves pipeline reports over the leads visible to a principal.
// Results are cached per scope and stage filter and discarded as soon as
// the lead store version moves, which every applied transition does.
type Service struct {
	repo    Repository
	metrics *metrics.Metrics

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
}

func New(repo Repository) *Service {
	return &Service{repo: repo, cache: make(map[cacheKey]cacheEntry)}
}

func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Pipeline returns the aggregate for the leads p can see.
func (s *Service) Pipeline(ctx context.Context, p rbac.Principal, stage *domain.Stage) Report {
	key := cacheKey{scope: domain.ScopeKey(p)}
	if stage != nil {
		key.stage = *stage
	}

	version := s.repo.Version()
	s.mu.Lock()
	entry, ok := s.cache[key]
	s.mu.Unlock()
	if ok && entry.version == version {
		s.metrics.CacheHit()
		return cloneReport(entry.report)
	}
	s.metrics.CacheMiss()

	snap := s.repo.Snapshot(ctx)
	visible := make([]domain.Lead, 0, len(snap.Leads))
	for _, l := range snap.Leads {
		if domain.CanView(p, l) {
			visible = append(visible, l)
		}
	}

	report := Report{
		Summary: Aggregate(visible, stage),
		Stages:  Breakdown(visible),
	}

	s.mu.Lock()
	if current, exists := s.cache[key]; !exists || current.version <= snap.Version {
		s.cache[key] = cacheEntry{version: snap.Version, report: report}
	}
	s.mu.Unlock()
	return cloneReport(report)
}

func cloneReport(r Report) Report {
	r.Stages = append([]StageSummary(nil), r.Stages...)
	return r
}
