// Package forecast computes pipeline totals and probability-weighted
// forecasts from the current lead collection.
package forecast

import "estate_dashboard_backend/internal/leads/domain"

// Summary holds aggregate figures for a lead collection. Money values are in
// the smallest currency unit.
type Summary struct {
	Count      int     `json:"count"`
	TotalValue int64   `json:"totalValue"`
	Forecast   float64 `json:"forecast"`
	Realized   int64   `json:"realized"`
}

// StageSummary is the per-stage slice of a pipeline.
type StageSummary struct {
	Stage      domain.Stage `json:"stage"`
	Count      int          `json:"count"`
	TotalValue int64        `json:"totalValue"`
}

// Aggregate summarises leads, optionally restricted to one stage.
// Forecast sums value x probability/100 over open leads only; won leads
// count toward Realized instead and lost leads toward neither. The weighted
// term is accumulated per lead in float64, so it cannot overflow int64.
func Aggregate(leads []domain.Lead, stage *domain.Stage) Summary {
	var sum Summary
	for _, l := range leads {
		if stage != nil && l.Stage != *stage {
			continue
		}
		sum.Count++
		sum.TotalValue += l.Value

		switch {
		case l.Stage == domain.StageWon:
			sum.Realized += l.Value
		case domain.IsTerminal(l.Stage):
		default:
			sum.Forecast += float64(l.Value) * float64(l.Probability) / 100
		}
	}
	return sum
}

// Breakdown returns one entry per stage in funnel order, including empty stages.
func Breakdown(leads []domain.Lead) []StageSummary {
	byStage := make(map[domain.Stage]*StageSummary)
	out := make([]StageSummary, 0, len(domain.Stages()))
	for _, s := range domain.Stages() {
		out = append(out, StageSummary{Stage: s})
	}
	for i := range out {
		byStage[out[i].Stage] = &out[i]
	}
	for _, l := range leads {
		if entry, ok := byStage[l.Stage]; ok {
			entry.Count++
			entry.TotalValue += l.Value
		}
	}
	return out
}
