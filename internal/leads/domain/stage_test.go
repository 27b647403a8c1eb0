package domain

import (
	"testing"

	"estate_dashboard_backend/internal/rbac"

	"github.com/google/uuid"
)

func TestCanAdvanceOnlyAlongFunnelOrToLost(t *testing.T) {
	next := map[Stage]Stage{
		StageProspecting:   StageQualification,
		StageQualification: StageProposal,
		StageProposal:      StageNegotiation,
		StageNegotiation:   StageClosing,
		StageClosing:       StageWon,
	}

	for _, from := range Stages() {
		for _, to := range Stages() {
			want := to == from || to == next[from] || (to == StageLost && !IsTerminal(from))
			if got := CanAdvance(from, to); got != want {
				t.Errorf("CanAdvance(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanAdvanceRejectsUnknownStages(t *testing.T) {
	if CanAdvance("", "") || CanAdvance(StageProspecting, "archived") || CanAdvance("archived", StageLost) {
		t.Fatal("unknown stages must never transition")
	}
}

func TestSuccessor(t *testing.T) {
	if s, ok := Successor(StageClosing); !ok || s != StageWon {
		t.Fatalf("closing successor = %s, %v", s, ok)
	}
	for _, terminal := range []Stage{StageWon, StageLost} {
		if _, ok := Successor(terminal); ok {
			t.Errorf("%s must have no successor", terminal)
		}
	}
}

func TestCanReopen(t *testing.T) {
	tests := []struct {
		from, to Stage
		want     bool
	}{
		{StageNegotiation, StageQualification, true},
		{StageProposal, StageProspecting, true},
		{StageProposal, StageProposal, false},
		{StageQualification, StageProposal, false},
		{StageLost, StageNegotiation, true},
		{StageLost, StageWon, false},
		{StageWon, StageClosing, false},
		{StageClosing, StageLost, false},
	}

	for _, tc := range tests {
		if got := CanReopen(tc.from, tc.to); got != tc.want {
			t.Errorf("CanReopen(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseStage(t *testing.T) {
	if s, ok := ParseStage(" Negotiation "); !ok || s != StageNegotiation {
		t.Fatalf("ParseStage = %q, %v", s, ok)
	}
	if _, ok := ParseStage("archived"); ok {
		t.Fatal("unknown stage must not parse")
	}
}

func TestSuggestedProbability(t *testing.T) {
	tests := []struct {
		stage    Stage
		min, max int
	}{
		{StageProspecting, 10, 25},
		{StageQualification, 25, 45},
		{StageProposal, 45, 65},
		{StageNegotiation, 65, 85},
		{StageClosing, 85, 95},
		{StageWon, 100, 100},
		{StageLost, 0, 0},
	}

	for _, tc := range tests {
		r, ok := SuggestedProbability(tc.stage)
		if !ok || r.Min != tc.min || r.Max != tc.max {
			t.Errorf("SuggestedProbability(%s) = %+v, %v", tc.stage, r, ok)
		}
	}
	if r, _ := SuggestedProbability(StageNegotiation); !r.Contains(85) || r.Contains(86) {
		t.Fatal("Contains must be inclusive")
	}
}

func TestAccess(t *testing.T) {
	agent := rbac.Principal{ID: uuid.New(), Role: rbac.RoleAgent}
	otherAgent := rbac.Principal{ID: uuid.New(), Role: rbac.RoleAgent}
	lead := rbac.Principal{ID: uuid.New(), Role: rbac.RoleTeamLead}
	accountant := rbac.Principal{ID: uuid.New(), Role: rbac.RoleAccountant}
	l := Lead{ID: uuid.New(), AssignedAgentID: agent.ID}

	tests := []struct {
		name       string
		p          rbac.Principal
		view, work bool
		scope      string
	}{
		{"assigned agent", agent, true, true, "agent:" + agent.ID.String()},
		{"other agent", otherAgent, false, false, "agent:" + otherAgent.ID.String()},
		{"team lead override", lead, true, true, "all"},
		{"accountant", accountant, false, false, "none"},
		{"nobody", rbac.Principal{}, false, false, "none"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanView(tc.p, l); got != tc.view {
				t.Errorf("CanView = %v, want %v", got, tc.view)
			}
			if got := CanWorkPipeline(tc.p, l); got != tc.work {
				t.Errorf("CanWorkPipeline = %v, want %v", got, tc.work)
			}
			if got := ScopeKey(tc.p); got != tc.scope {
				t.Errorf("ScopeKey = %q, want %q", got, tc.scope)
			}
		})
	}
}
