package domain

import "strings"

// Stage is a position in the sales funnel.
type Stage string

const (
	StageProspecting   Stage = "prospecting"
	StageQualification Stage = "qualification"
	StageProposal      Stage = "proposal"
	StageNegotiation   Stage = "negotiation"
	StageClosing       Stage = "closing"
	StageWon           Stage = "won"
	StageLost          Stage = "lost"
)

// funnel lists stages in pipeline order. Lost sits outside the forward path.
var funnel = []Stage{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosing,
	StageWon,
	StageLost,
}

// transitions maps each stage to the stages advance may move it to.
// Terminal stages have no outgoing edges.
var transitions = map[Stage]map[Stage]struct{}{
	StageProspecting:   {StageQualification: {}, StageLost: {}},
	StageQualification: {StageProposal: {}, StageLost: {}},
	StageProposal:      {StageNegotiation: {}, StageLost: {}},
	StageNegotiation:   {StageClosing: {}, StageLost: {}},
	StageClosing:       {StageWon: {}, StageLost: {}},
	StageWon:           {},
	StageLost:          {},
}

var stageIndex = func() map[Stage]int {
	idx := make(map[Stage]int, len(funnel))
	for i, s := range funnel {
		idx[s] = i
	}
	return idx
}()

// Stages returns every stage in funnel order.
func Stages() []Stage {
	return append([]Stage(nil), funnel...)
}

// ParseStage maps a raw value onto a known stage.
func ParseStage(raw string) (Stage, bool) {
	s := Stage(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := transitions[s]
	return s, ok
}

func (s Stage) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Stage) String() string { return string(s) }

// IsTerminal reports whether s is won or lost.
func IsTerminal(s Stage) bool {
	return s == StageWon || s == StageLost
}

// Successor returns the next forward stage, if any.
func Successor(s Stage) (Stage, bool) {
	for next := range transitions[s] {
		if next != StageLost {
			return next, true
		}
	}
	return "", false
}

// CanAdvance reports whether advance may move a lead from one stage to
// another. Staying put is always allowed for known stages.
func CanAdvance(from, to Stage) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	_, ok := transitions[from][to]
	return ok
}

// CanReopen reports whether a correction may move a lead backward.
// Won is final. Lost may be revived into any open stage; an open lead may
// only move to an earlier open stage.
func CanReopen(from, to Stage) bool {
	if !from.Valid() || !to.Valid() || IsTerminal(to) {
		return false
	}
	switch from {
	case StageWon:
		return false
	case StageLost:
		return true
	default:
		return stageIndex[to] < stageIndex[from]
	}
}

// Rank returns the funnel position of s, or -1 if unknown.
func Rank(s Stage) int {
	if i, ok := stageIndex[s]; ok {
		return i
	}
	return -1
}
