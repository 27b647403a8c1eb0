package domain

// ProbabilityRange is an advisory win-probability band in percent.
type ProbabilityRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r ProbabilityRange) Contains(p int) bool {
	return p >= r.Min && p <= r.Max
}

var suggestedProbability = map[Stage]ProbabilityRange{
	StageProspecting:   {Min: 10, Max: 25},
	StageQualification: {Min: 25, Max: 45},
	StageProposal:      {Min: 45, Max: 65},
	StageNegotiation:   {Min: 65, Max: 85},
	StageClosing:       {Min: 85, Max: 95},
	StageWon:           {Min: 100, Max: 100},
	StageLost:          {Min: 0, Max: 0},
}

// SuggestedProbability returns guidance for s. It is never written to a lead.
func SuggestedProbability(s Stage) (ProbabilityRange, bool) {
	r, ok := suggestedProbability[s]
	return r, ok
}

const (
	MinProbability = 0
	MaxProbability = 100
)

func ValidProbability(p int) bool {
	return p >= MinProbability && p <= MaxProbability
}
