package strategy

import (
	"gorm.io/datatypes"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
)

// runnerFactor discounts confidence into runner potential.
const runnerFactor = 0.8

// Outcome is the signal-level verdict folded from all strategy results.
type Outcome struct {
	Confidence      float64
	Risk            float64
	RunnerPotential float64
	Matched         []Result
}

// Score folds strategy results into the final verdict. A strategy counts as
// matched when its weighted score reaches the threshold; confidence sums the
// matched weighted scores on a 0-100 scale and caps there. Risk is the
// complement, so a signal matching nothing carries full risk.
func Score(results []Result, threshold float64) Outcome {
	var sum float64
	var matched []Result
	for _, r := range results {
		if r.WeightedScore >= threshold {
			matched = append(matched, r)
			sum += r.WeightedScore
		}
	}
	confidence := 100 * sum
	if confidence > 100 {
		confidence = 100
	}
	return Outcome{
		Confidence:      confidence,
		Risk:            100 - confidence,
		RunnerPotential: confidence * runnerFactor,
		Matched:         matched,
	}
}

// MatchedNames lists the matched strategies in evaluation order.
func (o Outcome) MatchedNames() []string {
	names := make([]string, 0, len(o.Matched))
	for _, r := range o.Matched {
		names = append(names, r.Strategy.Name)
	}
	return names
}

// Apply writes the verdict onto the signal's analysis fields.
func (o Outcome) Apply(sig *models.Signal) {
	sig.ConfidenceScore = o.Confidence
	sig.RiskScore = o.Risk
	sig.RunnerPotential = o.RunnerPotential
	sig.StrategyMatches = datatypes.NewJSONSlice(o.MatchedNames())
}
