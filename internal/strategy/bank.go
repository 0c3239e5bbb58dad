package strategy

import (
	"fmt"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
)

// Bank is the fixed set of strategies every signal is evaluated against.
// It is assembled once at startup and never mutated afterwards, so Evaluate
// needs no locking however many workers call it.
type Bank struct {
	threshold  float64
	strategies []Definition
}

func NewBank(defs []Definition, matchThreshold float64) (*Bank, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("strategy bank needs at least one strategy")
	}
	if matchThreshold < 0 || matchThreshold > 1 {
		return nil, fmt.Errorf("match threshold %v out of range [0,1]", matchThreshold)
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("strategy with empty name")
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("duplicate strategy %q", d.Name)
		}
		seen[d.Name] = true
		if d.Weight < 0 || d.Weight > 1 {
			return nil, fmt.Errorf("strategy %q: weight %v out of range [0,1]", d.Name, d.Weight)
		}
		if d.SuccessRate < 0 || d.SuccessRate > 1 {
			return nil, fmt.Errorf("strategy %q: success rate %v out of range [0,1]", d.Name, d.SuccessRate)
		}
		if d.Criteria.empty() {
			return nil, fmt.Errorf("strategy %q has no criteria", d.Name)
		}
	}
	bank := &Bank{threshold: matchThreshold, strategies: make([]Definition, len(defs))}
	copy(bank.strategies, defs)
	return bank, nil
}

// Evaluate runs every strategy against the signal, in bank order.
func (b *Bank) Evaluate(sig *models.Signal) []Result {
	results := make([]Result, 0, len(b.strategies))
	for _, d := range b.strategies {
		results = append(results, d.Evaluate(sig))
	}
	return results
}

// Analyze evaluates the signal and folds the results into the final verdict.
func (b *Bank) Analyze(sig *models.Signal) Outcome {
	return Score(b.Evaluate(sig), b.threshold)
}

func (b *Bank) Threshold() float64 { return b.threshold }

// Strategies returns a copy; the bank itself stays frozen.
func (b *Bank) Strategies() []Definition {
	out := make([]Definition, len(b.strategies))
	copy(out, b.strategies)
	return out
}
