package strategy

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
)

// criterionValue is the raw-score contribution of one satisfied criterion.
const criterionValue = 0.2

// Criteria are the floor and ceiling checks a strategy runs against a
// signal's enriched metrics. A nil field is not part of the strategy; a
// configured check against a metric the signal lacks is unsatisfied.
type Criteria struct {
	MinVolume24h   *decimal.Decimal
	MaxMarketCap   *decimal.Decimal
	MinLiquidity   *decimal.Decimal
	MinHolderCount *int64
	MinMomentum    *float64
}

func (c Criteria) empty() bool {
	return c.MinVolume24h == nil && c.MaxMarketCap == nil && c.MinLiquidity == nil &&
		c.MinHolderCount == nil && c.MinMomentum == nil
}

// Definition is one strategy of the bank. Definitions are frozen at startup;
// tuning one means restarting with new configuration.
type Definition struct {
	Name        string
	Description string
	Weight      float64
	SuccessRate float64
	Criteria    Criteria
}

// Result is one strategy's verdict on one signal. Reasoning is a compact
// per-criterion breakdown in the same key=value shape the opportunity rows
// use for their trace strings.
type Result struct {
	Strategy      Definition
	RawScore      float64
	WeightedScore float64
	Satisfied     int
	Evaluated     int
	Reasoning     string
}

// Evaluate scores the signal against this strategy alone. Each satisfied
// criterion adds 0.2 to the raw score, capped at 1; the weighted score folds
// in the strategy's weight and historical success rate.
func (d Definition) Evaluate(sig *models.Signal) Result {
	var evaluated, satisfied int
	var checks []string

	if d.Criteria.MinVolume24h != nil {
		evaluated++
		switch {
		case sig.Volume24h == nil:
			checks = append(checks, "volume=absent")
		case sig.Volume24h.GreaterThanOrEqual(*d.Criteria.MinVolume24h):
			satisfied++
			checks = append(checks, "volume=ok")
		default:
			checks = append(checks, "volume=low")
		}
	}
	if d.Criteria.MaxMarketCap != nil {
		evaluated++
		switch {
		case sig.MarketCap == nil:
			checks = append(checks, "cap=absent")
		case sig.MarketCap.LessThanOrEqual(*d.Criteria.MaxMarketCap):
			satisfied++
			checks = append(checks, "cap=ok")
		default:
			checks = append(checks, "cap=high")
		}
	}
	if d.Criteria.MinLiquidity != nil {
		evaluated++
		switch {
		case sig.Liquidity == nil:
			checks = append(checks, "liquidity=absent")
		case sig.Liquidity.GreaterThanOrEqual(*d.Criteria.MinLiquidity):
			satisfied++
			checks = append(checks, "liquidity=ok")
		default:
			checks = append(checks, "liquidity=low")
		}
	}
	if d.Criteria.MinHolderCount != nil {
		evaluated++
		switch {
		case sig.HolderCount == nil:
			checks = append(checks, "holders=absent")
		case *sig.HolderCount >= *d.Criteria.MinHolderCount:
			satisfied++
			checks = append(checks, "holders=ok")
		default:
			checks = append(checks, "holders=low")
		}
	}
	if d.Criteria.MinMomentum != nil {
		evaluated++
		mom, ok := momentum(sig)
		switch {
		case !ok:
			checks = append(checks, "momentum=absent")
		case mom >= *d.Criteria.MinMomentum:
			satisfied++
			checks = append(checks, "momentum=ok")
		default:
			checks = append(checks, "momentum=low")
		}
	}

	raw := float64(satisfied) * criterionValue
	if raw > 1 {
		raw = 1
	}
	return Result{
		Strategy:      d,
		RawScore:      raw,
		WeightedScore: raw * d.Weight * d.SuccessRate,
		Satisfied:     satisfied,
		Evaluated:     evaluated,
		Reasoning:     fmt.Sprintf("%s %s", d.Name, strings.Join(checks, " ")),
	}
}

// momentum is the fractional move from the called entry to the live price.
func momentum(sig *models.Signal) (float64, bool) {
	if sig.CurrentPrice == nil || sig.EntryPrice == nil || !sig.EntryPrice.IsPositive() {
		return 0, false
	}
	return sig.CurrentPrice.Sub(*sig.EntryPrice).Div(*sig.EntryPrice).InexactFloat64(), true
}
