package strategy

import (
	"math"
	"testing"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func mkSignal(t *testing.T, volume, marketCap, liquidity string, holders int64, entry, current string) *models.Signal {
	t.Helper()
	sig := &models.Signal{}
	if volume != "" {
		sig.Volume24h = decPtr(volume)
	}
	if marketCap != "" {
		sig.MarketCap = decPtr(marketCap)
	}
	if liquidity != "" {
		sig.Liquidity = decPtr(liquidity)
	}
	if holders > 0 {
		sig.HolderCount = &holders
	}
	if entry != "" {
		sig.EntryPrice = decPtr(entry)
	}
	if current != "" {
		sig.CurrentPrice = decPtr(current)
	}
	return sig
}

func TestEvaluateCountsOnlyConfiguredCriteria(t *testing.T) {
	def := Definition{
		Name:        "two_checks",
		Weight:      1.0,
		SuccessRate: 1.0,
		Criteria:    Criteria{MinVolume24h: decPtr("100000"), MinLiquidity: decPtr("50000")},
	}
	sig := mkSignal(t, "200000", "999999999", "60000", 3, "", "")

	r := def.Evaluate(sig)
	if r.Evaluated != 2 {
		t.Fatalf("evaluated=%d want=2", r.Evaluated)
	}
	if r.Satisfied != 2 {
		t.Fatalf("satisfied=%d want=2", r.Satisfied)
	}
	if !almostEqual(r.RawScore, 0.4) {
		t.Fatalf("raw=%v want=0.4", r.RawScore)
	}
}

func TestEvaluateAbsentMetricUnsatisfied(t *testing.T) {
	def := Definition{
		Name:        "holders_only",
		Weight:      1.0,
		SuccessRate: 1.0,
		Criteria:    Criteria{MinHolderCount: int64Ptr(100)},
	}
	sig := mkSignal(t, "500000", "", "90000", 0, "", "")

	r := def.Evaluate(sig)
	if r.Evaluated != 1 || r.Satisfied != 0 {
		t.Fatalf("evaluated=%d satisfied=%d want=1,0", r.Evaluated, r.Satisfied)
	}
	if r.RawScore != 0 {
		t.Fatalf("raw=%v want=0", r.RawScore)
	}
	if r.Reasoning != "holders_only holders=absent" {
		t.Fatalf("reasoning=%q", r.Reasoning)
	}
}

func TestEvaluatePartialWeightedScore(t *testing.T) {
	def := Definition{
		Name:        "three_checks",
		Weight:      0.8,
		SuccessRate: 0.54,
		Criteria: Criteria{
			MinVolume24h: decPtr("100000"),
			MaxMarketCap: decPtr("5000000"),
			MinLiquidity: decPtr("500000"),
		},
	}
	// Volume and cap pass, liquidity is short: 2 of 3.
	sig := mkSignal(t, "150000", "2000000", "80000", 0, "", "")

	r := def.Evaluate(sig)
	if r.Satisfied != 2 {
		t.Fatalf("satisfied=%d want=2", r.Satisfied)
	}
	if !almostEqual(r.WeightedScore, 0.1728) {
		t.Fatalf("weighted=%v want=0.1728", r.WeightedScore)
	}
	if r.Reasoning != "three_checks volume=ok cap=ok liquidity=low" {
		t.Fatalf("reasoning=%q", r.Reasoning)
	}

	out := Score([]Result{r}, 0.7)
	if len(out.Matched) != 0 {
		t.Fatalf("matched=%d want=0 at default threshold", len(out.Matched))
	}
	if out.Confidence != 0 || out.Risk != 100 {
		t.Fatalf("confidence=%v risk=%v want=0,100", out.Confidence, out.Risk)
	}
}

func TestEvaluateCleanSweepLowWeight(t *testing.T) {
	def := Definition{
		Name:        "low_weight",
		Weight:      0.3,
		SuccessRate: 0.72,
		Criteria: Criteria{
			MinVolume24h: decPtr("500000"),
			MaxMarketCap: decPtr("10000000"),
			MinLiquidity: decPtr("100000"),
			MinMomentum:  floatPtr(0.05),
		},
	}
	// Every configured criterion passes, yet weight and success rate keep
	// the strategy below the match threshold.
	sig := mkSignal(t, "600000", "8000000", "150000", 0, "1.0", "1.10")

	r := def.Evaluate(sig)
	if r.Satisfied != 4 {
		t.Fatalf("satisfied=%d want=4", r.Satisfied)
	}
	if !almostEqual(r.RawScore, 0.8) {
		t.Fatalf("raw=%v want=0.8", r.RawScore)
	}
	if !almostEqual(r.WeightedScore, 0.1728) {
		t.Fatalf("weighted=%v want=0.1728", r.WeightedScore)
	}
	if out := Score([]Result{r}, 0.7); len(out.Matched) != 0 {
		t.Fatalf("matched=%v want none", out.MatchedNames())
	}
}

func TestEvaluateMomentum(t *testing.T) {
	def := Definition{
		Name:        "momentum_only",
		Weight:      1.0,
		SuccessRate: 1.0,
		Criteria:    Criteria{MinMomentum: floatPtr(0.05)},
	}

	up := mkSignal(t, "", "", "", 0, "1.0", "1.10")
	if r := def.Evaluate(up); r.Satisfied != 1 {
		t.Fatalf("satisfied=%d want=1 for +10%% move", r.Satisfied)
	}

	down := mkSignal(t, "", "", "", 0, "1.0", "0.95")
	if r := def.Evaluate(down); r.Satisfied != 0 {
		t.Fatalf("satisfied=%d want=0 for -5%% move", r.Satisfied)
	}

	noEntry := mkSignal(t, "", "", "", 0, "", "1.10")
	if r := def.Evaluate(noEntry); r.Satisfied != 0 {
		t.Fatalf("satisfied=%d want=0 without entry price", r.Satisfied)
	}
}

func TestEvaluateFullSweep(t *testing.T) {
	def := Definition{
		Name:        "all_five",
		Weight:      0.9,
		SuccessRate: 0.8,
		Criteria: Criteria{
			MinVolume24h:   decPtr("100000"),
			MaxMarketCap:   decPtr("10000000"),
			MinLiquidity:   decPtr("50000"),
			MinHolderCount: int64Ptr(100),
			MinMomentum:    floatPtr(0.01),
		},
	}
	sig := mkSignal(t, "500000", "2000000", "90000", 900, "1.0", "1.5")

	r := def.Evaluate(sig)
	if r.Satisfied != 5 {
		t.Fatalf("satisfied=%d want=5", r.Satisfied)
	}
	if !almostEqual(r.RawScore, 1.0) {
		t.Fatalf("raw=%v want=1.0", r.RawScore)
	}
	if !almostEqual(r.WeightedScore, 0.72) {
		t.Fatalf("weighted=%v want=0.72", r.WeightedScore)
	}
}

func TestMatchThresholdBoundary(t *testing.T) {
	exact := Definition{Name: "exact", Weight: 1.0, SuccessRate: 1.0,
		Criteria: Criteria{MinLiquidity: decPtr("1")}}
	below := Definition{Name: "below", Weight: 0.9, SuccessRate: 1.0,
		Criteria: Criteria{MinLiquidity: decPtr("1")}}
	sig := mkSignal(t, "", "", "100", 0, "", "")

	results := []Result{exact.Evaluate(sig), below.Evaluate(sig)}
	out := Score(results, 0.2)
	if len(out.Matched) != 1 || out.Matched[0].Strategy.Name != "exact" {
		t.Fatalf("matched=%v want only the exact-threshold strategy", out.MatchedNames())
	}
}

func TestNewBankValidation(t *testing.T) {
	valid := Defaults()
	if _, err := NewBank(valid, 0.7); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}

	cases := []struct {
		name      string
		defs      []Definition
		threshold float64
	}{
		{"empty bank", nil, 0.7},
		{"empty name", []Definition{{Weight: 1, SuccessRate: 1, Criteria: Criteria{MinLiquidity: decPtr("1")}}}, 0.7},
		{"duplicate name", append(Defaults(), Defaults()[0]), 0.7},
		{"weight out of range", []Definition{{Name: "w", Weight: 1.5, SuccessRate: 1, Criteria: Criteria{MinLiquidity: decPtr("1")}}}, 0.7},
		{"success rate out of range", []Definition{{Name: "s", Weight: 1, SuccessRate: -0.1, Criteria: Criteria{MinLiquidity: decPtr("1")}}}, 0.7},
		{"no criteria", []Definition{{Name: "n", Weight: 1, SuccessRate: 1}}, 0.7},
		{"threshold out of range", valid, 1.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewBank(tc.defs, tc.threshold); err == nil {
				t.Fatalf("want error")
			}
		})
	}
}

func TestBankFrozenAfterConstruction(t *testing.T) {
	defs := Defaults()
	bank, err := NewBank(defs, 0.7)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	original := defs[0].Name
	defs[0].Name = "mutated"
	if got := bank.Strategies()[0].Name; got != original {
		t.Fatalf("bank strategy name=%q want=%q", got, original)
	}
	bank.Strategies()[0].Name = "mutated again"
	if got := bank.Strategies()[0].Name; got != original {
		t.Fatalf("bank leaked internal state, name=%q", got)
	}
}

func TestAnalyzeAgainstDefaults(t *testing.T) {
	bank, err := NewBank(Defaults(), 0.7)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	// Strong mid-cap sweep: clears runner_profile and established_mover.
	sig := mkSignal(t, "2000000", "5000000", "600000", 6000, "1.0", "1.2")

	out := bank.Analyze(sig)
	names := out.MatchedNames()
	if len(names) != 2 || names[0] != "runner_profile" || names[1] != "established_mover" {
		t.Fatalf("matched=%v want=[runner_profile established_mover]", names)
	}
	if out.Confidence != 100 {
		t.Fatalf("confidence=%v want=100 (capped)", out.Confidence)
	}
	if out.Risk != 0 {
		t.Fatalf("risk=%v want=0", out.Risk)
	}
	if !almostEqual(out.RunnerPotential, 80) {
		t.Fatalf("runner=%v want=80", out.RunnerPotential)
	}
}
