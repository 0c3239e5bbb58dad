package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/JLORep/ProjectTrench-sub004/internal/config"
)

// Defaults is the built-in bank. The three full-profile strategies are strict
// enough to clear the default match threshold on a clean sweep; the light
// ones only matter when the operator tunes the threshold down.
func Defaults() []Definition {
	return []Definition{
		{
			Name:        "runner_profile",
			Description: "Mid-cap token with volume, liquidity, holder base and live momentum all confirming.",
			Weight:      1.0,
			SuccessRate: 0.75,
			Criteria: Criteria{
				MinVolume24h:   decPtr("250000"),
				MaxMarketCap:   decPtr("10000000"),
				MinLiquidity:   decPtr("100000"),
				MinHolderCount: int64Ptr(500),
				MinMomentum:    floatPtr(0.02),
			},
		},
		{
			Name:        "micro_cap_surge",
			Description: "Fresh micro cap already moving with real volume behind it.",
			Weight:      0.95,
			SuccessRate: 0.78,
			Criteria: Criteria{
				MinVolume24h:   decPtr("100000"),
				MaxMarketCap:   decPtr("1000000"),
				MinLiquidity:   decPtr("30000"),
				MinHolderCount: int64Ptr(200),
				MinMomentum:    floatPtr(0.05),
			},
		},
		{
			Name:        "established_mover",
			Description: "Larger token with deep liquidity and a broad holder base starting to trend.",
			Weight:      0.9,
			SuccessRate: 0.85,
			Criteria: Criteria{
				MinVolume24h:   decPtr("1000000"),
				MaxMarketCap:   decPtr("100000000"),
				MinLiquidity:   decPtr("500000"),
				MinHolderCount: int64Ptr(5000),
				MinMomentum:    floatPtr(0.01),
			},
		},
		{
			Name:        "volume_breakout",
			Description: "Volume and momentum spike regardless of cap.",
			Weight:      0.85,
			SuccessRate: 0.6,
			Criteria: Criteria{
				MinVolume24h: decPtr("500000"),
				MinLiquidity: decPtr("50000"),
				MinMomentum:  floatPtr(0.1),
			},
		},
		{
			Name:        "holder_growth",
			Description: "Healthy distribution with a liquidity floor.",
			Weight:      0.7,
			SuccessRate: 0.55,
			Criteria: Criteria{
				MinHolderCount: int64Ptr(1000),
				MinLiquidity:   decPtr("50000"),
			},
		},
		{
			Name:        "liquidity_floor",
			Description: "Deep pool with steady turnover, low rug surface.",
			Weight:      0.6,
			SuccessRate: 0.65,
			Criteria: Criteria{
				MinLiquidity: decPtr("250000"),
				MinVolume24h: decPtr("100000"),
			},
		},
	}
}

// FromConfig converts operator overrides into definitions. An empty override
// list means the caller should fall back to Defaults.
func FromConfig(cfgs []config.StrategyConfig) []Definition {
	defs := make([]Definition, 0, len(cfgs))
	for _, c := range cfgs {
		defs = append(defs, Definition{
			Name:        c.Name,
			Description: c.Description,
			Weight:      c.Weight,
			SuccessRate: c.SuccessRate,
			Criteria: Criteria{
				MinVolume24h:   decFromFloat(c.Criteria.MinVolume24h),
				MaxMarketCap:   decFromFloat(c.Criteria.MaxMarketCap),
				MinLiquidity:   decFromFloat(c.Criteria.MinLiquidity),
				MinHolderCount: c.Criteria.MinHolderCount,
				MinMomentum:    c.Criteria.MinMomentum,
			},
		})
	}
	return defs
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func decFromFloat(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

func int64Ptr(v int64) *int64 { return &v }

func floatPtr(v float64) *float64 { return &v }
