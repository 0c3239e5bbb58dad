package market

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
)

var (
	// ErrRateLimited marks a provider refusal that is worth retrying after
	// backoff and worth a shared cooldown across workers.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrNoData means the provider answered but knows nothing about the
	// token. Retrying will not help; the chain moves on.
	ErrNoData = errors.New("no data for token")
)

// Metrics is a snapshot of live token data. Fields a provider did not serve
// stay nil; merging never overwrites a field an earlier provider filled.
type Metrics struct {
	Price       *decimal.Decimal
	MarketCap   *decimal.Decimal
	Volume24h   *decimal.Decimal
	Liquidity   *decimal.Decimal
	HolderCount *int64
}

// MetricsProvider serves market metrics for one contract address.
type MetricsProvider interface {
	Name() string
	TokenMetrics(ctx context.Context, address string) (Metrics, error)
}

// HolderProvider serves the holder count for one contract address.
type HolderProvider interface {
	Name() string
	HolderCount(ctx context.Context, address string) (int64, error)
}

// fill copies other's values into fields m lacks. Earlier providers in the
// chain win for any field both serve.
func (m Metrics) fill(other Metrics) Metrics {
	if m.Price == nil {
		m.Price = other.Price
	}
	if m.MarketCap == nil {
		m.MarketCap = other.MarketCap
	}
	if m.Volume24h == nil {
		m.Volume24h = other.Volume24h
	}
	if m.Liquidity == nil {
		m.Liquidity = other.Liquidity
	}
	if m.HolderCount == nil {
		m.HolderCount = other.HolderCount
	}
	return m
}

// complete reports whether every chain-served field is present, so the
// enricher can stop consulting fallbacks.
func (m Metrics) complete() bool {
	return m.Price != nil && m.MarketCap != nil && m.Volume24h != nil && m.Liquidity != nil
}

// Empty reports whether no provider contributed anything.
func (m Metrics) Empty() bool {
	return m.Price == nil && m.MarketCap == nil && m.Volume24h == nil &&
		m.Liquidity == nil && m.HolderCount == nil
}

// ApplyTo writes the snapshot onto the signal's enriched fields.
func (m Metrics) ApplyTo(sig *models.Signal) {
	sig.CurrentPrice = m.Price
	sig.MarketCap = m.MarketCap
	sig.Volume24h = m.Volume24h
	sig.Liquidity = m.Liquidity
	sig.HolderCount = m.HolderCount
}
