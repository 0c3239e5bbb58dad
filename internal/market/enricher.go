package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Enricher walks the provider chain for one address: the first provider is
// primary, later ones fill whatever gaps remain. Failures degrade the result,
// they never fail it.
type Enricher struct {
	logger    *zap.Logger
	providers []MetricsProvider
	holders   []HolderProvider
	retry     RetryPolicy
	cache     *metricsCache
	cooldown  *cooldownTable
}

func NewEnricher(logger *zap.Logger, retry RetryPolicy, cacheTTL time.Duration, providers []MetricsProvider, holders []HolderProvider) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 3
	}
	if retry.InitialBackoff <= 0 {
		retry.InitialBackoff = 500 * time.Millisecond
	}
	if retry.MaxBackoff <= 0 {
		retry.MaxBackoff = 8 * time.Second
	}
	return &Enricher{
		logger:    logger,
		providers: providers,
		holders:   holders,
		retry:     retry,
		cache:     newMetricsCache(cacheTTL),
		cooldown:  newCooldownTable(),
	}
}

// Enrich fetches live metrics for the address and returns them with one note
// per provider outcome for the signal's processing log.
func (e *Enricher) Enrich(ctx context.Context, address string) (Metrics, []string) {
	if m, ok := e.cache.get(address); ok {
		return m, []string{"cache hit"}
	}

	var merged Metrics
	var notes []string
	for _, p := range e.providers {
		if merged.complete() {
			break
		}
		var got Metrics
		err := e.callWithRetry(ctx, p.Name(), func(ctx context.Context) error {
			var callErr error
			got, callErr = p.TokenMetrics(ctx, address)
			return callErr
		})
		if err != nil {
			notes = append(notes, fmt.Sprintf("%s: %v", p.Name(), err))
			continue
		}
		merged = merged.fill(got)
		notes = append(notes, fmt.Sprintf("%s: ok", p.Name()))
	}

	for _, h := range e.holders {
		if merged.HolderCount != nil {
			break
		}
		var count int64
		err := e.callWithRetry(ctx, h.Name(), func(ctx context.Context) error {
			var callErr error
			count, callErr = h.HolderCount(ctx, address)
			return callErr
		})
		if err != nil {
			notes = append(notes, fmt.Sprintf("%s: %v", h.Name(), err))
			continue
		}
		merged.HolderCount = &count
		notes = append(notes, fmt.Sprintf("%s: %d holders", h.Name(), count))
	}

	if merged.Empty() {
		e.logger.Warn("enrichment produced no data", zap.String("address", address))
	} else {
		e.cache.put(address, merged)
	}
	return merged, notes
}

// callWithRetry runs one provider call under the retry policy. Rate limits
// start a shared cooldown; calls arriving during a cooldown skip the provider
// immediately so the chain can move on.
func (e *Enricher) callWithRetry(ctx context.Context, provider string, call func(context.Context) error) error {
	if wait := e.cooldown.remaining(provider); wait > 0 {
		return fmt.Errorf("%w: cooling down for %s", ErrRateLimited, wait.Round(time.Millisecond))
	}

	backoff := e.retry.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= e.retry.MaxAttempts; attempt++ {
		lastErr = call(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, ErrNoData) {
			return lastErr
		}
		if errors.Is(lastErr, ErrRateLimited) {
			e.cooldown.set(provider, backoff)
		}
		e.logger.Debug("provider call failed",
			zap.String("provider", provider),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))
		if attempt == e.retry.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > e.retry.MaxBackoff {
			backoff = e.retry.MaxBackoff
		}
	}
	return lastErr
}
