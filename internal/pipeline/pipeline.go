package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JLORep/ProjectTrench-sub004/internal/config"
	"github.com/JLORep/ProjectTrench-sub004/internal/market"
	"github.com/JLORep/ProjectTrench-sub004/internal/models"
	"github.com/JLORep/ProjectTrench-sub004/internal/parser"
	"github.com/JLORep/ProjectTrench-sub004/internal/repository"
	"github.com/JLORep/ProjectTrench-sub004/internal/strategy"
)

// ErrDraining rejects submissions once shutdown has begun.
var ErrDraining = errors.New("pipeline draining, not accepting messages")

type queuedMessage struct {
	raw     string
	channel string
}

// Orchestrator owns every signal from raw message to terminal status. A fixed
// worker pool consumes a bounded queue; each worker walks one signal through
// parse, enrich, analyze and the terminal write, so a burst of alerts never
// multiplies concurrency against the providers or the database.
type Orchestrator struct {
	logger   *zap.Logger
	repo     repository.Repository
	enricher *market.Enricher
	bank     *strategy.Bank

	queue         chan queuedMessage
	workers       int
	drainTimeout  time.Duration
	enrichTimeout time.Duration

	mu       sync.RWMutex
	draining bool
}

func New(logger *zap.Logger, repo repository.Repository, enricher *market.Enricher, bank *strategy.Bank, cfg config.PipelineConfig) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	drain := cfg.DrainTimeout
	if drain <= 0 {
		drain = 30 * time.Second
	}
	enrich := cfg.EnrichTimeout
	if enrich <= 0 {
		enrich = 10 * time.Second
	}
	return &Orchestrator{
		logger:        logger,
		repo:          repo,
		enricher:      enricher,
		bank:          bank,
		queue:         make(chan queuedMessage, queueSize),
		workers:       workers,
		drainTimeout:  drain,
		enrichTimeout: enrich,
	}
}

// Submit queues one raw channel message. It blocks while the queue is full
// and fails fast once draining.
func (o *Orchestrator) Submit(ctx context.Context, raw, channel string) error {
	o.mu.RLock()
	// The read lock is held across the send: drain cannot close the queue
	// under an in-flight submit.
	defer o.mu.RUnlock()
	if o.draining {
		return ErrDraining
	}
	select {
	case o.queue <- queuedMessage{raw: raw, channel: channel}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes messages until ctx is canceled, then drains: submissions are
// rejected, queued messages run to completion, and Run returns once the
// workers finish or the drain timeout expires.
func (o *Orchestrator) Run(ctx context.Context) error {
	g := new(errgroup.Group)
	for i := 0; i < o.workers; i++ {
		g.Go(func() error {
			for msg := range o.queue {
				o.process(context.Background(), msg)
			}
			return nil
		})
	}
	o.logger.Info("pipeline started",
		zap.Int("workers", o.workers),
		zap.Int("queue_size", cap(o.queue)))

	<-ctx.Done()

	o.mu.Lock()
	o.draining = true
	close(o.queue)
	o.mu.Unlock()
	o.logger.Info("pipeline draining", zap.Int("queued", len(o.queue)))

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
		o.logger.Info("pipeline drained")
	case <-time.After(o.drainTimeout):
		o.logger.Warn("drain timeout exceeded, abandoning queue", zap.Int("left", len(o.queue)))
	}
	return nil
}

// Status is a point-in-time snapshot for the observability surface.
type Status struct {
	Workers    int
	QueueDepth int
	QueueSize  int
	Draining   bool
}

func (o *Orchestrator) Status() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return Status{
		Workers:    o.workers,
		QueueDepth: len(o.queue),
		QueueSize:  cap(o.queue),
		Draining:   o.draining,
	}
}

// process walks one message through the full lifecycle. Every stage appends
// to the processing log, so the stored signal explains itself.
func (o *Orchestrator) process(ctx context.Context, msg queuedMessage) {
	sig, parseErr := parser.Parse(msg.raw, msg.channel)
	sig.Trace("received from %s", msg.channel)
	if parseErr != nil {
		sig.Trace("parse failed: %v", parseErr)
		o.fail(ctx, sig, parseErr)
		return
	}
	o.advance(sig, models.StatusParsed)
	sig.Trace("parsed ticker=%s address=%s entry=%s target=%s stop=%s",
		strOr(sig.Ticker), strOr(sig.ContractAddress),
		decOr(sig.EntryPrice), decOr(sig.TargetPrice), decOr(sig.StopLoss))

	if sig.ContractAddress != nil {
		enrichCtx, cancel := context.WithTimeout(ctx, o.enrichTimeout)
		metrics, notes := o.enricher.Enrich(enrichCtx, *sig.ContractAddress)
		cancel()
		metrics.ApplyTo(sig)
		for _, note := range notes {
			sig.Trace("enrich %s", note)
		}
		if metrics.Empty() {
			sig.Trace("enrichment degraded: no market data available")
		}
	} else {
		sig.Trace("enrichment skipped: no contract address")
	}
	o.advance(sig, models.StatusEnriched)

	outcome := o.bank.Analyze(sig)
	outcome.Apply(sig)
	for _, res := range outcome.Matched {
		sig.Trace("match %s", res.Reasoning)
	}
	sig.Trace("analyzed confidence=%.1f risk=%.1f runner_potential=%.1f matched=[%s]",
		sig.ConfidenceScore, sig.RiskScore, sig.RunnerPotential,
		strings.Join(outcome.MatchedNames(), " "))
	o.advance(sig, models.StatusAnalyzed)

	o.advance(sig, models.StatusCompleted)
	sig.Trace("completed")
	if err := o.repo.CreateSignal(ctx, sig); err != nil {
		o.logger.Error("persist completed signal",
			zap.String("signal_id", sig.ID),
			zap.Error(err))
		// Revert the optimistic completed move and store the failure.
		sig.Status = models.StatusAnalyzed
		o.fail(ctx, sig, fmt.Errorf("persist: %w", err))
		return
	}
	o.logger.Debug("signal completed",
		zap.String("signal_id", sig.ID),
		zap.Float64("confidence", sig.ConfidenceScore),
		zap.Float64("runner_potential", sig.RunnerPotential))
}

// fail records a terminal failure. A signal whose failed row cannot be
// written survives only in the logs.
func (o *Orchestrator) fail(ctx context.Context, sig *models.Signal, cause error) {
	o.advance(sig, models.StatusFailed)
	sig.Trace("failed: %v", cause)
	if err := o.repo.CreateSignal(ctx, sig); err != nil {
		o.logger.Error("signal lost, failed row could not be stored",
			zap.String("signal_id", sig.ID),
			zap.String("raw", sig.RawMessage),
			zap.NamedError("cause", cause),
			zap.Error(err))
	}
}

func (o *Orchestrator) advance(sig *models.Signal, next models.SignalStatus) {
	if err := sig.AdvanceTo(next); err != nil {
		o.logger.Error("lifecycle violation",
			zap.String("signal_id", sig.ID),
			zap.Error(err))
	}
}

func strOr(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func decOr(p *decimal.Decimal) string {
	if p == nil {
		return "-"
	}
	return p.String()
}
