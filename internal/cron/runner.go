package cronrunner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner wraps the cron scheduler with a base context so scheduled jobs stop
// doing work once the process begins shutting down.
type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Add schedules a named job. The name is only used for log attribution.
func (r *Runner) Add(name, spec string, job func(context.Context) error) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		ctx := r.baseCtx
		if ctx == nil {
			ctx = context.Background()
		}
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		if err := job(ctx); err != nil {
			if r.logger != nil {
				r.logger.Error("cron job failed",
					zap.String("job", name),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err))
			}
			return
		}
		if r.logger != nil {
			r.logger.Debug("cron job finished",
				zap.String("job", name),
				zap.Duration("elapsed", time.Since(start)))
		}
	})
}

func (r *Runner) Start() {
	if r.logger != nil {
		r.logger.Info("cron started")
	}
	r.cron.Start()
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	if r.logger != nil {
		r.logger.Info("cron stopped")
	}
}
