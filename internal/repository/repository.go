package repository

import (
	"context"
	"time"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
)

// Repository is the persistence boundary of the pipeline. Signals arrive
// exactly once, at a terminal status; rankings are replaced per day, never
// patched.
type Repository interface {
	// Signals
	CreateSignal(ctx context.Context, item *models.Signal) error
	GetSignalByID(ctx context.Context, id string) (*models.Signal, error)
	ListSignals(ctx context.Context, params ListSignalsParams) ([]models.Signal, error)
	CountSignals(ctx context.Context, params ListSignalsParams) (int64, error)
	ListCompletedByDay(ctx context.Context, day time.Time) ([]models.Signal, error)
	CountSignalsByStatus(ctx context.Context) (map[models.SignalStatus]int64, error)
	DeleteSignalsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Strategies
	UpsertStrategy(ctx context.Context, item *models.Strategy) error
	ListStrategies(ctx context.Context) ([]models.Strategy, error)

	// Daily rankings
	ReplaceDailyRankings(ctx context.Context, day time.Time, items []models.DailyRanking) error
	ListDailyRankings(ctx context.Context, day time.Time) ([]models.DailyRanking, error)
}

type ListSignalsParams struct {
	Limit   int
	Offset  int
	Status  *models.SignalStatus
	Channel *string
	Ticker  *string
	Since   *time.Time
	Until   *time.Time
	OrderBy string
	Asc     *bool
}
