package ranker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
	"github.com/JLORep/ProjectTrench-sub004/internal/repository"
)

// Ranker builds the daily top-N runner board from completed signals.
type Ranker struct {
	Repo   repository.Repository
	Logger *zap.Logger

	// TopN is the board size, MinConfidence the strict cut below which a
	// signal never ranks.
	TopN          int
	MinConfidence float64

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// RunForDay rebuilds the board for one UTC day and returns it in rank order.
// A rerun replaces the previous board wholesale; concurrent runs for the same
// day serialize while other days proceed independently.
func (r *Ranker) RunForDay(ctx context.Context, day time.Time) ([]models.DailyRanking, error) {
	day = dayStart(day)
	lock := r.lockFor(day)
	lock.Lock()
	defer lock.Unlock()

	signals, err := r.Repo.ListCompletedByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list ranking candidates: %w", err)
	}

	candidates := make([]models.Signal, 0, len(signals))
	for _, sig := range signals {
		if sig.ConfidenceScore > r.MinConfidence {
			candidates = append(candidates, sig)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.RunnerPotential != b.RunnerPotential {
			return a.RunnerPotential > b.RunnerPotential
		}
		if a.ConfidenceScore != b.ConfidenceScore {
			return a.ConfidenceScore > b.ConfidenceScore
		}
		return a.Timestamp.Before(b.Timestamp)
	})

	topN := r.TopN
	if topN <= 0 {
		topN = 5
	}
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	items := make([]models.DailyRanking, 0, len(candidates))
	for i, sig := range candidates {
		items = append(items, models.DailyRanking{
			Day:             datatypes.Date(day),
			Rank:            i + 1,
			SignalID:        sig.ID,
			FinalScore:      sig.RunnerPotential,
			StrategySummary: strings.Join(sig.StrategyMatches, ", "),
		})
	}

	if err := r.Repo.ReplaceDailyRankings(ctx, day, items); err != nil {
		return nil, fmt.Errorf("replace rankings for %s: %w", day.Format("2006-01-02"), err)
	}
	if r.Logger != nil {
		r.Logger.Info("daily ranking rebuilt",
			zap.String("day", day.Format("2006-01-02")),
			zap.Int("completed", len(signals)),
			zap.Int("ranked", len(items)))
	}
	return items, nil
}

// RunOnce ranks the most recently completed UTC day; the scheduler fires it
// just after midnight.
func (r *Ranker) RunOnce(ctx context.Context) error {
	_, err := r.RunForDay(ctx, time.Now().UTC().AddDate(0, 0, -1))
	return err
}

func (r *Ranker) lockFor(day time.Time) *sync.Mutex {
	key := day.Format("2006-01-02")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locks == nil {
		r.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	return lock
}

func dayStart(t time.Time) time.Time {
	ts := t.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
