package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
	"github.com/JLORep/ProjectTrench-sub004/internal/repository"
)

// stubRepo is an in-memory repository.Repository. failCreates makes the
// first N signal writes fail to exercise the persistence fallback.
type stubRepo struct {
	mu          sync.Mutex
	signals     map[string]models.Signal
	order       []string
	strategies  map[string]models.Strategy
	rankings    map[string][]models.DailyRanking
	failCreates int
	createCalls int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		signals:    map[string]models.Signal{},
		strategies: map[string]models.Strategy{},
		rankings:   map[string][]models.DailyRanking{},
	}
}

func (r *stubRepo) CreateSignal(ctx context.Context, item *models.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.failCreates > 0 {
		r.failCreates--
		return errors.New("stub: create rejected")
	}
	r.signals[item.ID] = *item
	r.order = append(r.order, item.ID)
	return nil
}

func (r *stubRepo) GetSignalByID(ctx context.Context, id string) (*models.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.signals[id]; ok {
		return &item, nil
	}
	return nil, nil
}

func (r *stubRepo) ListSignals(ctx context.Context, params repository.ListSignalsParams) ([]models.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []models.Signal
	for _, id := range r.order {
		items = append(items, r.signals[id])
	}
	return items, nil
}

func (r *stubRepo) CountSignals(ctx context.Context, params repository.ListSignalsParams) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.signals)), nil
}

func (r *stubRepo) ListCompletedByDay(ctx context.Context, day time.Time) ([]models.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []models.Signal
	for _, sig := range r.signals {
		if sig.Status == models.StatusCompleted {
			items = append(items, sig)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Timestamp.Before(items[j].Timestamp) })
	return items, nil
}

func (r *stubRepo) CountSignalsByStatus(ctx context.Context) (map[models.SignalStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[models.SignalStatus]int64{}
	for _, sig := range r.signals {
		out[sig.Status]++
	}
	return out, nil
}

func (r *stubRepo) DeleteSignalsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *stubRepo) UpsertStrategy(ctx context.Context, item *models.Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[item.Name] = *item
	return nil
}

func (r *stubRepo) ListStrategies(ctx context.Context) ([]models.Strategy, error) {
	return nil, nil
}

func (r *stubRepo) ReplaceDailyRankings(ctx context.Context, day time.Time, items []models.DailyRanking) error {
	return nil
}

func (r *stubRepo) ListDailyRankings(ctx context.Context, day time.Time) ([]models.DailyRanking, error) {
	return nil, nil
}

func (r *stubRepo) stored() []models.Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]models.Signal, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, r.signals[id])
	}
	return items
}
