package ranker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
	"github.com/JLORep/ProjectTrench-sub004/internal/repository"
)

// stubRepo is an in-memory repository.Repository for ranker tests.
type stubRepo struct {
	mu           sync.Mutex
	signals      map[string]models.Signal
	rankings     map[string][]models.DailyRanking
	strategies   map[string]models.Strategy
	replaceErr   error
	replaceCalls int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		signals:    map[string]models.Signal{},
		rankings:   map[string][]models.DailyRanking{},
		strategies: map[string]models.Strategy{},
	}
}

func dayKey(t time.Time) string {
	return dayStart(t).Format("2006-01-02")
}

func (r *stubRepo) CreateSignal(ctx context.Context, item *models.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals[item.ID] = *item
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
	for _, sig := range r.signals {
		if params.Status != nil && sig.Status != *params.Status {
			continue
		}
		items = append(items, sig)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Timestamp.After(items[j].Timestamp) })
	return items, nil
}

func (r *stubRepo) CountSignals(ctx context.Context, params repository.ListSignalsParams) (int64, error) {
	items, _ := r.ListSignals(ctx, params)
	return int64(len(items)), nil
}

func (r *stubRepo) ListCompletedByDay(ctx context.Context, day time.Time) ([]models.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := dayStart(day)
	end := start.Add(24 * time.Hour)
	var items []models.Signal
	for _, sig := range r.signals {
		if sig.Status != models.StatusCompleted {
			continue
		}
		if sig.Timestamp.Before(start) || !sig.Timestamp.Before(end) {
			continue
		}
		items = append(items, sig)
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
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, sig := range r.signals {
		if sig.Timestamp.Before(cutoff) {
			delete(r.signals, id)
			removed++
		}
	}
	return removed, nil
}

func (r *stubRepo) UpsertStrategy(ctx context.Context, item *models.Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[item.Name] = *item
	return nil
}

func (r *stubRepo) ListStrategies(ctx context.Context) ([]models.Strategy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []models.Strategy
	for _, s := range r.strategies {
		items = append(items, s)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *stubRepo) ReplaceDailyRankings(ctx context.Context, day time.Time, items []models.DailyRanking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCalls++
	if r.replaceErr != nil {
		return r.replaceErr
	}
	board := make([]models.DailyRanking, len(items))
	copy(board, items)
	r.rankings[dayKey(day)] = board
	return nil
}

func (r *stubRepo) ListDailyRankings(ctx context.Context, day time.Time) ([]models.DailyRanking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	board := r.rankings[dayKey(day)]
	out := make([]models.DailyRanking, len(board))
	copy(out, board)
	return out, nil
}
