package gormrepository

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
	"github.com/JLORep/ProjectTrench-sub004/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Signals ----------------------------------------------------------------

func (s *Store) CreateSignal(ctx context.Context, item *models.Signal) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetSignalByID(ctx context.Context, id string) (*models.Signal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var item models.Signal
	err := s.db.WithContext(ctx).Model(&models.Signal{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSignals(ctx context.Context, params repository.ListSignalsParams) ([]models.Signal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applySignalFilters(s.db.WithContext(ctx).Model(&models.Signal{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "timestamp")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Signal
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSignals(ctx context.Context, params repository.ListSignalsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	query := applySignalFilters(s.db.WithContext(ctx).Model(&models.Signal{}), params)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applySignalFilters(query *gorm.DB, params repository.ListSignalsParams) *gorm.DB {
	if params.Status != nil && *params.Status != "" {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Channel != nil && strings.TrimSpace(*params.Channel) != "" {
		query = query.Where("channel = ?", strings.TrimSpace(*params.Channel))
	}
	if params.Ticker != nil && strings.TrimSpace(*params.Ticker) != "" {
		query = query.Where("ticker = ?", strings.ToUpper(strings.TrimSpace(*params.Ticker)))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("timestamp >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("timestamp < ?", *params.Until)
	}
	return query
}

func (s *Store) ListCompletedByDay(ctx context.Context, day time.Time) ([]models.Signal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	start := dayStart(day)
	var items []models.Signal
	err := s.db.WithContext(ctx).
		Model(&models.Signal{}).
		Where("status = ?", models.StatusCompleted).
		Where("timestamp >= ?", start).
		Where("timestamp < ?", start.Add(24*time.Hour)).
		Order("timestamp asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSignalsByStatus(ctx context.Context) (map[models.SignalStatus]int64, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var rows []struct {
		Status models.SignalStatus
		Total  int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Signal{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[models.SignalStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (s *Store) DeleteSignalsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	if cutoff.IsZero() {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.Signal{})
	return res.RowsAffected, res.Error
}

// --- Strategies -------------------------------------------------------------

func (s *Store) UpsertStrategy(ctx context.Context, item *models.Strategy) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Name) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description",
			"criteria",
			"weight",
			"success_rate",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) ListStrategies(ctx context.Context) ([]models.Strategy, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Strategy
	if err := s.db.WithContext(ctx).
		Model(&models.Strategy{}).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Daily rankings ---------------------------------------------------------

// ReplaceDailyRankings swaps the whole board for the day in one transaction,
// which is what makes a ranker rerun idempotent.
func (s *Store) ReplaceDailyRankings(ctx context.Context, day time.Time, items []models.DailyRanking) error {
	if s == nil || s.db == nil {
		return nil
	}
	key := datatypes.Date(dayStart(day))
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("day = ?", key).Delete(&models.DailyRanking{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].Day = key
		}
		return tx.Create(&items).Error
	})
}

func (s *Store) ListDailyRankings(ctx context.Context, day time.Time) ([]models.DailyRanking, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.DailyRanking
	err := s.db.WithContext(ctx).
		Model(&models.DailyRanking{}).
		Where("day = ?", datatypes.Date(dayStart(day))).
		Order("rank asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func dayStart(t time.Time) time.Time {
	ts := t.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
