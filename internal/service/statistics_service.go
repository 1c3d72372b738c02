package service

import (
	"context"
	"math"
	"time"

	"okane/internal/model"
	"okane/internal/repository"
)

type statisticsStore interface {
	ExpenseTotalsByCategory(ctx context.Context, userID string, from time.Time, to time.Time) ([]model.CategoryStat, error)
	DailyTotals(ctx context.Context, userID string, from time.Time, to time.Time) ([]repository.DailyTotal, error)
}

type StatisticsService struct {
	stats statisticsStore
}

func NewStatisticsService(stats statisticsStore) *StatisticsService {
	return &StatisticsService{stats: stats}
}

// ByCategories returns expense totals per category over the range, with each
// category's share of the overall spend.
func (s *StatisticsService) ByCategories(ctx context.Context, userID string, from time.Time, to time.Time) ([]model.CategoryStat, error) {
	stats, err := s.stats.ExpenseTotalsByCategory(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, stat := range stats {
		total += stat.TotalAmount
	}

	for i := range stats {
		if total > 0 {
			stats[i].Percentage = math.Round(stats[i].TotalAmount/total*1000) / 10
		}
	}

	return stats, nil
}

// History returns a day-by-day income/expense series covering every day in
// the range, zero-filled where no transactions exist.
func (s *StatisticsService) History(ctx context.Context, userID string, from time.Time, to time.Time) ([]model.DailyStat, error) {
	totals, err := s.stats.DailyTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	byDay := map[string]*model.DailyStat{}
	order := make([]string, 0)

	for day := dateOnly(from); !day.After(dateOnly(to)); day = day.AddDate(0, 0, 1) {
		key := day.Format(time.DateOnly)
		byDay[key] = &model.DailyStat{Date: key}
		order = append(order, key)
	}

	for _, dt := range totals {
		stat, ok := byDay[dt.Day.UTC().Format(time.DateOnly)]
		if !ok {
			continue
		}
		switch dt.Type {
		case model.TransactionIncome:
			stat.Income = dt.Total
		case model.TransactionExpense:
			stat.Expense = dt.Total
		}
	}

	out := make([]model.DailyStat, 0, len(order))
	for _, key := range order {
		out = append(out, *byDay[key])
	}
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
