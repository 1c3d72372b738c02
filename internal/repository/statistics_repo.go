package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"okane/internal/model"
)

type StatisticsRepository struct {
	pool *pgxpool.Pool
}

func NewStatisticsRepository(pool *pgxpool.Pool) *StatisticsRepository {
	return &StatisticsRepository{pool: pool}
}

// ExpenseTotalsByCategory sums the user's expenses per visible category
// inside the date range.
func (r *StatisticsRepository) ExpenseTotalsByCategory(ctx context.Context, userID string, from time.Time, to time.Time) ([]model.CategoryStat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.user_id, c.name, COALESCE(SUM(t.amount), 0)
		 FROM categories c
		 JOIN transactions t ON t.category_id = c.id
		 WHERE t.user_id = $1
		   AND t.type = 'expense'
		   AND t.date >= $2 AND t.date <= $3
		   AND (c.user_id IS NULL OR c.user_id = $1)
		 GROUP BY c.id, c.user_id, c.name`,
		userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("expense totals by category: %w", err)
	}
	defer rows.Close()

	stats := make([]model.CategoryStat, 0)
	for rows.Next() {
		var s model.CategoryStat
		if err := rows.Scan(&s.Category.ID, &s.Category.UserID, &s.Category.Name, &s.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

type DailyTotal struct {
	Day   time.Time
	Type  string
	Total float64
}

// DailyTotals returns per-day sums split by transaction type inside the
// range. Days with no activity are absent; the service layer fills the gaps.
func (r *StatisticsRepository) DailyTotals(ctx context.Context, userID string, from time.Time, to time.Time) ([]DailyTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT date_trunc('day', t.date) AS day, t.type, SUM(t.amount)
		 FROM transactions t
		 WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
		 GROUP BY day, t.type
		 ORDER BY day`,
		userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	totals := make([]DailyTotal, 0)
	for rows.Next() {
		var dt DailyTotal
		if err := rows.Scan(&dt.Day, &dt.Type, &dt.Total); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		totals = append(totals, dt)
	}
	return totals, rows.Err()
}
