package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportingService aggregates recorded sales for the end-of-day count.
type ReportingService interface {
	// DailySummary totals quantity and money sold on one UTC date
	// (YYYY-MM-DD). An empty date means today.
	DailySummary(ctx context.Context, date string) (*DailySummary, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) DailySummary(ctx context.Context, date string) (*DailySummary, error) {
	if date == "" {
		date = time.Now().UTC().Format(dateOnlyLayout)
	} else if _, err := time.Parse(dateOnlyLayout, date); err != nil {
		return nil, fmt.Errorf("unparsable date %q: %w", date, ErrInvalidOrderDate)
	}

	summary := &DailySummary{Date: date}
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(total), 0)
		FROM sales
		WHERE (timestamp AT TIME ZONE 'UTC')::date = $1::date
	`, date).Scan(&summary.TotalQuantity, &summary.TotalMoney)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales for %s: %w", date, err)
	}
	return summary, nil
}
