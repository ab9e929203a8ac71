package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"jewel-erp/internal/repository"
)

const maxChartDays = 366

type DashboardService interface {
	GetCollections(ctx context.Context, days int) ([]repository.DailyCollection, error)
	GetDashboardStats(ctx context.Context) (*repository.SalesStats, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo repository.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo, now: time.Now}
}

// GetCollections returns one point per day for the last days days, today
// included. Days without payments are reported as zero.
func (s *dashboardService) GetCollections(ctx context.Context, days int) ([]repository.DailyCollection, error) {
	if days <= 0 {
		days = 7
	}
	if days > maxChartDays {
		days = maxChartDays
	}
	y, m, d := s.now().Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(days - 1))

	points, err := s.repo.GetDailyCollections(ctx, start, end)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]repository.DailyCollection, len(points))
	for _, p := range points {
		byDate[p.Date] = p
	}

	series := make([]repository.DailyCollection, 0, days)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		p, ok := byDate[key]
		if !ok {
			p = repository.DailyCollection{Date: key, Collected: decimal.Zero}
		}
		series = append(series, p)
	}
	return series, nil
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.SalesStats, error) {
	return s.repo.GetSalesStats(ctx)
}
