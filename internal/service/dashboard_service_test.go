package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewel-erp/internal/repository"
)

type stubDashboardRepo struct {
	points     []repository.DailyCollection
	start, end time.Time
}

func (s *stubDashboardRepo) GetSalesStats(context.Context) (*repository.SalesStats, error) {
	return &repository.SalesStats{InvoiceCount: 3, TotalSales: dec("150000")}, nil
}

func (s *stubDashboardRepo) GetDailyCollections(_ context.Context, start, end time.Time) ([]repository.DailyCollection, error) {
	s.start, s.end = start, end
	return s.points, nil
}

func TestGetCollectionsFillsMissingDays(t *testing.T) {
	repo := &stubDashboardRepo{points: []repository.DailyCollection{
		{Date: "2026-03-01", Collected: dec("5000"), Payments: 2},
		{Date: "2026-03-03", Collected: dec("1200.50"), Payments: 1},
	}}
	svc := NewDashboardService(repo).(*dashboardService)
	svc.now = clock

	series, err := svc.GetCollections(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, series, 4)

	assert.Equal(t, "2026-02-28", repo.start.Format(dateLayout))
	assert.Equal(t, "2026-03-03", repo.end.Format(dateLayout))

	dates := []string{"2026-02-28", "2026-03-01", "2026-03-02", "2026-03-03"}
	collected := []string{"0.00", "5000.00", "0.00", "1200.50"}
	for i := range series {
		assert.Equal(t, dates[i], series[i].Date)
		assert.Equal(t, collected[i], series[i].Collected.StringFixed(2))
	}
}

func TestGetCollectionsDefaultsToAWeek(t *testing.T) {
	svc := NewDashboardService(&stubDashboardRepo{}).(*dashboardService)
	svc.now = clock

	series, err := svc.GetCollections(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, series, 7)

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.InvoiceCount)
}
