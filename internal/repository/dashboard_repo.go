package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jewel-erp/internal/billing"
	"jewel-erp/internal/model"
)

type DashboardRepository interface {
	GetSalesStats(ctx context.Context) (*SalesStats, error)
	GetDailyCollections(ctx context.Context, start, end time.Time) ([]DailyCollection, error)
}

type SalesStats struct {
	InvoiceCount   int64           `json:"invoice_count"`
	CustomerCount  int64           `json:"customer_count"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	OutstandingDue decimal.Decimal `json:"outstanding_due"`
	TotalCollected decimal.Decimal `json:"total_collected"`
}

// DailyCollection is one point of the collections chart.
type DailyCollection struct {
	Date      string          `json:"date"`
	Collected decimal.Decimal `json:"collected"`
	Payments  int64           `json:"payments"`
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

// GetSalesStats totals non-cancelled invoices. Outstanding due is derived
// per invoice as max(0, net - old gold - returned - paid).
func (r *dashboardRepo) GetSalesStats(ctx context.Context) (*SalesStats, error) {
	var stats SalesStats
	db := r.db.WithContext(ctx)

	active := db.Model(&model.SalesInvoice{}).Where("status <> ?", billing.StatusCancelled)
	if err := active.Count(&stats.InvoiceCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Customer{}).Count(&stats.CustomerCount).Error; err != nil {
		return nil, err
	}

	returned := db.Model(&model.SalesReturn{}).
		Select("invoice_id, SUM(return_amount) AS total").
		Group("invoice_id")
	row := db.Table("sales_invoices AS si").
		Select("COALESCE(SUM(si.net_amount), 0), " +
			"COALESCE(SUM(GREATEST(si.net_amount - si.old_gold_value - COALESCE(r.total, 0) - si.paid_amount, 0)), 0)").
		Joins("LEFT JOIN (?) AS r ON r.invoice_id = si.id", returned).
		Where("si.status <> ? AND si.deleted_at IS NULL", billing.StatusCancelled).
		Row()
	if err := row.Scan(&stats.TotalSales, &stats.OutstandingDue); err != nil {
		return nil, err
	}

	row = db.Model(&model.PaymentTransaction{}).Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&stats.TotalCollected); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *dashboardRepo) GetDailyCollections(ctx context.Context, start, end time.Time) ([]DailyCollection, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&model.PaymentTransaction{}).
		Select(`
			TO_CHAR(payment_date, 'YYYY-MM-DD') as date,
			COALESCE(SUM(amount), 0) as collected,
			COUNT(*) as payments
		`).
		Where("payment_date BETWEEN ? AND ?", start, end).
		Group("payment_date").
		Order("payment_date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailyCollection
	for rows.Next() {
		var point DailyCollection
		if err := rows.Scan(&point.Date, &point.Collected, &point.Payments); err != nil {
			return nil, err
		}
		results = append(results, point)
	}
	return results, rows.Err()
}
