package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestLatestInvoiceNumber(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "invoice_no" FROM "sales_invoices" ORDER BY id DESC LIMIT`)).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_no"}).AddRow("RE-2026-000041"))

	got, err := NewInvoiceRepo(db).LatestInvoiceNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "RE-2026-000041", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestInvoiceNumberEmptyTable(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "invoice_no" FROM "sales_invoices"`)).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_no"}))

	got, err := NewInvoiceRepo(db).LatestInvoiceNumber(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTotalReturnedByInvoice(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(return_amount), 0) FROM "sales_returns" WHERE invoice_id = $1`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("1500.50"))

	got, err := NewReturnRepo(db).TotalReturnedByInvoice(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "1500.50", got.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalsByInvoices(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT invoice_id, COALESCE(SUM(return_amount), 0) FROM "sales_returns"`)).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_id", "coalesce"}).
			AddRow(3, "200.00").
			AddRow(9, "75.25"))

	got, err := NewReturnRepo(db).TotalsByInvoices(context.Background(), []uint{3, 4, 9})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "75.25", got[9].StringFixed(2))

	empty, err := NewReturnRepo(db).TotalsByInvoices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customers" WHERE "customers"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewCustomerRepo(db).FindByID(context.Background(), 99)
	assert.True(t, IsNotFound(err))
}

func TestGetSalesStatsDerivesOutstandingDue(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "sales_invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`GREATEST\(si\.net_amount - si\.old_gold_value - COALESCE\(r\.total, 0\) - si\.paid_amount, 0\).*` +
		`LEFT JOIN \(SELECT invoice_id, SUM\(return_amount\) AS total FROM "sales_returns"`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"sales", "due"}).AddRow("150000.00", "42000.50"))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "payment_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"collected"}).AddRow("108000.00"))

	stats, err := NewDashboardRepo(db).GetSalesStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.InvoiceCount)
	assert.Equal(t, "150000.00", stats.TotalSales.StringFixed(2))
	assert.Equal(t, "42000.50", stats.OutstandingDue.StringFixed(2))
	assert.Equal(t, "108000.00", stats.TotalCollected.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
