package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jewel-erp/internal/model"
)

type ReturnRepository interface {
	CreateReturn(ctx context.Context, ret *model.SalesReturn) error
	FindReturns(ctx context.Context, invoiceID uint) ([]model.SalesReturn, error)
	CountByInvoice(ctx context.Context, invoiceID uint) (int64, error)
	TotalReturnedByInvoice(ctx context.Context, invoiceID uint) (decimal.Decimal, error)
	TotalsByInvoices(ctx context.Context, invoiceIDs []uint) (map[uint]decimal.Decimal, error)
	CreateExchange(ctx context.Context, ex *model.SalesExchange) error
	FindExchanges(ctx context.Context) ([]model.SalesExchange, error)
	// ItemSettled reports whether a line was already returned or exchanged.
	ItemSettled(ctx context.Context, itemID uint) (bool, error)
}

type returnRepo struct {
	db *gorm.DB
}

func NewReturnRepo(db *gorm.DB) ReturnRepository {
	return &returnRepo{db}
}

func (r *returnRepo) CreateReturn(ctx context.Context, ret *model.SalesReturn) error {
	return r.db.WithContext(ctx).Omit("Invoice", "SalesItem").Create(ret).Error
}

// FindReturns lists returns of one invoice, or all returns when invoiceID is 0.
func (r *returnRepo) FindReturns(ctx context.Context, invoiceID uint) ([]model.SalesReturn, error) {
	q := r.db.WithContext(ctx).Preload("SalesItem").Preload("Invoice")
	if invoiceID != 0 {
		q = q.Where("invoice_id = ?", invoiceID)
	}
	var returns []model.SalesReturn
	err := q.Order("id DESC").Find(&returns).Error
	return returns, err
}

func (r *returnRepo) CountByInvoice(ctx context.Context, invoiceID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SalesReturn{}).Where("invoice_id = ?", invoiceID).Count(&count).Error
	return count, err
}

func (r *returnRepo) TotalReturnedByInvoice(ctx context.Context, invoiceID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&model.SalesReturn{}).
		Select("COALESCE(SUM(return_amount), 0)").
		Where("invoice_id = ?", invoiceID).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// TotalsByInvoices sums returns for many invoices in one query. Invoices
// without returns are absent from the map.
func (r *returnRepo) TotalsByInvoices(ctx context.Context, invoiceIDs []uint) (map[uint]decimal.Decimal, error) {
	totals := make(map[uint]decimal.Decimal, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return totals, nil
	}

	rows, err := r.db.WithContext(ctx).
		Model(&model.SalesReturn{}).
		Select("invoice_id, COALESCE(SUM(return_amount), 0)").
		Where("invoice_id IN ?", invoiceIDs).
		Group("invoice_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uint
		var total decimal.Decimal
		if err := rows.Scan(&id, &total); err != nil {
			return nil, err
		}
		totals[id] = total
	}
	return totals, rows.Err()
}

func (r *returnRepo) CreateExchange(ctx context.Context, ex *model.SalesExchange) error {
	return r.db.WithContext(ctx).Omit("ReturnedItem", "OriginalInvoice", "Customer", "NewItem").Create(ex).Error
}

func (r *returnRepo) FindExchanges(ctx context.Context) ([]model.SalesExchange, error) {
	var exchanges []model.SalesExchange
	err := r.db.WithContext(ctx).
		Preload("ReturnedItem").
		Preload("NewItem").
		Preload("OriginalInvoice").
		Preload("Customer").
		Order("exchange_date DESC, id DESC").
		Find(&exchanges).Error
	return exchanges, err
}

func (r *returnRepo) ItemSettled(ctx context.Context, itemID uint) (bool, error) {
	var returns, exchanges int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.SalesReturn{}).Where("sales_item_id = ?", itemID).Count(&returns).Error; err != nil {
		return false, err
	}
	if err := db.Model(&model.SalesExchange{}).Where("return_item_id = ?", itemID).Count(&exchanges).Error; err != nil {
		return false, err
	}
	return returns+exchanges > 0, nil
}
