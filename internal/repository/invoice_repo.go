package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jewel-erp/internal/billing"
	"jewel-erp/internal/model"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.SalesInvoice) error
	Save(ctx context.Context, invoice *model.SalesInvoice) error
	ReplaceItems(ctx context.Context, invoiceID uint, items []model.SalesItem) error
	FindByID(ctx context.Context, id uint) (*model.SalesInvoice, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.SalesInvoice, error)
	FindAll(ctx context.Context) ([]model.SalesInvoice, error)
	Search(ctx context.Context, term string, status billing.Status) ([]model.SalesInvoice, error)
	FindByDateRange(ctx context.Context, start, end time.Time, statuses []billing.Status) ([]model.SalesInvoice, error)
	LatestInvoiceNumber(ctx context.Context) (string, error)
	FindItem(ctx context.Context, itemID uint) (*model.SalesItem, error)
	FindItems(ctx context.Context, invoiceID uint) ([]model.SalesItem, error)
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("sales_items.id ASC")
}

// Create inserts the invoice together with its items.
func (r *invoiceRepo) Create(ctx context.Context, invoice *model.SalesInvoice) error {
	return r.db.WithContext(ctx).Omit("Customer", "Payments").Create(invoice).Error
}

// Save writes the invoice row only; items and payments have their own paths.
func (r *invoiceRepo) Save(ctx context.Context, invoice *model.SalesInvoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(invoice).Error
}

func (r *invoiceRepo) ReplaceItems(ctx context.Context, invoiceID uint, items []model.SalesItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("invoice_id = ?", invoiceID).Delete(&model.SalesItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].InvoiceID = invoiceID
	}
	return db.Create(&items).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uint) (*model.SalesInvoice, error) {
	var invoice model.SalesInvoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", orderedItems).
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForUpdate locks the invoice row until the surrounding transaction ends.
func (r *invoiceRepo) FindByIDForUpdate(ctx context.Context, id uint) (*model.SalesInvoice, error) {
	var invoice model.SalesInvoice
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Customer").
		Preload("Items", orderedItems).
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) FindAll(ctx context.Context) ([]model.SalesInvoice, error) {
	var invoices []model.SalesInvoice
	err := r.db.WithContext(ctx).Preload("Customer").Order("id DESC").Find(&invoices).Error
	return invoices, err
}

// Search matches the invoice number, customer name or customer mobile,
// optionally narrowed to one status.
func (r *invoiceRepo) Search(ctx context.Context, term string, status billing.Status) ([]model.SalesInvoice, error) {
	q := r.db.WithContext(ctx).
		Preload("Customer").
		Joins("LEFT JOIN customers ON customers.id = sales_invoices.customer_id")

	if term != "" {
		like := "%" + term + "%"
		q = q.Where("(sales_invoices.invoice_no ILIKE ? OR customers.name ILIKE ? OR customers.mobile ILIKE ?)", like, like, like)
	}
	if status != "" {
		q = q.Where("sales_invoices.status = ?", status)
	}

	var invoices []model.SalesInvoice
	err := q.Order("sales_invoices.id DESC").Find(&invoices).Error
	return invoices, err
}

// FindByDateRange returns invoices dated within [start, end]. An empty
// status list matches every status.
func (r *invoiceRepo) FindByDateRange(ctx context.Context, start, end time.Time, statuses []billing.Status) ([]model.SalesInvoice, error) {
	q := r.db.WithContext(ctx).
		Preload("Customer").
		Where("invoice_date BETWEEN ? AND ?", start, end)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var invoices []model.SalesInvoice
	err := q.Order("invoice_date ASC, id ASC").Find(&invoices).Error
	return invoices, err
}

// LatestInvoiceNumber reads the number of the highest invoice id, soft-deleted
// rows included so their numbers are never issued again.
func (r *invoiceRepo) LatestInvoiceNumber(ctx context.Context) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&model.SalesInvoice{}).
		Order("id DESC").
		Limit(1).
		Pluck("invoice_no", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

func (r *invoiceRepo) FindItem(ctx context.Context, itemID uint) (*model.SalesItem, error) {
	var item model.SalesItem
	if err := r.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *invoiceRepo) FindItems(ctx context.Context, invoiceID uint) ([]model.SalesItem, error) {
	var items []model.SalesItem
	err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Order("id ASC").Find(&items).Error
	return items, err
}

// IsNotFound reports whether err came from a lookup that matched no row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
