package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that take part in invoice settlement so a
// service can run them inside one transaction.
type Store interface {
	Customers() CustomerRepository
	Invoices() InvoiceRepository
	Payments() PaymentRepository
	Returns() ReturnRepository
	Audit() AuditRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Customers() CustomerRepository { return NewCustomerRepo(s.db) }
func (s *gormStore) Invoices() InvoiceRepository   { return NewInvoiceRepo(s.db) }
func (s *gormStore) Payments() PaymentRepository   { return NewPaymentRepo(s.db) }
func (s *gormStore) Returns() ReturnRepository     { return NewReturnRepo(s.db) }
func (s *gormStore) Audit() AuditRepository        { return NewAuditRepo(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
