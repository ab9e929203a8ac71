package repository

import (
	"context"

	"gorm.io/gorm"

	"jewel-erp/internal/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.PaymentTransaction) error
	FindByInvoice(ctx context.Context, invoiceID uint) ([]model.PaymentTransaction, error)
}

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &paymentRepo{db}
}

func (r *paymentRepo) Create(ctx context.Context, payment *model.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepo) FindByInvoice(ctx context.Context, invoiceID uint) ([]model.PaymentTransaction, error) {
	var payments []model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}
