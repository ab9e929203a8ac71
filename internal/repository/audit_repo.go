package repository

import (
	"context"

	"gorm.io/gorm"

	"jewel-erp/internal/model"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *model.SaleAuditLog) error
	FindByInvoice(ctx context.Context, invoiceID uint) ([]model.SaleAuditLog, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

func (r *auditRepo) Create(ctx context.Context, entry *model.SaleAuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) FindByInvoice(ctx context.Context, invoiceID uint) ([]model.SaleAuditLog, error) {
	var entries []model.SaleAuditLog
	err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Order("id ASC").Find(&entries).Error
	return entries, err
}
