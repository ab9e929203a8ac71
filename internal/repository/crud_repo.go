package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CrudRepository serves the master-data tables that need nothing beyond
// plain create, read, update and soft delete.
type CrudRepository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	First(ctx context.Context) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, id uint, entity *T) error
	Delete(ctx context.Context, id uint) error
}

type crudRepo[T any] struct {
	db       *gorm.DB
	preloads []string
}

func NewCrudRepo[T any](db *gorm.DB, preloads ...string) CrudRepository[T] {
	return &crudRepo[T]{db: db, preloads: preloads}
}

func (r *crudRepo[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

func (r *crudRepo[T]) FindAll(ctx context.Context) ([]T, error) {
	var list []T
	err := r.query(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *crudRepo[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.query(ctx).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// First returns the oldest record.
func (r *crudRepo[T]) First(ctx context.Context) (*T, error) {
	var entity T
	if err := r.query(ctx).Order("id ASC").First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *crudRepo[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
}

// Update overwrites every column of row id with entity, zero values included.
func (r *crudRepo[T]) Update(ctx context.Context, id uint, entity *T) error {
	res := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at", "created_by", "deleted_at", clause.Associations).
		Updates(entity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *crudRepo[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
