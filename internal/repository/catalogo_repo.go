package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogoRepository is the CRUD surface shared by every reference table
// (paises, ciudades, monedas, remitentes, transportadoras, aduanas).
type CatalogoRepository[T any] interface {
	Create(ctx context.Context, e *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, e *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogoRepo[T any] struct {
	db       *gorm.DB
	orderBy  string
	preloads []string
}

// NewCatalogoRepository builds a repository listing rows in orderBy order
// with the given associations preloaded.
func NewCatalogoRepository[T any](db *gorm.DB, orderBy string, preloads ...string) CatalogoRepository[T] {
	return &catalogoRepo[T]{db: db, orderBy: orderBy, preloads: preloads}
}

func (r *catalogoRepo[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

func (r *catalogoRepo[T]) Create(ctx context.Context, e *T) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *catalogoRepo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var e T
	err := r.query(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *catalogoRepo[T]) List(ctx context.Context) ([]T, error) {
	var list []T
	err := r.query(ctx).Order(r.orderBy).Find(&list).Error
	return list, err
}

func (r *catalogoRepo[T]) Update(ctx context.Context, e *T) error {
	return r.db.WithContext(ctx).Omit("created_at").Save(e).Error
}

func (r *catalogoRepo[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var e T
	res := r.db.WithContext(ctx).Delete(&e, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
