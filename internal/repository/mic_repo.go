package repository

import (
	"context"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MICRepository interface {
	Create(ctx context.Context, m *model.MICGuardado) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MICGuardado, error)
	List(ctx context.Context, filter dto.MICFilter) ([]model.MICGuardado, int64, error)
	Update(ctx context.Context, m *model.MICGuardado) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type micRepo struct{ db *gorm.DB }

func NewMICRepository(db *gorm.DB) MICRepository { return &micRepo{db: db} }

func (r *micRepo) Create(ctx context.Context, m *model.MICGuardado) error {
	return r.db.WithContext(ctx).Omit("CRT").Create(m).Error
}

func (r *micRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MICGuardado, error) {
	var m model.MICGuardado
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *micRepo) List(ctx context.Context, filter dto.MICFilter) ([]model.MICGuardado, int64, error) {
	var mics []model.MICGuardado
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.MICGuardado{})
	if filter.CRTID != "" {
		q = q.Where("crt_id = ?", filter.CRTID)
	}
	if filter.Estado != "" {
		q = q.Where("campo_4_estado = ?", filter.Estado)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&mics).Error
	return mics, total, err
}

func (r *micRepo) Update(ctx context.Context, m *model.MICGuardado) error {
	return r.db.WithContext(ctx).Omit("CRT").Save(m).Error
}

func (r *micRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.MICGuardado{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
