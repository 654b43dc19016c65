package repository

import (
	"context"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CRTRepository interface {
	Create(ctx context.Context, c *model.CRT) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CRT, error)
	FindByNumero(ctx context.Context, numero string) (*model.CRT, error)
	List(ctx context.Context, filter dto.CRTFilter) ([]model.CRT, int64, error)
	// Update saves the header and replaces every gasto in one transaction.
	Update(ctx context.Context, c *model.CRT) error
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// MaxNumero returns the highest numero_crt of a carrier matching the
	// LIKE pattern, or "" when there is none.
	MaxNumero(ctx context.Context, transportadoraID uuid.UUID, pattern string) (string, error)
}

type crtRepo struct{ db *gorm.DB }

func NewCRTRepository(db *gorm.DB) CRTRepository { return &crtRepo{db: db} }

func (r *crtRepo) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Remitente.Ciudad.Pais").
		Preload("Destinatario.Ciudad.Pais").
		Preload("Consignatario.Ciudad.Pais").
		Preload("NotificarA.Ciudad.Pais").
		Preload("Transportadora.Ciudad.Pais").
		Preload("CiudadEmision.Pais").
		Preload("PaisEmision").
		Preload("Moneda").
		Preload("Gastos", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") })
}

func (r *crtRepo) Create(ctx context.Context, c *model.CRT) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *crtRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CRT, error) {
	var c model.CRT
	err := r.withRelations(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *crtRepo) FindByNumero(ctx context.Context, numero string) (*model.CRT, error) {
	var c model.CRT
	err := r.withRelations(ctx).Where("numero_crt = ?", numero).First(&c).Error
	return &c, err
}

func (r *crtRepo) List(ctx context.Context, filter dto.CRTFilter) ([]model.CRT, int64, error) {
	var crts []model.CRT
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.CRT{})
	if filter.Estado != "" {
		q = q.Where("crts.estado = ?", filter.Estado)
	}
	if filter.Q != "" {
		like := "%" + filter.Q + "%"
		q = q.Joins("LEFT JOIN remitentes r ON r.id = crts.remitente_id").
			Where("crts.numero_crt ILIKE ? OR r.nombre ILIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Remitente").Preload("Destinatario").Preload("Transportadora").Preload("Moneda").
		Preload("Gastos", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Order("crts.created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&crts).Error
	return crts, total, err
}

func (r *crtRepo) Update(ctx context.Context, c *model.CRT) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("crt_id = ?", c.ID).Delete(&model.CRTGasto{}).Error; err != nil {
			return err
		}
		for i := range c.Gastos {
			c.Gastos[i].ID = uuid.Nil
			c.Gastos[i].CRTID = c.ID
			c.Gastos[i].Posicion = i
		}
		if len(c.Gastos) > 0 {
			if err := tx.Create(&c.Gastos).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clauseAssociations...).Save(c).Error
	})
}

// clauseAssociations keeps Save from upserting the preloaded relations.
var clauseAssociations = []string{
	"Remitente", "Destinatario", "Consignatario", "NotificarA",
	"Transportadora", "CiudadEmision", "PaisEmision", "Moneda", "Gastos",
}

func (r *crtRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.CRT{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *crtRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("crt_id = ?", id).Delete(&model.CRTGasto{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.CRT{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *crtRepo) MaxNumero(ctx context.Context, transportadoraID uuid.UUID, pattern string) (string, error) {
	var numero string
	err := r.db.WithContext(ctx).Model(&model.CRT{}).
		Select("COALESCE(MAX(numero_crt), '')").
		Where("transportadora_id = ? AND numero_crt LIKE ?", transportadoraID, pattern).
		Scan(&numero).Error
	return numero, err
}
