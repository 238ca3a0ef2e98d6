package repository

import (
	"context"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, gymID, id uuid.UUID) (*model.Proveedor, error)
	ExisteEmail(ctx context.Context, gymID uuid.UUID, email string, excluir uuid.UUID) (bool, error)
	List(ctx context.Context, gymID uuid.UUID, filter dto.ProveedorFilter) ([]model.Proveedor, int64, error)
	Update(ctx context.Context, p *model.Proveedor) error
	Delete(ctx context.Context, gymID, id uuid.UUID) error
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, gymID, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).Where("id = ? AND gym_id = ?", id, gymID).First(&p).Error
	return &p, err
}

func (r *proveedorRepo) ExisteEmail(ctx context.Context, gymID uuid.UUID, email string, excluir uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Proveedor{}).
		Where("gym_id = ? AND email = ? AND id <> ?", gymID, email, excluir).
		Count(&n).Error
	return n > 0, err
}

func (r *proveedorRepo) List(ctx context.Context, gymID uuid.UUID, filter dto.ProveedorFilter) ([]model.Proveedor, int64, error) {
	var proveedores []model.Proveedor
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Proveedor{}).Where("gym_id = ?", gymID)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("nombre ILIKE ? OR email ILIKE ?", p, p)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q.Order("nombre ASC"), filter.Page, filter.Limit).Find(&proveedores).Error
	return proveedores, total, err
}

func (r *proveedorRepo) Update(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *proveedorRepo) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND gym_id = ?", id, gymID).Delete(&model.Proveedor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
