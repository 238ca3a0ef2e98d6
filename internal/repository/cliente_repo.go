package repository

import (
	"context"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, gymID, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, gymID uuid.UUID, filter dto.ClienteFilter) ([]model.Cliente, int64, error)
	Update(ctx context.Context, c *model.Cliente) error
	Delete(ctx context.Context, gymID, id uuid.UUID) error

	// ExisteActivo reports whether another Activo client (id != excluir) uses email in the gym.
	ExisteActivo(ctx context.Context, gymID uuid.UUID, email string, excluir uuid.UUID) (bool, error)
	ContarPorMembresia(ctx context.Context, gymID, membresiaID uuid.UUID) (int64, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, gymID, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("id = ? AND gym_id = ?", id, gymID).First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, gymID uuid.UUID, filter dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var clientes []model.Cliente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("gym_id = ?", gymID)
	if filter.Status != "" {
		q = q.Where("estado = ?", filter.Status)
	}
	if filter.MembershipID != "" {
		q = q.Where("membresia_id = ?", filter.MembershipID)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("nombre ILIKE ? OR apellido_paterno ILIKE ? OR apellido_materno ILIKE ? OR email ILIKE ?", p, p, p, p)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q.Order("created_at DESC"), filter.Page, filter.Limit).Find(&clientes).Error
	return clientes, total, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND gym_id = ?", id, gymID).Delete(&model.Cliente{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *clienteRepo) ExisteActivo(ctx context.Context, gymID uuid.UUID, email string, excluir uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cliente{}).
		Where("gym_id = ? AND LOWER(email) = LOWER(?) AND estado = ? AND id <> ?", gymID, email, model.ClienteActivo, excluir).
		Count(&n).Error
	return n > 0, err
}

func (r *clienteRepo) ContarPorMembresia(ctx context.Context, gymID, membresiaID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cliente{}).
		Where("gym_id = ? AND membresia_id = ?", gymID, membresiaID).
		Count(&n).Error
	return n, err
}
