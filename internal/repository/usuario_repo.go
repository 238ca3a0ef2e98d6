package repository

import (
	"context"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRepository stores Administrador accounts.
type AdminRepository interface {
	Create(ctx context.Context, a *model.Administrador) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Administrador, error)
	FindByEmail(ctx context.Context, email string) (*model.Administrador, error)
	ListByGym(ctx context.Context, gymID uuid.UUID) ([]model.Administrador, error)
	// AsignarGym sets or clears (gymID == nil) the admin's gym.
	AsignarGym(ctx context.Context, adminID uuid.UUID, gymID *uuid.UUID) error
	// DesvincularGym clears gym_id on every admin that points at gymID.
	DesvincularGym(ctx context.Context, gymID uuid.UUID) error
}

type adminRepo struct{ db *gorm.DB }

func NewAdminRepository(db *gorm.DB) AdminRepository { return &adminRepo{db: db} }

func (r *adminRepo) Create(ctx context.Context, a *model.Administrador) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *adminRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Administrador, error) {
	var a model.Administrador
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *adminRepo) FindByEmail(ctx context.Context, email string) (*model.Administrador, error) {
	var a model.Administrador
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&a).Error
	return &a, err
}

func (r *adminRepo) ListByGym(ctx context.Context, gymID uuid.UUID) ([]model.Administrador, error) {
	var out []model.Administrador
	err := r.db.WithContext(ctx).Where("gym_id = ?", gymID).Find(&out).Error
	return out, err
}

func (r *adminRepo) AsignarGym(ctx context.Context, adminID uuid.UUID, gymID *uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Administrador{}).
		Where("id = ?", adminID).
		Update("gym_id", gymID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *adminRepo) DesvincularGym(ctx context.Context, gymID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Administrador{}).
		Where("gym_id = ?", gymID).
		Update("gym_id", nil).Error
}

// ColaboradorRepository stores Colaborador accounts.
type ColaboradorRepository interface {
	Create(ctx context.Context, c *model.Colaborador) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Colaborador, error)
	FindByEmail(ctx context.Context, email string) (*model.Colaborador, error)
	FindByUsername(ctx context.Context, username string) (*model.Colaborador, error)
	ListByGym(ctx context.Context, gymID uuid.UUID) ([]model.Colaborador, error)
	Update(ctx context.Context, c *model.Colaborador) error
	Delete(ctx context.Context, gymID, id uuid.UUID) error
	DesvincularGym(ctx context.Context, gymID uuid.UUID) error
}

type colaboradorRepo struct{ db *gorm.DB }

func NewColaboradorRepository(db *gorm.DB) ColaboradorRepository { return &colaboradorRepo{db: db} }

func (r *colaboradorRepo) Create(ctx context.Context, c *model.Colaborador) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *colaboradorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Colaborador, error) {
	var c model.Colaborador
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *colaboradorRepo) FindByEmail(ctx context.Context, email string) (*model.Colaborador, error) {
	var c model.Colaborador
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&c).Error
	return &c, err
}

func (r *colaboradorRepo) FindByUsername(ctx context.Context, username string) (*model.Colaborador, error) {
	var c model.Colaborador
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&c).Error
	return &c, err
}

func (r *colaboradorRepo) ListByGym(ctx context.Context, gymID uuid.UUID) ([]model.Colaborador, error) {
	var out []model.Colaborador
	err := r.db.WithContext(ctx).Where("gym_id = ?", gymID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *colaboradorRepo) Update(ctx context.Context, c *model.Colaborador) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *colaboradorRepo) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND gym_id = ?", id, gymID).Delete(&model.Colaborador{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *colaboradorRepo) DesvincularGym(ctx context.Context, gymID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Colaborador{}).
		Where("gym_id = ?", gymID).
		Update("gym_id", nil).Error
}
