package repository

import (
	"context"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembresiaRepository never lets callers write cantidad_usuarios or
// porcentaje_uso through Update; those move only through
// IncrementarUsuarios and ActualizarPorcentajes.
type MembresiaRepository interface {
	Create(ctx context.Context, m *model.Membresia) error
	FindByID(ctx context.Context, gymID, id uuid.UUID) (*model.Membresia, error)
	ListByGym(ctx context.Context, gymID uuid.UUID) ([]model.Membresia, error)
	Update(ctx context.Context, m *model.Membresia) error
	Delete(ctx context.Context, gymID, id uuid.UUID) error

	// IncrementarUsuarios atomically adds delta to cantidad_usuarios, floored at 0.
	IncrementarUsuarios(ctx context.Context, gymID, id uuid.UUID, delta int) error
	// ActualizarPorcentajes writes porcentaje_uso per membership id.
	ActualizarPorcentajes(ctx context.Context, gymID uuid.UUID, porcentajes map[uuid.UUID]int) error
}

type membresiaRepo struct{ db *gorm.DB }

func NewMembresiaRepository(db *gorm.DB) MembresiaRepository { return &membresiaRepo{db: db} }

func (r *membresiaRepo) Create(ctx context.Context, m *model.Membresia) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *membresiaRepo) FindByID(ctx context.Context, gymID, id uuid.UUID) (*model.Membresia, error) {
	var m model.Membresia
	err := r.db.WithContext(ctx).Where("id = ? AND gym_id = ?", id, gymID).First(&m).Error
	return &m, err
}

func (r *membresiaRepo) ListByGym(ctx context.Context, gymID uuid.UUID) ([]model.Membresia, error) {
	var out []model.Membresia
	err := r.db.WithContext(ctx).Where("gym_id = ?", gymID).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *membresiaRepo) Update(ctx context.Context, m *model.Membresia) error {
	return r.db.WithContext(ctx).Model(m).
		Where("gym_id = ?", m.GymID).
		Select("nombre", "descripcion", "precio", "duracion_dias", "periodo", "estado", "moneda", "color").
		Updates(m).Error
}

func (r *membresiaRepo) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND gym_id = ?", id, gymID).Delete(&model.Membresia{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *membresiaRepo) IncrementarUsuarios(ctx context.Context, gymID, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).Model(&model.Membresia{}).
		Where("id = ? AND gym_id = ?", id, gymID).
		Update("cantidad_usuarios", gorm.Expr("GREATEST(cantidad_usuarios + ?, 0)", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *membresiaRepo) ActualizarPorcentajes(ctx context.Context, gymID uuid.UUID, porcentajes map[uuid.UUID]int) error {
	db := r.db.WithContext(ctx)
	for id, pct := range porcentajes {
		err := db.Model(&model.Membresia{}).
			Where("id = ? AND gym_id = ?", id, gymID).
			Update("porcentaje_uso", pct).Error
		if err != nil {
			return err
		}
	}
	return nil
}
