package repository

import (
	"context"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventoCalendarioRepository interface {
	Create(ctx context.Context, e *model.EventoCalendario) error
	FindByID(ctx context.Context, owner model.RefUsuario, id uuid.UUID) (*model.EventoCalendario, error)
	List(ctx context.Context, owner model.RefUsuario, filter dto.EventoFilter) ([]model.EventoCalendario, int64, error)
	// ListRango returns events with desde <= event_date <= hasta, ordered by date and start time.
	ListRango(ctx context.Context, owner model.RefUsuario, desde, hasta time.Time) ([]model.EventoCalendario, error)
	Update(ctx context.Context, e *model.EventoCalendario) error
	Delete(ctx context.Context, owner model.RefUsuario, id uuid.UUID) error
	ContarPorCategoria(ctx context.Context, owner model.RefUsuario) (map[string]int64, error)
}

type eventoCalendarioRepo struct{ db *gorm.DB }

func NewEventoCalendarioRepository(db *gorm.DB) EventoCalendarioRepository {
	return &eventoCalendarioRepo{db: db}
}

func (r *eventoCalendarioRepo) deUsuario(ctx context.Context, owner model.RefUsuario) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.EventoCalendario{}).
		Where("usuario_id = ? AND usuario_tipo = ?", owner.ID, owner.Tipo)
}

func (r *eventoCalendarioRepo) Create(ctx context.Context, e *model.EventoCalendario) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *eventoCalendarioRepo) FindByID(ctx context.Context, owner model.RefUsuario, id uuid.UUID) (*model.EventoCalendario, error) {
	var e model.EventoCalendario
	err := r.deUsuario(ctx, owner).Where("id = ?", id).First(&e).Error
	return &e, err
}

func (r *eventoCalendarioRepo) List(ctx context.Context, owner model.RefUsuario, filter dto.EventoFilter) ([]model.EventoCalendario, int64, error) {
	q := r.deUsuario(ctx, owner)
	if filter.Category != "" {
		q = q.Where("categoria = ?", filter.Category)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var eventos []model.EventoCalendario
	err := paginar(q.Order("fecha_evento ASC, hora_inicio ASC"), filter.Page, filter.Limit).Find(&eventos).Error
	return eventos, total, err
}

func (r *eventoCalendarioRepo) ListRango(ctx context.Context, owner model.RefUsuario, desde, hasta time.Time) ([]model.EventoCalendario, error) {
	var eventos []model.EventoCalendario
	err := r.deUsuario(ctx, owner).
		Where("fecha_evento >= ? AND fecha_evento <= ?", desde, hasta).
		Order("fecha_evento ASC, hora_inicio ASC").
		Find(&eventos).Error
	return eventos, err
}

func (r *eventoCalendarioRepo) Update(ctx context.Context, e *model.EventoCalendario) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *eventoCalendarioRepo) Delete(ctx context.Context, owner model.RefUsuario, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND usuario_id = ? AND usuario_tipo = ?", id, owner.ID, owner.Tipo).
		Delete(&model.EventoCalendario{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventoCalendarioRepo) ContarPorCategoria(ctx context.Context, owner model.RefUsuario) (map[string]int64, error) {
	var rows []struct {
		Categoria string
		Total     int64
	}
	err := r.deUsuario(ctx, owner).
		Select("categoria, COUNT(*) AS total").
		Group("categoria").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Categoria] = row.Total
	}
	return out, nil
}
