package repository

import (
	"context"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotaRepository scopes every query to the owning user.
type NotaRepository interface {
	Create(ctx context.Context, n *model.Nota) error
	FindByID(ctx context.Context, owner model.RefUsuario, id uuid.UUID) (*model.Nota, error)
	List(ctx context.Context, owner model.RefUsuario, filter dto.NotaFilter) ([]model.Nota, int64, error)
	Update(ctx context.Context, n *model.Nota) error
	Delete(ctx context.Context, owner model.RefUsuario, id uuid.UUID) error
	ContarPorCategoria(ctx context.Context, owner model.RefUsuario) (map[string]int64, error)
}

type notaRepo struct{ db *gorm.DB }

func NewNotaRepository(db *gorm.DB) NotaRepository { return &notaRepo{db: db} }

func (r *notaRepo) deUsuario(ctx context.Context, owner model.RefUsuario) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Nota{}).
		Where("usuario_id = ? AND usuario_tipo = ?", owner.ID, owner.Tipo)
}

func (r *notaRepo) Create(ctx context.Context, n *model.Nota) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notaRepo) FindByID(ctx context.Context, owner model.RefUsuario, id uuid.UUID) (*model.Nota, error) {
	var n model.Nota
	err := r.deUsuario(ctx, owner).Where("id = ?", id).First(&n).Error
	return &n, err
}

func (r *notaRepo) List(ctx context.Context, owner model.RefUsuario, filter dto.NotaFilter) ([]model.Nota, int64, error) {
	q := r.deUsuario(ctx, owner)
	if filter.Category != "" {
		q = q.Where("categoria = ?", filter.Category)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("titulo ILIKE ? OR contenido ILIKE ?", p, p)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "oldest":
		q = q.Order("created_at ASC")
	case "title":
		q = q.Order("titulo ASC")
	default:
		q = q.Order("created_at DESC")
	}
	var notas []model.Nota
	err := paginar(q, filter.Page, filter.Limit).Find(&notas).Error
	return notas, total, err
}

func (r *notaRepo) Update(ctx context.Context, n *model.Nota) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *notaRepo) Delete(ctx context.Context, owner model.RefUsuario, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND usuario_id = ? AND usuario_tipo = ?", id, owner.ID, owner.Tipo).
		Delete(&model.Nota{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notaRepo) ContarPorCategoria(ctx context.Context, owner model.RefUsuario) (map[string]int64, error) {
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
