package repository

import (
	"context"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GimnasioRepository interface {
	Create(ctx context.Context, g *model.Gimnasio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Gimnasio, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Gimnasio, error)
	Update(ctx context.Context, g *model.Gimnasio) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ContarDependencias counts every record that still points at the gym.
	ContarDependencias(ctx context.Context, id uuid.UUID) (model.DependenciasGimnasio, error)
}

type gimnasioRepo struct{ db *gorm.DB }

func NewGimnasioRepository(db *gorm.DB) GimnasioRepository { return &gimnasioRepo{db: db} }

func (r *gimnasioRepo) Create(ctx context.Context, g *model.Gimnasio) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gimnasioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Gimnasio, error) {
	var g model.Gimnasio
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	return &g, err
}

func (r *gimnasioRepo) FindByNombre(ctx context.Context, nombre string) (*model.Gimnasio, error) {
	var g model.Gimnasio
	err := r.db.WithContext(ctx).Where("LOWER(nombre) = LOWER(?)", nombre).First(&g).Error
	return &g, err
}

func (r *gimnasioRepo) Update(ctx context.Context, g *model.Gimnasio) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *gimnasioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Gimnasio{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gimnasioRepo) ContarDependencias(ctx context.Context, id uuid.UUID) (model.DependenciasGimnasio, error) {
	var d model.DependenciasGimnasio
	counts := []struct {
		modelo interface{}
		dest   *int64
	}{
		{&model.Colaborador{}, &d.Colaboradores},
		{&model.Cliente{}, &d.Clientes},
		{&model.Membresia{}, &d.Membresias},
		{&model.Producto{}, &d.Productos},
		{&model.VentaProducto{}, &d.Ventas},
		{&model.Proveedor{}, &d.Proveedores},
	}
	db := r.db.WithContext(ctx)
	for _, c := range counts {
		if err := db.Model(c.modelo).Where("gym_id = ?", id).Count(c.dest).Error; err != nil {
			return d, err
		}
	}
	return d, nil
}
