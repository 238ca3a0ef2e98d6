package repository

import (
	"context"
	"errors"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrLoteNoCancelado is returned by DeleteCanceladas when a selected sale is
// not (or no longer) Cancelada. Nothing is deleted.
var ErrLoteNoCancelado = errors.New("lote contiene ventas no canceladas")

// VentaQuery is the parsed form of dto.VentaFilter.
type VentaQuery struct {
	Estado     string
	ProductoID *uuid.UUID
	ClienteID  *uuid.UUID
	Desde      *time.Time
	Hasta      *time.Time // exclusive
	Page       int
	Limit      int // 0 = no limit
}

type VentaProductoRepository interface {
	Create(ctx context.Context, v *model.VentaProducto) error
	FindByID(ctx context.Context, gymID, id uuid.UUID) (*model.VentaProducto, error)
	FindByIDs(ctx context.Context, gymID uuid.UUID, ids []uuid.UUID) ([]model.VentaProducto, error)
	ExisteCodigo(ctx context.Context, codigo string) (bool, error)
	List(ctx context.Context, gymID uuid.UUID, q VentaQuery) ([]model.VentaProducto, int64, error)
	Resumen(ctx context.Context, gymID uuid.UUID, q VentaQuery) (dto.VentaResumen, error)

	// MarcarCancelada flips Exitosa to Cancelada. false means the sale was
	// already cancelled (or absent) and nothing changed.
	MarcarCancelada(ctx context.Context, gymID, id uuid.UUID, motivo *string, por model.RefUsuario, en time.Time) (bool, error)
	// Reabrir undoes MarcarCancelada and puts back the last updater seen
	// before it (nil when the sale was never updated).
	Reabrir(ctx context.Context, gymID, id uuid.UUID, actualizadoPor *model.RefUsuario) error
	// DeleteCancelada removes a Cancelada sale; false when it was not Cancelada.
	DeleteCancelada(ctx context.Context, gymID, id uuid.UUID) (bool, error)
	// DeleteCanceladas removes all ids or none.
	DeleteCanceladas(ctx context.Context, gymID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type ventaProductoRepo struct{ db *gorm.DB }

func NewVentaProductoRepository(db *gorm.DB) VentaProductoRepository {
	return &ventaProductoRepo{db: db}
}

func (r *ventaProductoRepo) Create(ctx context.Context, v *model.VentaProducto) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ventaProductoRepo) FindByID(ctx context.Context, gymID, id uuid.UUID) (*model.VentaProducto, error) {
	var v model.VentaProducto
	err := r.db.WithContext(ctx).Where("id = ? AND gym_id = ?", id, gymID).First(&v).Error
	return &v, err
}

func (r *ventaProductoRepo) FindByIDs(ctx context.Context, gymID uuid.UUID, ids []uuid.UUID) ([]model.VentaProducto, error) {
	var out []model.VentaProducto
	err := r.db.WithContext(ctx).Where("gym_id = ? AND id IN ?", gymID, ids).Find(&out).Error
	return out, err
}

func (r *ventaProductoRepo) ExisteCodigo(ctx context.Context, codigo string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.VentaProducto{}).Where("codigo_venta = ?", codigo).Count(&n).Error
	return n > 0, err
}

func (r *ventaProductoRepo) filtrar(ctx context.Context, gymID uuid.UUID, f VentaQuery) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.VentaProducto{}).Where("gym_id = ?", gymID)
	if f.Estado != "" {
		q = q.Where("estado_venta = ?", f.Estado)
	}
	if f.ProductoID != nil {
		q = q.Where("producto_id = ?", *f.ProductoID)
	}
	if f.ClienteID != nil {
		q = q.Where("cliente_id = ?", *f.ClienteID)
	}
	if f.Desde != nil {
		q = q.Where("fecha_venta >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha_venta < ?", *f.Hasta)
	}
	return q
}

func (r *ventaProductoRepo) List(ctx context.Context, gymID uuid.UUID, f VentaQuery) ([]model.VentaProducto, int64, error) {
	q := r.filtrar(ctx, gymID, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q = q.Order("fecha_venta DESC")
	if f.Limit > 0 {
		q = paginar(q, f.Page, f.Limit)
	}
	var ventas []model.VentaProducto
	err := q.Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaProductoRepo) Resumen(ctx context.Context, gymID uuid.UUID, f VentaQuery) (dto.VentaResumen, error) {
	var row struct {
		Total    int64
		Unidades int64
		Ingresos decimal.NullDecimal
	}
	err := r.filtrar(ctx, gymID, f).
		Where("estado_venta = ?", model.VentaExitosa).
		Select("COUNT(*) AS total, COALESCE(SUM(cantidad_vendida), 0) AS unidades, SUM(total_venta) AS ingresos").
		Scan(&row).Error
	if err != nil {
		return dto.VentaResumen{}, err
	}
	return dto.VentaResumen{
		TotalVentas:      row.Total,
		UnidadesVendidas: row.Unidades,
		Ingresos:         row.Ingresos.Decimal,
	}, nil
}

func (r *ventaProductoRepo) MarcarCancelada(ctx context.Context, gymID, id uuid.UUID, motivo *string, por model.RefUsuario, en time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.VentaProducto{}).
		Where("id = ? AND gym_id = ? AND estado_venta <> ?", id, gymID, model.VentaCancelada).
		Updates(map[string]interface{}{
			"estado_venta":         model.VentaCancelada,
			"motivo_cancelacion":   motivo,
			"cancelada_por_id":     por.ID,
			"cancelada_por_tipo":   por.Tipo,
			"cancelada_en":         en,
			"actualizado_por_id":   por.ID,
			"actualizado_por_tipo": por.Tipo,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *ventaProductoRepo) Reabrir(ctx context.Context, gymID, id uuid.UUID, actualizadoPor *model.RefUsuario) error {
	campos := map[string]interface{}{
		"estado_venta":         model.VentaExitosa,
		"motivo_cancelacion":   nil,
		"cancelada_por_id":     nil,
		"cancelada_por_tipo":   nil,
		"cancelada_en":         nil,
		"actualizado_por_id":   nil,
		"actualizado_por_tipo": nil,
	}
	if actualizadoPor != nil {
		campos["actualizado_por_id"] = actualizadoPor.ID
		campos["actualizado_por_tipo"] = actualizadoPor.Tipo
	}
	return r.db.WithContext(ctx).Model(&model.VentaProducto{}).
		Where("id = ? AND gym_id = ? AND estado_venta = ?", id, gymID, model.VentaCancelada).
		Updates(campos).Error
}

func (r *ventaProductoRepo) DeleteCancelada(ctx context.Context, gymID, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND gym_id = ? AND estado_venta = ?", id, gymID, model.VentaCancelada).
		Delete(&model.VentaProducto{})
	return res.RowsAffected == 1, res.Error
}

func (r *ventaProductoRepo) DeleteCanceladas(ctx context.Context, gymID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("gym_id = ? AND id IN ? AND estado_venta = ?", gymID, ids, model.VentaCancelada).
			Delete(&model.VentaProducto{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return ErrLoteNoCancelado
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}
