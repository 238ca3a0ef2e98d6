package repository

import (
	"context"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, gymID, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, gymID uuid.UUID, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	Delete(ctx context.Context, gymID, id uuid.UUID) error

	// ExisteCodigoBarras ignores the product excluir (uuid.Nil to check all).
	ExisteCodigoBarras(ctx context.Context, gymID uuid.UUID, codigo string, excluir uuid.UUID) (bool, error)
	ContarPorProveedor(ctx context.Context, gymID, proveedorID uuid.UUID) (int64, error)

	// Used inside transactions; callers must pass the tx instance.
	// FindForUpdateTx locks the row until the transaction ends.
	FindForUpdateTx(ctx context.Context, tx *gorm.DB, gymID, id uuid.UUID) (*model.Producto, error)
	// GuardarStockTx persists the stock-driven columns only.
	GuardarStockTx(ctx context.Context, tx *gorm.DB, p *model.Producto) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, gymID, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("id = ? AND gym_id = ?", id, gymID).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, gymID uuid.UUID, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{}).Where("gym_id = ?", gymID)
	if filter.Category != "" {
		q = q.Where("categoria = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("estado = ?", filter.Status)
	}
	if filter.SupplierID != "" {
		q = q.Where("proveedor_id = ?", filter.SupplierID)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("nombre ILIKE ? OR codigo_barras ILIKE ?", p, p)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q.Order("nombre ASC"), filter.Page, filter.Limit).Find(&productos).Error
	return productos, total, err
}

// Update saves the descriptive columns. Quantity, status and sales belong to
// GuardarStockTx.
func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Model(p).
		Where("gym_id = ?", p.GymID).
		Select("nombre", "stock_unidad", "precio_monto", "precio_moneda", "categoria", "codigo_barras",
			"fecha_compra", "proveedor_id", "imagen_url",
			"actualizado_por_id", "actualizado_por_tipo").
		Updates(p).Error
}

func (r *productoRepo) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND gym_id = ?", id, gymID).Delete(&model.Producto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productoRepo) ExisteCodigoBarras(ctx context.Context, gymID uuid.UUID, codigo string, excluir uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("gym_id = ? AND codigo_barras = ? AND id <> ?", gymID, codigo, excluir).
		Count(&n).Error
	return n > 0, err
}

func (r *productoRepo) ContarPorProveedor(ctx context.Context, gymID, proveedorID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("gym_id = ? AND proveedor_id = ?", gymID, proveedorID).
		Count(&n).Error
	return n, err
}

func (r *productoRepo) FindForUpdateTx(ctx context.Context, tx *gorm.DB, gymID, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND gym_id = ?", id, gymID).
		First(&p).Error
	return &p, err
}

func (r *productoRepo) GuardarStockTx(ctx context.Context, tx *gorm.DB, p *model.Producto) error {
	return conn(r.db, tx).WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND gym_id = ?", p.ID, p.GymID).
		Updates(map[string]interface{}{
			"stock_cantidad":   p.Stock.Cantidad,
			"estado":           p.Estado,
			"estado_previo":    p.EstadoPrevio,
			"ventas_obtenidas": p.VentasObtenidas,
		}).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
