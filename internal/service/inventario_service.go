package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoSolicitado describes one stock change.
type MovimientoSolicitado struct {
	GymID      uuid.UUID
	ProductoID uuid.UUID
	// Delta is added to stock.quantity; the result may not go below 0.
	Delta int
	// Cantidad, when set, is the absolute quantity to reach. Delta is then
	// ignored and computed from the locked row.
	Cantidad *int
	// Estado, when set, is a status chosen by an administrator. It is also
	// the status a later restock brings back.
	Estado *string
	// DeltaVentas is added to sales_obtained, floored at 0.
	DeltaVentas  int
	Tipo         string
	Motivo       string
	ReferenciaID *uuid.UUID
	Actor        model.RefUsuario
}

// InventarioService is the only writer of stock.quantity and sales_obtained.
type InventarioService interface {
	// Mover applies the change as one locked read-modify-write and records a
	// MovimientoStock in the same transaction. Returns the product after the change.
	Mover(ctx context.Context, m MovimientoSolicitado) (*model.Producto, error)
	ListarMovimientos(ctx context.Context, sc tenant.Scope, productoID uuid.UUID, pag dto.Paginacion) (*dto.MovimientoStockListResponse, error)
}

type inventarioService struct {
	productos   repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
}

func NewInventarioService(productos repository.ProductoRepository, movimientos repository.MovimientoStockRepository) InventarioService {
	return &inventarioService{productos: productos, movimientos: movimientos}
}

// ErrStockInsuficiente builds the Conflict returned when a sale asks for more
// units than available.
func ErrStockInsuficiente(disponible, solicitado int) error {
	return apierror.Conflict(fmt.Sprintf("Stock insuficiente. Stock disponible: %d", disponible)).
		WithDetails(map[string]any{"available": disponible, "requested": solicitado})
}

func (s *inventarioService) Mover(ctx context.Context, m MovimientoSolicitado) (*model.Producto, error) {
	var resultado *model.Producto
	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		p, err := s.productos.FindForUpdateTx(ctx, tx, m.GymID, m.ProductoID)
		if err != nil {
			return noEncontrado(err, "Producto no encontrado")
		}

		anterior := p.Stock.Cantidad
		delta := m.Delta
		if m.Cantidad != nil {
			delta = *m.Cantidad - anterior
		}
		nuevo := anterior + delta
		if nuevo < 0 {
			return ErrStockInsuficiente(anterior, -delta)
		}

		if m.Estado != nil {
			p.Estado, p.EstadoPrevio = *m.Estado, *m.Estado
		}
		p.AplicarCantidad(nuevo)
		p.VentasObtenidas += m.DeltaVentas
		if p.VentasObtenidas < 0 {
			p.VentasObtenidas = 0
		}
		if err := s.productos.GuardarStockTx(ctx, tx, p); err != nil {
			return err
		}
		resultado = p
		if delta == 0 {
			return nil
		}

		mov := &model.MovimientoStock{
			ProductoID:    p.ID,
			GymID:         p.GymID,
			Tipo:          m.Tipo,
			Cantidad:      delta,
			StockAnterior: anterior,
			StockNuevo:    nuevo,
			Motivo:        m.Motivo,
			ReferenciaID:  m.ReferenciaID,
			UsuarioID:     m.Actor.ID,
			UsuarioTipo:   m.Actor.Tipo,
		}
		return s.movimientos.CreateTx(ctx, tx, mov)
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, sc tenant.Scope, productoID uuid.UUID, pag dto.Paginacion) (*dto.MovimientoStockListResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	if _, err := s.productos.FindByID(ctx, sc.GymID, productoID); err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}
	pag = pag.Normalizar()
	movs, total, err := s.movimientos.ListByProducto(ctx, sc.GymID, productoID, pag.Page, pag.Limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.MovimientoStockListResponse{
		Movements:  make([]dto.MovimientoStockResponse, 0, len(movs)),
		Pagination: dto.NuevaPaginacion(pag, total),
	}
	for _, m := range movs {
		resp.Movements = append(resp.Movements, dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			ReferenciaID:  uuidPtrString(m.ReferenciaID),
			UsuarioID:     m.UsuarioID.String(),
			UsuarioTipo:   string(m.UsuarioTipo),
			CreatedAt:     fmtTime(m.CreatedAt),
		})
	}
	return resp, nil
}

// esNoEncontrado reports whether err is a NotFound domain error.
func esNoEncontrado(err error) bool {
	return apierror.Is(err, apierror.KindNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
