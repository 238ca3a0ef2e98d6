package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	msgVentaNoEncontrada = "Venta no encontrada"
	msgVentaYaCancelada  = "La venta ya está cancelada"
	msgCodigoVentaExiste = "El código de venta ya existe"
	msgSoloCanceladas    = "Solo se pueden eliminar ventas canceladas"
	maxFilasExportacion  = 50000
)

// VentaService is the product sales ledger: every stock change caused by a
// sale or a cancellation goes through here.
type VentaService interface {
	Vender(ctx context.Context, sc tenant.Scope, req dto.VenderProductoRequest) (*dto.VentaDetalleResponse, error)
	Cancelar(ctx context.Context, sc tenant.Scope, req dto.CancelarVentaRequest) (*dto.VentaDetalleResponse, error)
	Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error
	EliminarLote(ctx context.Context, sc tenant.Scope, req dto.EliminarVentasRequest) (*dto.EliminarVentasResponse, error)
	Listar(ctx context.Context, sc tenant.Scope, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.VentaResponse, error)
	// Recibo renders the PDF receipt; returns the file name too.
	Recibo(ctx context.Context, sc tenant.Scope, id uuid.UUID) ([]byte, string, error)
	// Exportar renders the filtered history as XLSX.
	Exportar(ctx context.Context, sc tenant.Scope, filter dto.VentaFilter) ([]byte, error)
}

type ventaService struct {
	repo        repository.VentaProductoRepository
	clientes    repository.ClienteRepository
	admins      repository.AdminRepository
	gimnasios   repository.GimnasioRepository
	inventario  InventarioService
	directorio  Directorio
	notificador Notificador
	metrics     *infra.Metrics
	alertas     bool
	now         func() time.Time
}

func NewVentaService(
	repo repository.VentaProductoRepository,
	clientes repository.ClienteRepository,
	admins repository.AdminRepository,
	gimnasios repository.GimnasioRepository,
	inventario InventarioService,
	directorio Directorio,
	notificador Notificador,
	metrics *infra.Metrics,
	alertasAgotado bool,
) VentaService {
	return &ventaService{
		repo:        repo,
		clientes:    clientes,
		admins:      admins,
		gimnasios:   gimnasios,
		inventario:  inventario,
		directorio:  directorio,
		notificador: notificador,
		metrics:     metrics,
		alertas:     alertasAgotado,
		now:         time.Now,
	}
}

// ── Vender ────────────────────────────────────────────────────────────────────
//   1. Validate input, sale_code uniqueness, client inside the gym
//   2. TX: lock product row, check stock, decrement, +sales_obtained, movement
//   3. Insert the sale snapshot (undo step 2 on failure)
//   4. (async) stock-out alert and receipt mail

func (s *ventaService) Vender(ctx context.Context, sc tenant.Scope, req dto.VenderProductoRequest) (*dto.VentaDetalleResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	if req.QuantitySold <= 0 {
		return nil, apierror.Validation("La cantidad vendida debe ser mayor a 0")
	}
	codigo := strings.TrimSpace(req.SaleCode)
	if codigo == "" {
		return nil, apierror.Validation("El código de venta es obligatorio")
	}
	if req.SalePrice != nil && req.SalePrice.IsNegative() {
		return nil, apierror.Validation("El precio de venta no puede ser negativo")
	}
	productoID, err := parseID(req.ProductID, "product_id")
	if err != nil {
		return nil, err
	}
	clienteID, err := parseID(req.ClientID, "client_id")
	if err != nil {
		return nil, err
	}

	existe, err := s.repo.ExisteCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	if existe {
		s.metrics.Venta("vender", "conflicto")
		return nil, apierror.Conflict(msgCodigoVentaExiste)
	}
	cliente, err := s.clientes.FindByID(ctx, sc.GymID, clienteID)
	if err != nil {
		return nil, noEncontrado(err, "Cliente no encontrado")
	}

	ventaID := uuid.New()
	cantidad := req.QuantitySold
	var producto *model.Producto

	sg := nuevaSaga("venta", s.metrics)
	err = sg.Paso(ctx, "descontar stock",
		func(ctx context.Context) error {
			p, err := s.inventario.Mover(ctx, MovimientoSolicitado{
				GymID:        sc.GymID,
				ProductoID:   productoID,
				Delta:        -cantidad,
				DeltaVentas:  cantidad,
				Tipo:         model.MovimientoVenta,
				Motivo:       "Venta " + codigo,
				ReferenciaID: &ventaID,
				Actor:        sc.Actor(),
			})
			producto = p
			return err
		},
		func(ctx context.Context) error {
			_, err := s.inventario.Mover(ctx, MovimientoSolicitado{
				GymID:        sc.GymID,
				ProductoID:   productoID,
				Delta:        cantidad,
				DeltaVentas:  -cantidad,
				Tipo:         model.MovimientoAjuste,
				Motivo:       "Reverso de venta no registrada " + codigo,
				ReferenciaID: &ventaID,
				Actor:        sc.Actor(),
			})
			return err
		},
	)
	if err != nil {
		s.metrics.Venta("vender", "rechazada")
		return nil, err
	}

	total := producto.Precio.Monto.Mul(decimal.NewFromInt(int64(cantidad)))
	if req.SalePrice != nil {
		total = *req.SalePrice
	}
	vendedor := s.directorio.Nombre(ctx, sc.Actor())
	if vendedor == "" {
		vendedor = sc.Nombre
	}

	venta := &model.VentaProducto{
		ID:              ventaID,
		ProductoID:      producto.ID,
		NombreProducto:  producto.Nombre,
		PrecioUnitario:  producto.Precio.Monto,
		CantidadVendida: cantidad,
		CodigoVenta:     codigo,
		ClienteID:       cliente.ID,
		NombreCliente:   cliente.NombreCompleto.String(),
		FechaVenta:      s.now(),
		VendedorID:      sc.UsuarioID,
		NombreVendedor:  vendedor,
		RolVendedor:     sc.Rol,
		EstadoVenta:     model.VentaExitosa,
		TotalVenta:      total,
		GymID:           sc.GymID,
		Auditoria:       model.NuevaAuditoria(sc.Actor()),
	}
	err = sg.Paso(ctx, "registrar venta",
		func(ctx context.Context) error {
			return duplicado(s.repo.Create(ctx, venta), msgCodigoVentaExiste)
		},
		nil,
	)
	if err != nil {
		s.metrics.Venta("vender", "error")
		return nil, sg.Abortar(ctx, err)
	}

	s.metrics.Venta("vender", "ok")
	s.metrics.UnidadesVendidas(cantidad)
	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("producto_id", producto.ID.String()).
		Int("cantidad", cantidad).
		Int("stock", producto.Stock.Cantidad).
		Msg("venta registrada")

	s.alertaAgotado(ctx, producto)
	s.enviarRecibo(ctx, venta, cliente.Email)

	prod := s.productoResponse(ctx, producto)
	return &dto.VentaDetalleResponse{
		Message: "Venta registrada exitosamente",
		Sale:    ventaToResponse(venta),
		Product: prod,
	}, nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// The status flip is a conditional update, so two concurrent cancels cannot
// both restore stock. A failed restore reopens the sale.

func (s *ventaService) Cancelar(ctx context.Context, sc tenant.Scope, req dto.CancelarVentaRequest) (*dto.VentaDetalleResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	id, err := parseID(req.ID, "id")
	if err != nil {
		return nil, err
	}
	venta, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return nil, noEncontrado(err, msgVentaNoEncontrada)
	}
	if venta.Cancelada() {
		s.metrics.Venta("cancelar", "conflicto")
		return nil, apierror.Conflict(msgVentaYaCancelada)
	}

	var motivo *string
	if r := strings.TrimSpace(req.Reason); r != "" {
		motivo = &r
	}
	actor := sc.Actor()
	en := s.now()
	actualizadoAntes := venta.ActualizadoPor()

	sg := nuevaSaga("cancelacion", s.metrics)
	err = sg.Paso(ctx, "marcar cancelada",
		func(ctx context.Context) error {
			ok, err := s.repo.MarcarCancelada(ctx, sc.GymID, id, motivo, actor, en)
			if err != nil {
				return err
			}
			if !ok {
				return apierror.Conflict(msgVentaYaCancelada)
			}
			return nil
		},
		func(ctx context.Context) error { return s.repo.Reabrir(ctx, sc.GymID, id, actualizadoAntes) },
	)
	if err != nil {
		if apierror.Is(err, apierror.KindConflict) {
			s.metrics.Venta("cancelar", "conflicto")
		} else {
			s.metrics.Venta("cancelar", "error")
		}
		return nil, err
	}

	producto, err := s.inventario.Mover(ctx, MovimientoSolicitado{
		GymID:        sc.GymID,
		ProductoID:   venta.ProductoID,
		Delta:        venta.CantidadVendida,
		DeltaVentas:  -venta.CantidadVendida,
		Tipo:         model.MovimientoCancelacion,
		Motivo:       "Cancelación de venta " + venta.CodigoVenta,
		ReferenciaID: &venta.ID,
		Actor:        actor,
	})
	switch {
	case esNoEncontrado(err):
		// Product removed since the sale: nothing to restock.
		log.Warn().Str("venta_id", id.String()).Msg("cancelacion: product no longer exists, stock not restored")
		producto = nil
	case err != nil:
		s.metrics.Venta("cancelar", "error")
		return nil, sg.Abortar(ctx, err)
	}

	venta.EstadoVenta = model.VentaCancelada
	venta.MotivoCancelacion = motivo
	venta.CanceladaPorID = &actor.ID
	venta.CanceladaPorTipo = &actor.Tipo
	venta.CanceladaEn = &en
	venta.MarcarActualizado(actor)

	s.metrics.Venta("cancelar", "ok")

	resp := &dto.VentaDetalleResponse{
		Message: "Venta cancelada exitosamente",
		Sale:    ventaToResponse(venta),
	}
	if producto != nil {
		resp.Product = s.productoResponse(ctx, producto)
	}
	return resp, nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *ventaService) Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error {
	if err := sc.RequireGym(); err != nil {
		return err
	}
	venta, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return noEncontrado(err, msgVentaNoEncontrada)
	}
	if !venta.Cancelada() {
		return apierror.Validation(msgSoloCanceladas).
			WithDetails(map[string]any{"sale_status": venta.EstadoVenta})
	}
	ok, err := s.repo.DeleteCancelada(ctx, sc.GymID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.Validation(msgSoloCanceladas)
	}
	s.metrics.Venta("eliminar", "ok")
	return nil
}

// EliminarLote deletes every requested sale or none of them.
func (s *ventaService) EliminarLote(ctx context.Context, sc tenant.Scope, req dto.EliminarVentasRequest) (*dto.EliminarVentasResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	if len(req.IDs) == 0 {
		return nil, apierror.Validation("Debe indicar al menos una venta")
	}

	vistos := make(map[uuid.UUID]bool, len(req.IDs))
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := parseID(raw, "ids")
		if err != nil {
			return nil, err
		}
		if !vistos[id] {
			vistos[id] = true
			ids = append(ids, id)
		}
	}

	encontradas, err := s.repo.FindByIDs(ctx, sc.GymID, ids)
	if err != nil {
		return nil, err
	}
	porID := make(map[uuid.UUID]model.VentaProducto, len(encontradas))
	for _, v := range encontradas {
		porID[v.ID] = v
	}

	var noEncontradas, noCanceladas []string
	for _, id := range ids {
		v, ok := porID[id]
		switch {
		case !ok:
			noEncontradas = append(noEncontradas, id.String())
		case !v.Cancelada():
			noCanceladas = append(noCanceladas, id.String())
		}
	}
	if len(noEncontradas) > 0 || len(noCanceladas) > 0 {
		sort.Strings(noEncontradas)
		sort.Strings(noCanceladas)
		s.metrics.Venta("eliminar_lote", "rechazada")
		return nil, apierror.Validation("El lote contiene ventas que no se pueden eliminar; no se eliminó ninguna").
			WithDetails(map[string]any{
				"not_found":     noEncontradas,
				"not_cancelled": noCanceladas,
			})
	}

	n, err := s.repo.DeleteCanceladas(ctx, sc.GymID, ids)
	if errors.Is(err, repository.ErrLoteNoCancelado) {
		s.metrics.Venta("eliminar_lote", "rechazada")
		return nil, apierror.Validation("El lote cambió mientras se procesaba; no se eliminó ninguna venta", err)
	}
	if err != nil {
		return nil, err
	}
	s.metrics.Venta("eliminar_lote", "ok")
	return &dto.EliminarVentasResponse{
		Message:      fmt.Sprintf("%d ventas eliminadas", n),
		DeletedCount: n,
	}, nil
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (s *ventaService) Listar(ctx context.Context, sc tenant.Scope, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	filter.Paginacion = filter.Paginacion.Normalizar()
	q, err := ventaQuery(filter)
	if err != nil {
		return nil, err
	}
	ventas, total, err := s.repo.List(ctx, sc.GymID, q)
	if err != nil {
		return nil, err
	}
	resumen, err := s.repo.Resumen(ctx, sc.GymID, q)
	if err != nil {
		return nil, err
	}
	resp := &dto.VentaListResponse{
		Sales:      make([]dto.VentaResponse, 0, len(ventas)),
		Pagination: dto.NuevaPaginacion(filter.Paginacion, total),
		Resumen:    resumen,
	}
	for i := range ventas {
		resp.Sales = append(resp.Sales, ventaToResponse(&ventas[i]))
	}
	return resp, nil
}

func (s *ventaService) ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.VentaResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	v, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return nil, noEncontrado(err, msgVentaNoEncontrada)
	}
	r := ventaToResponse(v)
	return &r, nil
}

func (s *ventaService) Recibo(ctx context.Context, sc tenant.Scope, id uuid.UUID) ([]byte, string, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, "", err
	}
	v, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return nil, "", noEncontrado(err, msgVentaNoEncontrada)
	}
	gymNombre := ""
	if g, err := s.gimnasios.FindByID(ctx, sc.GymID); err == nil {
		gymNombre = g.Nombre
	}
	var buf bytes.Buffer
	if err := infra.EscribirReciboVenta(&buf, gymNombre, v); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("recibo-%s.pdf", v.CodigoVenta), nil
}

func (s *ventaService) Exportar(ctx context.Context, sc tenant.Scope, filter dto.VentaFilter) ([]byte, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	q, err := ventaQuery(filter)
	if err != nil {
		return nil, err
	}
	q.Page, q.Limit = 1, maxFilasExportacion
	ventas, _, err := s.repo.List(ctx, sc.GymID, q)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := infra.EscribirVentasXLSX(&buf, ventas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *ventaService) productoResponse(ctx context.Context, p *model.Producto) *dto.ProductoResponse {
	r := productoToResponse(p, s.directorio.Resolver(ctx, referenciasAuditoria(p.Auditoria)))
	return &r
}

func (s *ventaService) alertaAgotado(ctx context.Context, p *model.Producto) {
	if !s.alertas || s.notificador == nil || p.Estado != model.ProductoAgotado {
		return
	}
	admins, err := s.admins.ListByGym(ctx, p.GymID)
	if err != nil {
		log.Warn().Err(err).Msg("venta: could not load admins for stock alert")
		return
	}
	var to []string
	for _, a := range admins {
		to = append(to, a.Email)
	}
	if len(to) == 0 {
		return
	}
	payload := worker.EmailJobPayload{
		To:      to,
		Subject: fmt.Sprintf("Producto agotado: %s", p.Nombre),
		Body:    fmt.Sprintf("El producto %s se quedó sin stock después de la última venta.", p.Nombre),
	}
	if err := s.notificador.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("producto_id", p.ID.String()).Msg("venta: stock alert not enqueued")
	}
}

func (s *ventaService) enviarRecibo(ctx context.Context, v *model.VentaProducto, email string) {
	if s.notificador == nil || email == "" {
		return
	}
	payload := worker.ReciboJobPayload{VentaID: v.ID.String(), GymID: v.GymID.String(), Email: email}
	if err := s.notificador.EnqueueRecibo(ctx, payload); err != nil {
		log.Warn().Err(err).Str("venta_id", v.ID.String()).Msg("venta: receipt not enqueued")
	}
}

// ventaQuery parses the filter. "to" is inclusive, so Hasta is the next day.
func ventaQuery(f dto.VentaFilter) (repository.VentaQuery, error) {
	q := repository.VentaQuery{Estado: f.Status, Page: f.Page, Limit: f.Limit}
	if f.ProductID != "" {
		id, err := parseID(f.ProductID, "product_id")
		if err != nil {
			return q, err
		}
		q.ProductoID = &id
	}
	if f.ClientID != "" {
		id, err := parseID(f.ClientID, "client_id")
		if err != nil {
			return q, err
		}
		q.ClienteID = &id
	}
	if f.From != "" {
		t, err := dto.ParseFecha(f.From)
		if err != nil {
			return q, apierror.Validation("Fecha 'from' inválida", err)
		}
		q.Desde = &t
	}
	if f.To != "" {
		t, err := dto.ParseFecha(f.To)
		if err != nil {
			return q, apierror.Validation("Fecha 'to' inválida", err)
		}
		hasta := t.AddDate(0, 0, 1)
		q.Hasta = &hasta
	}
	if q.Desde != nil && q.Hasta != nil && !q.Desde.Before(*q.Hasta) {
		return q, apierror.Validation("El rango de fechas es inválido")
	}
	return q, nil
}

func ventaToResponse(v *model.VentaProducto) dto.VentaResponse {
	r := dto.VentaResponse{
		ID:                 v.ID.String(),
		ProductID:          v.ProductoID.String(),
		ProductName:        v.NombreProducto,
		UnitPrice:          v.PrecioUnitario,
		QuantitySold:       v.CantidadVendida,
		SaleCode:           v.CodigoVenta,
		ClientID:           v.ClienteID.String(),
		ClientName:         v.NombreCliente,
		SaleDate:           fmtTime(v.FechaVenta),
		SellerID:           v.VendedorID.String(),
		SellerName:         v.NombreVendedor,
		SellerRole:         string(v.RolVendedor),
		SaleStatus:         v.EstadoVenta,
		TotalSale:          v.TotalVenta,
		GymID:              v.GymID.String(),
		CancellationReason: v.MotivoCancelacion,
		CancelledByID:      uuidPtrString(v.CanceladaPorID),
		CancelledAt:        fmtTimePtr(v.CanceladaEn),
		CreatedAt:          fmtTime(v.CreatedAt),
	}
	if v.CanceladaPorTipo != nil {
		t := string(*v.CanceladaPorTipo)
		r.CancelledByType = &t
	}
	return r
}
