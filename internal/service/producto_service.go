package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const msgCodigoBarrasDuplicado = "El código de barras ya existe en este gimnasio"

// ProductoService defines the business logic contract for products.
// Stock quantity changes are delegated to InventarioService.
type ProductoService interface {
	Crear(ctx context.Context, sc tenant.Scope, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, sc tenant.Scope, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error
}

type productoService struct {
	repo        repository.ProductoRepository
	proveedores repository.ProveedorRepository
	inventario  InventarioService
	directorio  Directorio
	imagenes    RedimensionadorImagen
}

func NewProductoService(
	repo repository.ProductoRepository,
	proveedores repository.ProveedorRepository,
	inventario InventarioService,
	directorio Directorio,
	imagenes RedimensionadorImagen,
) ProductoService {
	return &productoService{
		repo:        repo,
		proveedores: proveedores,
		inventario:  inventario,
		directorio:  directorio,
		imagenes:    imagenes,
	}
}

func (s *productoService) Crear(ctx context.Context, sc tenant.Scope, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	if req.Price.Amount.IsNegative() {
		return nil, apierror.Validation("El precio no puede ser negativo")
	}
	codigo := strings.TrimSpace(req.Barcode)
	if err := s.verificarCodigoBarras(ctx, sc.GymID, codigo, uuid.Nil); err != nil {
		return nil, err
	}
	proveedorID, err := s.resolverProveedor(ctx, sc.GymID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	imagen, err := s.procesarImagen(req.ImageURL)
	if err != nil {
		return nil, err
	}

	estado := valorOr(req.Status, model.ProductoActivo)
	p := &model.Producto{
		Nombre:       strings.TrimSpace(req.NameProduct),
		Stock:        model.Stock{Unidad: req.Stock.Unit},
		Precio:       model.Precio{Monto: req.Price.Amount, Moneda: valorOr(req.Price.Currency, "MXN")},
		Categoria:    req.Category,
		CodigoBarras: codigo,
		FechaCompra:  time.Now(),
		Estado:       estado,
		EstadoPrevio: estado,
		ProveedorID:  proveedorID,
		GymID:        sc.GymID,
		ImagenURL:    imagen,
		Auditoria:    model.NuevaAuditoria(sc.Actor()),
	}
	if t := req.PurchaseDate.Ptr(); t != nil {
		p.FechaCompra = *t
	}
	p.AplicarCantidad(req.Stock.Quantity)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, duplicado(err, msgCodigoBarrasDuplicado)
	}
	return s.toResponse(ctx, p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.ProductoResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}
	return s.toResponse(ctx, p), nil
}

func (s *productoService) Listar(ctx context.Context, sc tenant.Scope, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	filter.Paginacion = filter.Paginacion.Normalizar()
	productos, total, err := s.repo.List(ctx, sc.GymID, filter)
	if err != nil {
		return nil, err
	}
	var refs []model.RefUsuario
	for _, p := range productos {
		refs = append(refs, referenciasAuditoria(p.Auditoria)...)
	}
	nombres := s.directorio.Resolver(ctx, refs)

	resp := &dto.ProductoListResponse{
		Products:   make([]dto.ProductoResponse, 0, len(productos)),
		Pagination: dto.NuevaPaginacion(filter.Paginacion, total),
	}
	for i := range productos {
		resp.Products = append(resp.Products, productoToResponse(&productos[i], nombres))
	}
	return resp, nil
}

// Actualizar saves descriptive fields first. A new stock.quantity or an
// explicit status goes through InventarioService, so both are applied to the
// locked row and never to the unlocked read above.
func (s *productoService) Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	id, err := parseID(req.ID, "id")
	if err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}

	if req.NameProduct != nil {
		p.Nombre = strings.TrimSpace(*req.NameProduct)
	}
	if req.Price != nil {
		if req.Price.Amount.IsNegative() {
			return nil, apierror.Validation("El precio no puede ser negativo")
		}
		p.Precio = model.Precio{Monto: req.Price.Amount, Moneda: valorOr(req.Price.Currency, p.Precio.Moneda)}
	}
	if req.Category != nil {
		p.Categoria = *req.Category
	}
	if req.Barcode != nil {
		codigo := strings.TrimSpace(*req.Barcode)
		if err := s.verificarCodigoBarras(ctx, sc.GymID, codigo, p.ID); err != nil {
			return nil, err
		}
		p.CodigoBarras = codigo
	}
	if t := req.PurchaseDate.Ptr(); t != nil {
		p.FechaCompra = *t
	}
	if req.SupplierID != nil {
		if *req.SupplierID == "" {
			p.ProveedorID = nil
		} else if p.ProveedorID, err = s.resolverProveedor(ctx, sc.GymID, req.SupplierID); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		if p.ImagenURL, err = s.procesarImagen(req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		p.Stock.Unidad = req.Stock.Unit
	}
	p.MarcarActualizado(sc.Actor())

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, duplicado(err, msgCodigoBarrasDuplicado)
	}

	if req.Stock == nil && req.Status == nil {
		// Status and quantity may have moved since the read above.
		if actual, err := s.repo.FindByID(ctx, sc.GymID, p.ID); err == nil {
			p = actual
		}
		return s.toResponse(ctx, p), nil
	}

	mov := MovimientoSolicitado{
		GymID:      sc.GymID,
		ProductoID: p.ID,
		Estado:     req.Status,
		Tipo:       model.MovimientoAjuste,
		Motivo:     "Ajuste manual de inventario",
		Actor:      sc.Actor(),
	}
	if req.Stock != nil {
		mov.Cantidad = &req.Stock.Quantity
	}
	movido, err := s.inventario.Mover(ctx, mov)
	if err != nil {
		return nil, err
	}
	p.Stock.Cantidad = movido.Stock.Cantidad
	p.Estado = movido.Estado
	p.EstadoPrevio = movido.EstadoPrevio
	p.VentasObtenidas = movido.VentasObtenidas
	return s.toResponse(ctx, p), nil
}

func (s *productoService) Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error {
	if err := sc.RequireGym(); err != nil {
		return err
	}
	return noEncontrado(s.repo.Delete(ctx, sc.GymID, id), "Producto no encontrado")
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *productoService) verificarCodigoBarras(ctx context.Context, gymID uuid.UUID, codigo string, excluir uuid.UUID) error {
	if codigo == "" {
		return nil
	}
	existe, err := s.repo.ExisteCodigoBarras(ctx, gymID, codigo, excluir)
	if err != nil {
		return err
	}
	if existe {
		return apierror.Conflict(msgCodigoBarrasDuplicado)
	}
	return nil
}

func (s *productoService) resolverProveedor(ctx context.Context, gymID uuid.UUID, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseID(*raw, "supplier_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.proveedores.FindByID(ctx, gymID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Validation("El proveedor no existe en este gimnasio")
		}
		return nil, err
	}
	return &id, nil
}

func (s *productoService) procesarImagen(raw *string) (*string, error) {
	return redimensionar(s.imagenes, raw)
}

// redimensionar shrinks inline data URLs; plain URLs are stored as given.
func redimensionar(r RedimensionadorImagen, raw *string) (*string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if r == nil || !strings.HasPrefix(*raw, "data:image") {
		v := *raw
		return &v, nil
	}
	out, err := r.ResizeDataURL(*raw)
	if err != nil {
		return nil, apierror.Validation("Imagen inválida", err)
	}
	return &out, nil
}

func (s *productoService) toResponse(ctx context.Context, p *model.Producto) *dto.ProductoResponse {
	r := productoToResponse(p, s.directorio.Resolver(ctx, referenciasAuditoria(p.Auditoria)))
	return &r
}

func productoToResponse(p *model.Producto, nombres map[model.RefUsuario]string) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:            p.ID.String(),
		NameProduct:   p.Nombre,
		Stock:         dto.StockDTO{Quantity: p.Stock.Cantidad, Unit: p.Stock.Unidad},
		Price:         dto.PrecioDTO{Amount: p.Precio.Monto, Currency: p.Precio.Moneda},
		Category:      p.Categoria,
		Barcode:       p.CodigoBarras,
		PurchaseDate:  p.FechaCompra.Format("2006-01-02"),
		Status:        p.Estado,
		SalesObtained: p.VentasObtenidas,
		SupplierID:    uuidPtrString(p.ProveedorID),
		GymID:         p.GymID.String(),
		ImageURL:      p.ImagenURL,
		RegisteredBy:  refResponse(p.RegistradoPor(), nombres),
		UpdatedBy:     refResponsePtr(p.ActualizadoPor(), nombres),
		CreatedAt:     fmtTime(p.CreatedAt),
		UpdatedAt:     fmtTime(p.UpdatedAt),
	}
}
