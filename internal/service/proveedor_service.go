package service

import (
	"context"
	"strings"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"

	"github.com/google/uuid"
)

const (
	msgProveedorNoExiste = "Proveedor no encontrado"
	msgEmailProveedor    = "Ya existe un proveedor con ese correo en este gimnasio"
)

type ProveedorService interface {
	Crear(ctx context.Context, sc tenant.Scope, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, sc tenant.Scope, filter dto.ProveedorFilter) (*dto.ProveedorListResponse, error)
	Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error
}

type proveedorService struct {
	repo       repository.ProveedorRepository
	productos  repository.ProductoRepository
	directorio Directorio
	telefonos  NormalizadorTelefono
}

func NewProveedorService(repo repository.ProveedorRepository, productos repository.ProductoRepository, directorio Directorio, telefonos NormalizadorTelefono) ProveedorService {
	return &proveedorService{repo: repo, productos: productos, directorio: directorio, telefonos: telefonos}
}

func (s *proveedorService) Crear(ctx context.Context, sc tenant.Scope, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.verificarEmail(ctx, sc.GymID, email, uuid.Nil); err != nil {
		return nil, err
	}
	tel, err := normalizarTelefono(s.telefonos, req.Phone)
	if err != nil {
		return nil, err
	}
	p := &model.Proveedor{
		Nombre:    strings.TrimSpace(req.Name),
		Telefono:  tel,
		Email:     email,
		GymID:     sc.GymID,
		Auditoria: model.NuevaAuditoria(sc.Actor()),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, duplicado(err, msgEmailProveedor)
	}
	return s.toResponse(ctx, p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.ProveedorResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return nil, noEncontrado(err, msgProveedorNoExiste)
	}
	return s.toResponse(ctx, p), nil
}

func (s *proveedorService) Listar(ctx context.Context, sc tenant.Scope, filter dto.ProveedorFilter) (*dto.ProveedorListResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	filter.Paginacion = filter.Paginacion.Normalizar()
	proveedores, total, err := s.repo.List(ctx, sc.GymID, filter)
	if err != nil {
		return nil, err
	}
	var refs []model.RefUsuario
	for _, p := range proveedores {
		refs = append(refs, referenciasAuditoria(p.Auditoria)...)
	}
	nombres := s.directorio.Resolver(ctx, refs)

	resp := &dto.ProveedorListResponse{
		Suppliers:  make([]dto.ProveedorResponse, 0, len(proveedores)),
		Pagination: dto.NuevaPaginacion(filter.Paginacion, total),
	}
	for i := range proveedores {
		resp.Suppliers = append(resp.Suppliers, proveedorToResponse(&proveedores[i], nombres))
	}
	return resp, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	id, err := parseID(req.ID, "id")
	if err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return nil, noEncontrado(err, msgProveedorNoExiste)
	}

	if req.Name != nil {
		p.Nombre = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != p.Email {
			if err := s.verificarEmail(ctx, sc.GymID, email, p.ID); err != nil {
				return nil, err
			}
		}
		p.Email = email
	}
	if req.Phone != nil {
		if p.Telefono, err = normalizarTelefono(s.telefonos, *req.Phone); err != nil {
			return nil, err
		}
	}
	p.MarcarActualizado(sc.Actor())

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, duplicado(err, msgEmailProveedor)
	}
	return s.toResponse(ctx, p), nil
}

// Eliminar refuses while products still reference the supplier.
func (s *proveedorService) Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error {
	if err := sc.RequireGym(); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, sc.GymID, id); err != nil {
		return noEncontrado(err, msgProveedorNoExiste)
	}
	n, err := s.productos.ContarPorProveedor(ctx, sc.GymID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apierror.Conflict("No se puede eliminar el proveedor: tiene productos asociados").
			WithDetails(map[string]any{"products": n})
	}
	return noEncontrado(s.repo.Delete(ctx, sc.GymID, id), msgProveedorNoExiste)
}

func (s *proveedorService) verificarEmail(ctx context.Context, gymID uuid.UUID, email string, excluir uuid.UUID) error {
	if email == "" {
		return nil
	}
	existe, err := s.repo.ExisteEmail(ctx, gymID, email, excluir)
	if err != nil {
		return err
	}
	if existe {
		return apierror.Conflict(msgEmailProveedor)
	}
	return nil
}

func (s *proveedorService) toResponse(ctx context.Context, p *model.Proveedor) *dto.ProveedorResponse {
	r := proveedorToResponse(p, s.directorio.Resolver(ctx, referenciasAuditoria(p.Auditoria)))
	return &r
}

func proveedorToResponse(p *model.Proveedor, nombres map[model.RefUsuario]string) dto.ProveedorResponse {
	return dto.ProveedorResponse{
		ID:           p.ID.String(),
		Name:         p.Nombre,
		Phone:        p.Telefono,
		Email:        p.Email,
		GymID:        p.GymID.String(),
		RegisteredBy: refResponse(p.RegistradoPor(), nombres),
		UpdatedBy:    refResponsePtr(p.ActualizadoPor(), nombres),
		CreatedAt:    fmtTime(p.CreatedAt),
		UpdatedAt:    fmtTime(p.UpdatedAt),
	}
}
