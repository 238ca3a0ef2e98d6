package service

import (
	"context"
	"strings"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"

	"github.com/google/uuid"
)

const msgNotaNoExiste = "Nota no encontrada"

// NotaService: private notes. Every query is keyed by the caller's
// (id, type) so other users get NotFound.
type NotaService interface {
	Crear(ctx context.Context, sc tenant.Scope, req dto.CrearNotaRequest) (*dto.NotaResponse, error)
	ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.NotaResponse, error)
	Listar(ctx context.Context, sc tenant.Scope, filter dto.NotaFilter) (*dto.NotaListResponse, error)
	Buscar(ctx context.Context, sc tenant.Scope, q string, p dto.Paginacion) (*dto.NotaListResponse, error)
	Estadisticas(ctx context.Context, sc tenant.Scope) (*dto.NotaStatsResponse, error)
	Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarNotaRequest) (*dto.NotaResponse, error)
	Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error
}

type notaService struct {
	repo repository.NotaRepository
}

func NewNotaService(repo repository.NotaRepository) NotaService {
	return &notaService{repo: repo}
}

func (s *notaService) Crear(ctx context.Context, sc tenant.Scope, req dto.CrearNotaRequest) (*dto.NotaResponse, error) {
	n := &model.Nota{
		Titulo:      strings.TrimSpace(req.Title),
		Contenido:   req.Content,
		Categoria:   valorOr(req.Category, "nota"),
		UsuarioID:   sc.UsuarioID,
		UsuarioTipo: sc.Rol,
		GymID:       gymPtr(sc),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	r := notaToResponse(n)
	return &r, nil
}

func (s *notaService) ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.NotaResponse, error) {
	n, err := s.repo.FindByID(ctx, sc.Actor(), id)
	if err != nil {
		return nil, noEncontrado(err, msgNotaNoExiste)
	}
	r := notaToResponse(n)
	return &r, nil
}

func (s *notaService) Listar(ctx context.Context, sc tenant.Scope, filter dto.NotaFilter) (*dto.NotaListResponse, error) {
	filter.Paginacion = filter.Paginacion.Normalizar()
	notas, total, err := s.repo.List(ctx, sc.Actor(), filter)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.ContarPorCategoria(ctx, sc.Actor())
	if err != nil {
		return nil, err
	}
	resp := &dto.NotaListResponse{
		Notes:      make([]dto.NotaResponse, 0, len(notas)),
		Pagination: dto.NuevaPaginacion(filter.Paginacion, total),
		Stats:      stats,
	}
	for i := range notas {
		resp.Notes = append(resp.Notes, notaToResponse(&notas[i]))
	}
	return resp, nil
}

// Buscar matches q against title and content, most recent first.
func (s *notaService) Buscar(ctx context.Context, sc tenant.Scope, q string, p dto.Paginacion) (*dto.NotaListResponse, error) {
	if strings.TrimSpace(q) == "" {
		return s.Listar(ctx, sc, dto.NotaFilter{Paginacion: p})
	}
	return s.Listar(ctx, sc, dto.NotaFilter{Paginacion: p, Search: q})
}

func (s *notaService) Estadisticas(ctx context.Context, sc tenant.Scope) (*dto.NotaStatsResponse, error) {
	porCategoria, err := s.repo.ContarPorCategoria(ctx, sc.Actor())
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range porCategoria {
		total += n
	}
	return &dto.NotaStatsResponse{Total: total, ByCategory: porCategoria}, nil
}

func (s *notaService) Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarNotaRequest) (*dto.NotaResponse, error) {
	id, err := parseID(req.ID, "id")
	if err != nil {
		return nil, err
	}
	n, err := s.repo.FindByID(ctx, sc.Actor(), id)
	if err != nil {
		return nil, noEncontrado(err, msgNotaNoExiste)
	}
	if req.Title != nil {
		n.Titulo = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		n.Contenido = *req.Content
	}
	if req.Category != nil {
		n.Categoria = *req.Category
	}
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	r := notaToResponse(n)
	return &r, nil
}

func (s *notaService) Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error {
	return noEncontrado(s.repo.Delete(ctx, sc.Actor(), id), msgNotaNoExiste)
}

// gymPtr records the caller's gym on personal records when there is one.
func gymPtr(sc tenant.Scope) *uuid.UUID {
	if !sc.TieneGym() {
		return nil
	}
	id := sc.GymID
	return &id
}

func notaToResponse(n *model.Nota) dto.NotaResponse {
	return dto.NotaResponse{
		ID:        n.ID.String(),
		Title:     n.Titulo,
		Content:   n.Contenido,
		Category:  n.Categoria,
		UserID:    n.UsuarioID.String(),
		UserType:  string(n.UsuarioTipo),
		CreatedAt: fmtTime(n.CreatedAt),
		UpdatedAt: fmtTime(n.UpdatedAt),
	}
}
