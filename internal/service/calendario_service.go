package service

import (
	"context"
	"strings"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"

	"github.com/google/uuid"
)

const (
	msgEventoNoExiste = "Evento no encontrado"
	formatoFecha      = "2006-01-02"
)

type CalendarioService interface {
	Crear(ctx context.Context, sc tenant.Scope, req dto.CrearEventoRequest) (*dto.EventoResponse, error)
	ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.EventoResponse, error)
	Listar(ctx context.Context, sc tenant.Scope, filter dto.EventoFilter) (*dto.EventoListResponse, error)
	Hoy(ctx context.Context, sc tenant.Scope) ([]dto.EventoResponse, error)
	Rango(ctx context.Context, sc tenant.Scope, filter dto.RangoFechasFilter) ([]dto.EventoResponse, error)
	Actualizar(ctx context.Context, sc tenant.Scope, id uuid.UUID, req dto.ActualizarEventoRequest) (*dto.EventoResponse, error)
	Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error
}

type calendarioService struct {
	repo repository.EventoCalendarioRepository
	now  func() time.Time
}

func NewCalendarioService(repo repository.EventoCalendarioRepository) CalendarioService {
	return &calendarioService{repo: repo, now: time.Now}
}

func (s *calendarioService) Crear(ctx context.Context, sc tenant.Scope, req dto.CrearEventoRequest) (*dto.EventoResponse, error) {
	fecha, err := parseFechaEvento(req.EventDate)
	if err != nil {
		return nil, err
	}
	if err := validarHoras(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	e := &model.EventoCalendario{
		Titulo:      strings.TrimSpace(req.Title),
		FechaEvento: fecha,
		HoraInicio:  req.StartTime,
		HoraFin:     req.EndTime,
		Categoria:   valorOr(req.Category, "meetings"),
		UsuarioID:   sc.UsuarioID,
		UsuarioTipo: sc.Rol,
		GymID:       gymPtr(sc),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	r := eventoToResponse(e)
	return &r, nil
}

func (s *calendarioService) ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.EventoResponse, error) {
	e, err := s.repo.FindByID(ctx, sc.Actor(), id)
	if err != nil {
		return nil, noEncontrado(err, msgEventoNoExiste)
	}
	r := eventoToResponse(e)
	return &r, nil
}

func (s *calendarioService) Listar(ctx context.Context, sc tenant.Scope, filter dto.EventoFilter) (*dto.EventoListResponse, error) {
	filter.Paginacion = filter.Paginacion.Normalizar()
	eventos, total, err := s.repo.List(ctx, sc.Actor(), filter)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.ContarPorCategoria(ctx, sc.Actor())
	if err != nil {
		return nil, err
	}
	return &dto.EventoListResponse{
		Events:     eventosToResponse(eventos),
		Pagination: dto.NuevaPaginacion(filter.Paginacion, total),
		Stats:      stats,
	}, nil
}

func (s *calendarioService) Hoy(ctx context.Context, sc tenant.Scope) ([]dto.EventoResponse, error) {
	now := s.now()
	hoy := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	eventos, err := s.repo.ListRango(ctx, sc.Actor(), hoy, hoy)
	if err != nil {
		return nil, err
	}
	return eventosToResponse(eventos), nil
}

// Rango lists events between start and end, both inclusive.
func (s *calendarioService) Rango(ctx context.Context, sc tenant.Scope, filter dto.RangoFechasFilter) ([]dto.EventoResponse, error) {
	desde, err := parseFechaEvento(filter.Start)
	if err != nil {
		return nil, err
	}
	hasta, err := parseFechaEvento(filter.End)
	if err != nil {
		return nil, err
	}
	if hasta.Before(desde) {
		return nil, apierror.Validation("La fecha final debe ser igual o posterior a la inicial")
	}
	eventos, err := s.repo.ListRango(ctx, sc.Actor(), desde, hasta)
	if err != nil {
		return nil, err
	}
	return eventosToResponse(eventos), nil
}

func (s *calendarioService) Actualizar(ctx context.Context, sc tenant.Scope, id uuid.UUID, req dto.ActualizarEventoRequest) (*dto.EventoResponse, error) {
	e, err := s.repo.FindByID(ctx, sc.Actor(), id)
	if err != nil {
		return nil, noEncontrado(err, msgEventoNoExiste)
	}
	if req.Title != nil {
		e.Titulo = strings.TrimSpace(*req.Title)
	}
	if req.EventDate != nil {
		if e.FechaEvento, err = parseFechaEvento(*req.EventDate); err != nil {
			return nil, err
		}
	}
	if req.StartTime != nil {
		e.HoraInicio = *req.StartTime
	}
	if req.EndTime != nil {
		e.HoraFin = *req.EndTime
	}
	if req.Category != nil {
		e.Categoria = *req.Category
	}
	if err := validarHoras(e.HoraInicio, e.HoraFin); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	r := eventoToResponse(e)
	return &r, nil
}

func (s *calendarioService) Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error {
	return noEncontrado(s.repo.Delete(ctx, sc.Actor(), id), msgEventoNoExiste)
}

func parseFechaEvento(s string) (time.Time, error) {
	t, err := time.Parse(formatoFecha, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, apierror.Validation("Fecha inválida, use el formato YYYY-MM-DD", err)
	}
	return t, nil
}

func validarHoras(inicio, fin string) error {
	if fin <= inicio {
		return apierror.Validation("La hora de fin debe ser posterior a la hora de inicio")
	}
	return nil
}

func eventosToResponse(eventos []model.EventoCalendario) []dto.EventoResponse {
	out := make([]dto.EventoResponse, len(eventos))
	for i := range eventos {
		out[i] = eventoToResponse(&eventos[i])
	}
	return out
}

func eventoToResponse(e *model.EventoCalendario) dto.EventoResponse {
	return dto.EventoResponse{
		ID:        e.ID.String(),
		Title:     e.Titulo,
		EventDate: e.FechaEvento.Format(formatoFecha),
		StartTime: e.HoraInicio,
		EndTime:   e.HoraFin,
		Category:  e.Categoria,
		UserID:    e.UsuarioID.String(),
		UserType:  string(e.UsuarioTipo),
		CreatedAt: fmtTime(e.CreatedAt),
		UpdatedAt: fmtTime(e.UpdatedAt),
	}
}
