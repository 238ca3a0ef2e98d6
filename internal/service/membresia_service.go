package service

import (
	"context"
	"errors"
	"strings"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Locker serialises work per gym. *infra.GymLocker satisfies it.
type Locker interface {
	WithLock(ctx context.Context, scope, gymID string, fn func(ctx context.Context) error) error
}

const lockMembresias = "membresias"

// MembresiaService owns the membership plans of a gym and the usage share
// derived from their enrollment counters.
type MembresiaService interface {
	Crear(ctx context.Context, sc tenant.Scope, req dto.CrearMembresiaRequest) (*dto.MembresiaResponse, error)
	Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarMembresiaRequest) (*dto.MembresiaResponse, error)
	Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error
	Listar(ctx context.Context, sc tenant.Scope) (*dto.MembresiaListResponse, error)
	ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.MembresiaResponse, error)

	// Rebalance recomputes porcentaje_uso for every membership of the gym from
	// the current cantidad_usuarios values. Safe to call any number of times.
	Rebalance(ctx context.Context, gymID uuid.UUID) error
}

type membresiaService struct {
	repo     repository.MembresiaRepository
	clientes repository.ClienteRepository
	locker   Locker
	metrics  *infra.Metrics
}

func NewMembresiaService(repo repository.MembresiaRepository, clientes repository.ClienteRepository, locker Locker, metrics *infra.Metrics) MembresiaService {
	return &membresiaService{repo: repo, clientes: clientes, locker: locker, metrics: metrics}
}

func (s *membresiaService) Crear(ctx context.Context, sc tenant.Scope, req dto.CrearMembresiaRequest) (*dto.MembresiaResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, apierror.Validation("El precio no puede ser negativo")
	}
	m := &model.Membresia{
		Nombre:       strings.TrimSpace(req.NameMembership),
		Descripcion:  req.Description,
		Precio:       req.Price,
		DuracionDias: req.DurationDays,
		Periodo:      req.Period,
		Estado:       valorOr(req.Status, model.MembresiaActivada),
		Moneda:       valorOr(req.Currency, "MXN"),
		Color:        valorOr(req.Color, "Verde"),
		GymID:        sc.GymID,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	// A new plan has no clients; the other shares do not move.
	return membresiaToResponse(m), nil
}

func (s *membresiaService) Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarMembresiaRequest) (*dto.MembresiaResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	id, err := parseID(req.ID, "id")
	if err != nil {
		return nil, err
	}
	m, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return nil, noEncontrado(err, "Membresía no encontrada")
	}

	if req.NameMembership != nil {
		m.Nombre = strings.TrimSpace(*req.NameMembership)
	}
	if req.Description != nil {
		m.Descripcion = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apierror.Validation("El precio no puede ser negativo")
		}
		m.Precio = *req.Price
	}
	if req.DurationDays != nil {
		m.DuracionDias = *req.DurationDays
	}
	if req.Period != nil {
		m.Periodo = *req.Period
	}
	if req.Status != nil {
		m.Estado = *req.Status
	}
	if req.Currency != nil {
		m.Moneda = *req.Currency
	}
	if req.Color != nil {
		m.Color = *req.Color
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return membresiaToResponse(m), nil
}

func (s *membresiaService) Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error {
	if err := sc.RequireGym(); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, sc.GymID, id); err != nil {
		return noEncontrado(err, "Membresía no encontrada")
	}
	n, err := s.clientes.ContarPorMembresia(ctx, sc.GymID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apierror.Conflict("No se puede eliminar la membresía: hay clientes inscritos").
			WithDetails(map[string]any{"clients": n})
	}
	if err := s.repo.Delete(ctx, sc.GymID, id); err != nil {
		return noEncontrado(err, "Membresía no encontrada")
	}
	s.rebalanceBestEffort(ctx, sc.GymID)
	return nil
}

func (s *membresiaService) Listar(ctx context.Context, sc tenant.Scope) (*dto.MembresiaListResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	ms, err := s.repo.ListByGym(ctx, sc.GymID)
	if err != nil {
		return nil, err
	}
	resp := &dto.MembresiaListResponse{Memberships: make([]dto.MembresiaResponse, 0, len(ms))}
	for i := range ms {
		resp.Memberships = append(resp.Memberships, *membresiaToResponse(&ms[i]))
		resp.TotalUsuarios += ms[i].CantidadUsuarios
	}
	return resp, nil
}

func (s *membresiaService) ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.MembresiaResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	m, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return nil, noEncontrado(err, "Membresía no encontrada")
	}
	return membresiaToResponse(m), nil
}

// ── Rebalance ─────────────────────────────────────────────────────────────────

func (s *membresiaService) Rebalance(ctx context.Context, gymID uuid.UUID) error {
	err := s.conLock(ctx, gymID, func(ctx context.Context) error {
		ms, err := s.repo.ListByGym(ctx, gymID)
		if err != nil {
			return err
		}
		porcentajes := model.CalcularPorcentajes(ms)
		cambios := make(map[uuid.UUID]int)
		for _, m := range ms {
			if m.PorcentajeUso != porcentajes[m.ID] {
				cambios[m.ID] = porcentajes[m.ID]
			}
		}
		if len(cambios) == 0 {
			return nil
		}
		return s.repo.ActualizarPorcentajes(ctx, gymID, cambios)
	})
	if err != nil {
		s.metrics.Rebalanceo("error")
		return err
	}
	s.metrics.Rebalanceo("ok")
	return nil
}

// conLock runs fn under the per-gym lock. Without a locker, or when the lock
// stays busy, fn runs unlocked: the recomputation is idempotent.
func (s *membresiaService) conLock(ctx context.Context, gymID uuid.UUID, fn func(ctx context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}
	err := s.locker.WithLock(ctx, lockMembresias, gymID.String(), fn)
	if errors.Is(err, infra.ErrLockBusy) {
		log.Warn().Str("gym_id", gymID.String()).Msg("rebalance: lock busy, running unlocked")
		return fn(ctx)
	}
	return err
}

// rebalanceBestEffort is used after a write that already committed: a failed
// recomputation is logged and repaired by the next Rebalance of the gym.
func (s *membresiaService) rebalanceBestEffort(ctx context.Context, gymID uuid.UUID) {
	if err := s.Rebalance(ctx, gymID); err != nil {
		log.Error().Err(err).Str("gym_id", gymID.String()).Msg("rebalance failed")
	}
}

func valorOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func membresiaToResponse(m *model.Membresia) *dto.MembresiaResponse {
	return &dto.MembresiaResponse{
		ID:               m.ID.String(),
		NameMembership:   m.Nombre,
		Description:      m.Descripcion,
		Price:            m.Precio,
		DurationDays:     m.DuracionDias,
		Period:           m.Periodo,
		Status:           m.Estado,
		Currency:         m.Moneda,
		Color:            m.Color,
		CantidadUsuarios: m.CantidadUsuarios,
		PorcentajeUso:    m.PorcentajeUso,
		GymID:            m.GymID.String(),
		CreatedAt:        fmtTime(m.CreatedAt),
		UpdatedAt:        fmtTime(m.UpdatedAt),
	}
}
