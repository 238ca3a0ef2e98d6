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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgGimnasioNoExiste = "Gimnasio no encontrado"
	msgNombreGimnasio   = "Ya existe un gimnasio con ese nombre"
)

// GimnasioService manages the tenant root. Only the owning administrator
// reaches these operations.
type GimnasioService interface {
	Crear(ctx context.Context, sc tenant.Scope, req dto.CrearGimnasioRequest) (*dto.GimnasioCreadoResponse, error)
	MiGimnasio(ctx context.Context, sc tenant.Scope) (*dto.GimnasioResponse, error)
	Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarGimnasioRequest) (*dto.GimnasioResponse, error)
	Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error
}

type gimnasioService struct {
	repo          repository.GimnasioRepository
	admins        repository.AdminRepository
	colaboradores repository.ColaboradorRepository
	tokens        *Tokens
	imagenes      RedimensionadorImagen
	metrics       *infra.Metrics
}

func NewGimnasioService(
	repo repository.GimnasioRepository,
	admins repository.AdminRepository,
	colaboradores repository.ColaboradorRepository,
	tokens *Tokens,
	imagenes RedimensionadorImagen,
	metrics *infra.Metrics,
) GimnasioService {
	return &gimnasioService{
		repo:          repo,
		admins:        admins,
		colaboradores: colaboradores,
		tokens:        tokens,
		imagenes:      imagenes,
		metrics:       metrics,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
//   1. The admin must not own a gym yet and the name must be free
//   2. Insert gym (undo: delete gym)
//   3. Point admin.gym_id at it
//   4. Issue a token that carries the new gym_id

func (s *gimnasioService) Crear(ctx context.Context, sc tenant.Scope, req dto.CrearGimnasioRequest) (*dto.GimnasioCreadoResponse, error) {
	if err := sc.RequireAdmin(); err != nil {
		return nil, err
	}
	admin, err := s.admins.FindByID(ctx, sc.UsuarioID)
	if err != nil {
		return nil, noEncontrado(err, "Administrador no encontrado")
	}
	if admin.GymID != nil {
		return nil, apierror.Conflict("El administrador ya tiene un gimnasio registrado")
	}
	nombre := strings.TrimSpace(req.Name)
	if err := s.verificarNombre(ctx, nombre, uuid.Nil); err != nil {
		return nil, err
	}
	if err := validarHorario(req.OpeningTime, req.ClosingTime); err != nil {
		return nil, err
	}
	logo, err := redimensionar(s.imagenes, req.LogoURL)
	if err != nil {
		return nil, err
	}

	g := &model.Gimnasio{
		Nombre:       nombre,
		Direccion:    datatypes.NewJSONType(direccionFromDTO(req.Address)),
		HoraApertura: req.OpeningTime,
		HoraCierre:   req.ClosingTime,
		LogoURL:      logo,
	}

	sg := nuevaSaga("gimnasio_crear", s.metrics)
	err = sg.Paso(ctx, "insertar gimnasio",
		func(ctx context.Context) error { return duplicado(s.repo.Create(ctx, g), msgNombreGimnasio) },
		func(ctx context.Context) error { return s.repo.Delete(ctx, g.ID) },
	)
	if err != nil {
		return nil, err
	}
	err = sg.Paso(ctx, "asignar administrador",
		func(ctx context.Context) error { return s.admins.AsignarGym(ctx, admin.ID, &g.ID) },
		nil,
	)
	if err != nil {
		return nil, sg.Abortar(ctx, err)
	}

	token, err := s.tokens.Emitir(sc.Actor(), admin.NombreCompleto(), &g.ID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("gym_id", g.ID.String()).Str("admin_id", admin.ID.String()).Msg("gimnasio creado")

	return &dto.GimnasioCreadoResponse{
		Message: "Gimnasio creado exitosamente",
		Gym:     gimnasioToResponse(g),
		Token:   token,
	}, nil
}

func (s *gimnasioService) MiGimnasio(ctx context.Context, sc tenant.Scope) (*dto.GimnasioResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	g, err := s.repo.FindByID(ctx, sc.GymID)
	if err != nil {
		return nil, noEncontrado(err, msgGimnasioNoExiste)
	}
	r := gimnasioToResponse(g)
	return &r, nil
}

func (s *gimnasioService) Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarGimnasioRequest) (*dto.GimnasioResponse, error) {
	id, err := parseID(req.ID, "id")
	if err != nil {
		return nil, err
	}
	g, err := s.propio(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		nombre := strings.TrimSpace(*req.Name)
		if !strings.EqualFold(nombre, g.Nombre) {
			if err := s.verificarNombre(ctx, nombre, g.ID); err != nil {
				return nil, err
			}
		}
		g.Nombre = nombre
	}
	if req.Address != nil {
		g.Direccion = datatypes.NewJSONType(direccionFromDTO(*req.Address))
	}
	if req.OpeningTime != nil {
		g.HoraApertura = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		g.HoraCierre = *req.ClosingTime
	}
	if err := validarHorario(g.HoraApertura, g.HoraCierre); err != nil {
		return nil, err
	}
	if req.LogoURL != nil {
		if g.LogoURL, err = redimensionar(s.imagenes, req.LogoURL); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, duplicado(err, msgNombreGimnasio)
	}
	r := gimnasioToResponse(g)
	return &r, nil
}

// Eliminar refuses while any dependent record exists and then clears the
// gym reference of every admin and colaborador. Tokens already issued keep
// the old gym_id until they expire.
func (s *gimnasioService) Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error {
	if _, err := s.propio(ctx, sc, id); err != nil {
		return err
	}
	deps, err := s.repo.ContarDependencias(ctx, id)
	if err != nil {
		return err
	}
	if deps.Total() > 0 {
		return apierror.Conflict("No se puede eliminar el gimnasio: tiene registros asociados").
			WithDetails(map[string]any{"dependencies": deps})
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return noEncontrado(err, msgGimnasioNoExiste)
	}

	// Unlink failures are logged only: the gym row is already deleted.
	if err := s.admins.DesvincularGym(ctx, id); err != nil {
		log.Error().Err(err).Str("gym_id", id.String()).Msg("gimnasio: unlink admins failed")
	}
	if err := s.colaboradores.DesvincularGym(ctx, id); err != nil {
		log.Error().Err(err).Str("gym_id", id.String()).Msg("gimnasio: unlink colaboradores failed")
	}
	return nil
}

// propio returns the gym only when it is the caller's. A foreign gym is
// reported as Forbidden, a missing one as NotFound.
func (s *gimnasioService) propio(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*model.Gimnasio, error) {
	if err := sc.RequireAdmin(); err != nil {
		return nil, err
	}
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, msgGimnasioNoExiste)
	}
	if !sc.Owns(g.ID) {
		return nil, apierror.Forbidden("Solo puedes administrar tu propio gimnasio")
	}
	return g, nil
}

func (s *gimnasioService) verificarNombre(ctx context.Context, nombre string, excluir uuid.UUID) error {
	g, err := s.repo.FindByNombre(ctx, nombre)
	if err == nil && g.ID != excluir {
		return apierror.Conflict(msgNombreGimnasio)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// validarHorario compares HH:MM strings; the format itself is checked by
// the hhmm validator.
func validarHorario(apertura, cierre string) error {
	if apertura != "" && cierre != "" && cierre <= apertura {
		return apierror.Validation("La hora de cierre debe ser posterior a la de apertura")
	}
	return nil
}

func direccionFromDTO(d dto.DireccionDTO) model.Direccion {
	return model.Direccion{
		Calle:        d.Street,
		Colonia:      d.Colony,
		Avenida:      d.Avenue,
		CodigoPostal: d.CP,
		Ciudad:       d.City,
		Estado:       d.State,
		Pais:         d.Country,
	}
}

func gimnasioToResponse(g *model.Gimnasio) dto.GimnasioResponse {
	d := g.Direccion.Data()
	return dto.GimnasioResponse{
		ID:   g.ID.String(),
		Name: g.Nombre,
		Address: dto.DireccionDTO{
			Street:  d.Calle,
			Colony:  d.Colonia,
			Avenue:  d.Avenida,
			CP:      d.CodigoPostal,
			City:    d.Ciudad,
			State:   d.Estado,
			Country: d.Pais,
		},
		OpeningTime: g.HoraApertura,
		ClosingTime: g.HoraCierre,
		LogoURL:     g.LogoURL,
		CreatedAt:   fmtTime(g.CreatedAt),
		UpdatedAt:   fmtTime(g.UpdatedAt),
	}
}
