package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Rebalanceador is the part of MembresiaService the client lifecycle needs.
type Rebalanceador interface {
	Rebalance(ctx context.Context, gymID uuid.UUID) error
}

const msgClienteActivoDuplicado = "Ya existe un cliente activo con este correo en el gimnasio"

type ClienteService interface {
	Crear(ctx context.Context, sc tenant.Scope, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error
	Listar(ctx context.Context, sc tenant.Scope, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
	ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.ClienteResponse, error)
}

type clienteService struct {
	repo        repository.ClienteRepository
	membresias  repository.MembresiaRepository
	rebalancer  Rebalanceador
	directorio  Directorio
	telefonos   NormalizadorTelefono
	notificador Notificador
	metrics     *infra.Metrics
}

func NewClienteService(
	repo repository.ClienteRepository,
	membresias repository.MembresiaRepository,
	rebalancer Rebalanceador,
	directorio Directorio,
	telefonos NormalizadorTelefono,
	notificador Notificador,
	metrics *infra.Metrics,
) ClienteService {
	return &clienteService{
		repo:        repo,
		membresias:  membresias,
		rebalancer:  rebalancer,
		directorio:  directorio,
		telefonos:   telefonos,
		notificador: notificador,
		metrics:     metrics,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
//   1. Resolve the membership inside the caller's gym
//   2. Reject a second Activo client with the same email
//   3. Insert client, then +1 on the membership (undo: delete client)
//   4. Rebalance the gym and enqueue the welcome mail

func (s *clienteService) Crear(ctx context.Context, sc tenant.Scope, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	membresiaID, err := parseID(req.MembershipID, "membership_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.membresias.FindByID(ctx, sc.GymID, membresiaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Validation("La membresía no existe en este gimnasio")
		}
		return nil, err
	}

	c := &model.Cliente{
		NombreCompleto: model.NombreCompleto{
			Nombre:          strings.TrimSpace(req.FullName.First),
			ApellidoPaterno: strings.TrimSpace(req.FullName.LastFather),
			ApellidoMaterno: strings.TrimSpace(req.FullName.LastMother),
		},
		FechaNacimiento: req.BirthDate.Ptr(),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		RFC:             strings.ToUpper(strings.TrimSpace(req.RFC)),
		MembresiaID:     membresiaID,
		FechaInicio:     req.StartDate.Ptr(),
		FechaFin:        req.EndDate.Ptr(),
		Estado:          valorOr(req.Status, model.ClienteActivo),
		GymID:           sc.GymID,
		Auditoria:       model.NuevaAuditoria(sc.Actor()),
	}
	if c.Telefono, err = normalizarTelefono(s.telefonos, req.Phone); err != nil {
		return nil, err
	}
	if req.EmergencyContact != nil {
		c.ContactoEmergencia = model.ContactoEmergencia{Nombre: req.EmergencyContact.Name, Telefono: req.EmergencyContact.Phone}
	}
	if req.Payment != nil {
		c.Pago = model.Pago{Metodo: req.Payment.Method, Monto: req.Payment.Amount, Moneda: valorOr(req.Payment.Currency, "MXN")}
	}
	if err := validarFechasCliente(c); err != nil {
		return nil, err
	}

	if c.Activo() {
		if err := s.verificarActivoUnico(ctx, c); err != nil {
			return nil, err
		}
	}

	sg := nuevaSaga("cliente_crear", s.metrics)
	err = sg.Paso(ctx, "insertar cliente",
		func(ctx context.Context) error {
			return duplicado(s.repo.Create(ctx, c), msgClienteActivoDuplicado)
		},
		func(ctx context.Context) error { return s.repo.Delete(ctx, c.GymID, c.ID) },
	)
	if err != nil {
		return nil, err
	}
	err = sg.Paso(ctx, "inscribir en membresía",
		func(ctx context.Context) error { return s.membresias.IncrementarUsuarios(ctx, c.GymID, membresiaID, 1) },
		nil,
	)
	if err != nil {
		return nil, sg.Abortar(ctx, err)
	}

	s.rebalance(ctx, sc.GymID)
	s.bienvenida(ctx, c)

	return s.toResponse(ctx, c), nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Counter moves only when membership_id actually changes:
// old -1 (undo +1), new +1, then Rebalance.

func (s *clienteService) Actualizar(ctx context.Context, sc tenant.Scope, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	id, err := parseID(req.ID, "id")
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return nil, noEncontrado(err, "Cliente no encontrado")
	}
	original := *c

	if req.FullName != nil {
		c.NombreCompleto = model.NombreCompleto{
			Nombre:          strings.TrimSpace(req.FullName.First),
			ApellidoPaterno: strings.TrimSpace(req.FullName.LastFather),
			ApellidoMaterno: strings.TrimSpace(req.FullName.LastMother),
		}
	}
	if req.BirthDate != nil {
		c.FechaNacimiento = req.BirthDate.Ptr()
	}
	if req.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		if c.Telefono, err = normalizarTelefono(s.telefonos, *req.Phone); err != nil {
			return nil, err
		}
	}
	if req.RFC != nil {
		c.RFC = strings.ToUpper(strings.TrimSpace(*req.RFC))
	}
	if req.EmergencyContact != nil {
		c.ContactoEmergencia = model.ContactoEmergencia{Nombre: req.EmergencyContact.Name, Telefono: req.EmergencyContact.Phone}
	}
	if req.StartDate != nil {
		c.FechaInicio = req.StartDate.Ptr()
	}
	if req.EndDate != nil {
		c.FechaFin = req.EndDate.Ptr()
	}
	if req.Status != nil {
		c.Estado = *req.Status
	}
	if req.Payment != nil {
		c.Pago = model.Pago{Metodo: req.Payment.Method, Monto: req.Payment.Amount, Moneda: valorOr(req.Payment.Currency, "MXN")}
	}

	cambioMembresia := false
	if req.MembershipID != nil {
		nueva, err := parseID(*req.MembershipID, "membership_id")
		if err != nil {
			return nil, err
		}
		if nueva != original.MembresiaID {
			if _, err := s.membresias.FindByID(ctx, sc.GymID, nueva); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apierror.Validation("La membresía no existe en este gimnasio")
				}
				return nil, err
			}
			c.MembresiaID = nueva
			cambioMembresia = true
		}
	}
	if err := validarFechasCliente(c); err != nil {
		return nil, err
	}
	if c.Activo() {
		if err := s.verificarActivoUnico(ctx, c); err != nil {
			return nil, err
		}
	}
	c.MarcarActualizado(sc.Actor())

	sg := nuevaSaga("cliente_actualizar", s.metrics)
	err = sg.Paso(ctx, "guardar cliente",
		func(ctx context.Context) error {
			return duplicado(s.repo.Update(ctx, c), msgClienteActivoDuplicado)
		},
		func(ctx context.Context) error { return s.repo.Update(ctx, &original) },
	)
	if err != nil {
		return nil, err
	}

	if cambioMembresia {
		err = sg.Paso(ctx, "liberar membresía anterior",
			func(ctx context.Context) error {
				return s.membresias.IncrementarUsuarios(ctx, sc.GymID, original.MembresiaID, -1)
			},
			func(ctx context.Context) error {
				return s.membresias.IncrementarUsuarios(ctx, sc.GymID, original.MembresiaID, 1)
			},
		)
		if err == nil {
			err = sg.Paso(ctx, "inscribir en membresía nueva",
				func(ctx context.Context) error {
					return s.membresias.IncrementarUsuarios(ctx, sc.GymID, c.MembresiaID, 1)
				},
				nil,
			)
		}
		if err != nil {
			return nil, sg.Abortar(ctx, err)
		}
		s.rebalance(ctx, sc.GymID)
	}

	return s.toResponse(ctx, c), nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *clienteService) Eliminar(ctx context.Context, sc tenant.Scope, id uuid.UUID) error {
	if err := sc.RequireGym(); err != nil {
		return err
	}
	c, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return noEncontrado(err, "Cliente no encontrado")
	}

	sg := nuevaSaga("cliente_eliminar", s.metrics)
	err = sg.Paso(ctx, "eliminar cliente",
		func(ctx context.Context) error {
			return noEncontrado(s.repo.Delete(ctx, sc.GymID, id), "Cliente no encontrado")
		},
		func(ctx context.Context) error { return s.repo.Create(ctx, c) },
	)
	if err != nil {
		return err
	}
	err = sg.Paso(ctx, "liberar membresía",
		func(ctx context.Context) error {
			return s.membresias.IncrementarUsuarios(ctx, sc.GymID, c.MembresiaID, -1)
		},
		nil,
	)
	if err != nil {
		return sg.Abortar(ctx, err)
	}

	s.rebalance(ctx, sc.GymID)
	return nil
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (s *clienteService) Listar(ctx context.Context, sc tenant.Scope, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	filter.Paginacion = filter.Paginacion.Normalizar()
	clientes, total, err := s.repo.List(ctx, sc.GymID, filter)
	if err != nil {
		return nil, err
	}

	var refs []model.RefUsuario
	for _, c := range clientes {
		refs = append(refs, referenciasAuditoria(c.Auditoria)...)
	}
	nombres := s.directorio.Resolver(ctx, refs)

	resp := &dto.ClienteListResponse{
		Clients:    make([]dto.ClienteResponse, 0, len(clientes)),
		Pagination: dto.NuevaPaginacion(filter.Paginacion, total),
	}
	for i := range clientes {
		resp.Clients = append(resp.Clients, clienteToResponse(&clientes[i], nombres))
	}
	return resp, nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.ClienteResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, sc.GymID, id)
	if err != nil {
		return nil, noEncontrado(err, "Cliente no encontrado")
	}
	return s.toResponse(ctx, c), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *clienteService) verificarActivoUnico(ctx context.Context, c *model.Cliente) error {
	existe, err := s.repo.ExisteActivo(ctx, c.GymID, c.Email, c.ID)
	if err != nil {
		return err
	}
	if existe {
		return apierror.Conflict(msgClienteActivoDuplicado)
	}
	return nil
}

func (s *clienteService) rebalance(ctx context.Context, gymID uuid.UUID) {
	if err := s.rebalancer.Rebalance(ctx, gymID); err != nil {
		log.Error().Err(err).Str("gym_id", gymID.String()).Msg("cliente: rebalance failed")
	}
}

func (s *clienteService) bienvenida(ctx context.Context, c *model.Cliente) {
	if s.notificador == nil || c.Email == "" {
		return
	}
	payload := worker.EmailJobPayload{
		To:      []string{c.Email},
		Subject: "Bienvenido a tu gimnasio",
		Body:    fmt.Sprintf("Hola %s, tu registro quedó completo. ¡Te esperamos!", c.NombreCompleto.Nombre),
	}
	if err := s.notificador.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("cliente_id", c.ID.String()).Msg("cliente: welcome mail not enqueued")
	}
}

func (s *clienteService) toResponse(ctx context.Context, c *model.Cliente) *dto.ClienteResponse {
	nombres := s.directorio.Resolver(ctx, referenciasAuditoria(c.Auditoria))
	r := clienteToResponse(c, nombres)
	return &r
}

func validarFechasCliente(c *model.Cliente) error {
	if c.FechaInicio != nil && c.FechaFin != nil && c.FechaFin.Before(*c.FechaInicio) {
		return apierror.Validation("La fecha de fin no puede ser anterior a la de inicio")
	}
	return nil
}

func clienteToResponse(c *model.Cliente, nombres map[model.RefUsuario]string) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID: c.ID.String(),
		FullName: dto.NombreCompletoDTO{
			First:      c.NombreCompleto.Nombre,
			LastFather: c.NombreCompleto.ApellidoPaterno,
			LastMother: c.NombreCompleto.ApellidoMaterno,
		},
		BirthDate:        fmtFechaPtr(c.FechaNacimiento),
		Email:            c.Email,
		Phone:            c.Telefono,
		RFC:              c.RFC,
		EmergencyContact: dto.ContactoEmergenciaDTO{Name: c.ContactoEmergencia.Nombre, Phone: c.ContactoEmergencia.Telefono},
		MembershipID:     c.MembresiaID.String(),
		StartDate:        fmtFechaPtr(c.FechaInicio),
		EndDate:          fmtFechaPtr(c.FechaFin),
		Status:           c.Estado,
		Payment:          dto.PagoDTO{Method: c.Pago.Metodo, Amount: c.Pago.Monto, Currency: c.Pago.Moneda},
		GymID:            c.GymID.String(),
		RegisteredBy:     refResponse(c.RegistradoPor(), nombres),
		UpdatedBy:        refResponsePtr(c.ActualizadoPor(), nombres),
		CreatedAt:        fmtTime(c.CreatedAt),
		UpdatedAt:        fmtTime(c.UpdatedAt),
	}
}
