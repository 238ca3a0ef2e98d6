package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	bcryptCost             = 12
	msgCredenciales        = "credenciales invalidas"
	msgColaboradorNoExiste = "Colaborador no encontrado"
)

// AuthService covers both account collections: administrators register
// themselves, colaboradores are managed by the administrator of their gym.
type AuthService interface {
	RegistrarAdmin(ctx context.Context, req dto.RegistrarAdminRequest) (*dto.AdminRegistradoResponse, error)
	LoginAdmin(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	LoginColaborador(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Perfil(ctx context.Context, sc tenant.Scope) (*dto.UsuarioResponse, error)

	RegistrarColaborador(ctx context.Context, sc tenant.Scope, req dto.RegistrarColaboradorRequest) (*dto.ColaboradorRegistradoResponse, error)
	ListarColaboradores(ctx context.Context, sc tenant.Scope) ([]dto.ColaboradorResponse, error)
	ObtenerColaborador(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.ColaboradorResponse, error)
	ActualizarColaborador(ctx context.Context, sc tenant.Scope, req dto.ActualizarColaboradorRequest) (*dto.ColaboradorResponse, error)
	EliminarColaborador(ctx context.Context, sc tenant.Scope, id uuid.UUID) error
}

type authService struct {
	admins        repository.AdminRepository
	colaboradores repository.ColaboradorRepository
	tokens        *Tokens
	telefonos     NormalizadorTelefono
}

func NewAuthService(admins repository.AdminRepository, colaboradores repository.ColaboradorRepository, tokens *Tokens, telefonos NormalizadorTelefono) AuthService {
	return &authService{admins: admins, colaboradores: colaboradores, tokens: tokens, telefonos: telefonos}
}

// ── Administrador ─────────────────────────────────────────────────────────────

func (s *authService) RegistrarAdmin(ctx context.Context, req dto.RegistrarAdminRequest) (*dto.AdminRegistradoResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.admins.FindByEmail(ctx, email); err == nil {
		return nil, apierror.Conflict("El correo ya está registrado")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	tel, err := normalizarTelefono(s.telefonos, req.Phone)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	codigo := strings.TrimSpace(req.AdminCode)
	if codigo == "" {
		codigo = "ADM" + generarCodigo(req.Name, req.LastName)
	}
	admin := &model.Administrador{
		Username:     strings.TrimSpace(req.Username),
		Nombre:       strings.TrimSpace(req.Name),
		Apellido:     strings.TrimSpace(req.LastName),
		Email:        email,
		Telefono:     tel,
		PasswordHash: string(hash),
		CodigoAdmin:  codigo,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, duplicado(err, "El correo ya está registrado")
	}
	return &dto.AdminRegistradoResponse{
		Message: "Administrador creado exitosamente",
		Admin:   adminToUsuario(admin),
	}, nil
}

func (s *authService) LoginAdmin(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	admin, err := s.admins.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Unauthorized(msgCredenciales)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Unauthorized(msgCredenciales)
	}
	return s.login(model.RefUsuario{Tipo: model.TipoAdministrador, ID: admin.ID}, admin.NombreCompleto(), admin.GymID, adminToUsuario(admin))
}

func (s *authService) LoginColaborador(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	c, err := s.colaboradores.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Unauthorized(msgCredenciales)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Unauthorized(msgCredenciales)
	}
	if c.GymID == nil {
		return nil, apierror.Forbidden("El colaborador no está asignado a ningún gimnasio")
	}
	return s.login(model.RefUsuario{Tipo: model.TipoColaborador, ID: c.ID}, c.NombreCompleto(), c.GymID, colaboradorToUsuario(c))
}

func (s *authService) login(ref model.RefUsuario, nombre string, gymID *uuid.UUID, user dto.UsuarioResponse) (*dto.LoginResponse, error) {
	token, err := s.tokens.Emitir(ref, nombre, gymID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Message:   "Inicio de sesión exitoso",
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: s.tokens.TTL(),
		User:      user,
	}, nil
}

func (s *authService) Perfil(ctx context.Context, sc tenant.Scope) (*dto.UsuarioResponse, error) {
	switch sc.Rol {
	case model.TipoAdministrador:
		a, err := s.admins.FindByID(ctx, sc.UsuarioID)
		if err != nil {
			return nil, noEncontrado(err, "Administrador no encontrado")
		}
		u := adminToUsuario(a)
		return &u, nil
	case model.TipoColaborador:
		c, err := s.colaboradores.FindByID(ctx, sc.UsuarioID)
		if err != nil {
			return nil, noEncontrado(err, msgColaboradorNoExiste)
		}
		u := colaboradorToUsuario(c)
		return &u, nil
	}
	return nil, apierror.Forbidden("Rol desconocido")
}

// ── Colaboradores ─────────────────────────────────────────────────────────────

func (s *authService) RegistrarColaborador(ctx context.Context, sc tenant.Scope, req dto.RegistrarColaboradorRequest) (*dto.ColaboradorRegistradoResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if err := s.verificarColaboradorUnico(ctx, uuid.Nil, email, username); err != nil {
		return nil, err
	}
	tel, err := normalizarTelefono(s.telefonos, req.Phone)
	if err != nil {
		return nil, err
	}
	horario, err := horarioFromDTO(req.WorkingHour)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	gymID := sc.GymID
	c := &model.Colaborador{
		Username:          username,
		Nombre:            strings.TrimSpace(req.Name),
		Apellido:          strings.TrimSpace(req.LastName),
		Email:             email,
		Telefono:          tel,
		PasswordHash:      string(hash),
		CodigoColaborador: generarCodigo(req.Name, req.LastName),
		Color:             valorOr(req.Color, "Verde"),
		HorarioLaboral:    datatypes.NewJSONType(horario),
		GymID:             &gymID,
	}
	if err := s.colaboradores.Create(ctx, c); err != nil {
		return nil, duplicado(err, "El correo o nombre de usuario ya está en uso")
	}
	return &dto.ColaboradorRegistradoResponse{
		Message:     "Colaborador registrado exitosamente",
		Colaborator: colaboradorToResponse(c),
	}, nil
}

func (s *authService) ListarColaboradores(ctx context.Context, sc tenant.Scope) ([]dto.ColaboradorResponse, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	cs, err := s.colaboradores.ListByGym(ctx, sc.GymID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ColaboradorResponse, len(cs))
	for i := range cs {
		out[i] = colaboradorToResponse(&cs[i])
	}
	return out, nil
}

func (s *authService) ObtenerColaborador(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*dto.ColaboradorResponse, error) {
	c, err := s.colaboradorDelGym(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	r := colaboradorToResponse(c)
	return &r, nil
}

func (s *authService) ActualizarColaborador(ctx context.Context, sc tenant.Scope, req dto.ActualizarColaboradorRequest) (*dto.ColaboradorResponse, error) {
	id, err := parseID(req.ID, "id")
	if err != nil {
		return nil, err
	}
	c, err := s.colaboradorDelGym(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	email, username := c.Email, c.Username
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
	}
	if email != c.Email || username != c.Username {
		if err := s.verificarColaboradorUnico(ctx, c.ID, email, username); err != nil {
			return nil, err
		}
	}
	c.Email, c.Username = email, username

	if req.Name != nil {
		c.Nombre = strings.TrimSpace(*req.Name)
	}
	if req.LastName != nil {
		c.Apellido = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		if c.Telefono, err = normalizarTelefono(s.telefonos, *req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Color != nil {
		c.Color = *req.Color
	}
	if req.WorkingHour != nil {
		horario, err := horarioFromDTO(req.WorkingHour)
		if err != nil {
			return nil, err
		}
		c.HorarioLaboral = datatypes.NewJSONType(horario)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		c.PasswordHash = string(hash)
	}

	if err := s.colaboradores.Update(ctx, c); err != nil {
		return nil, duplicado(err, "El correo o nombre de usuario ya está en uso")
	}
	r := colaboradorToResponse(c)
	return &r, nil
}

func (s *authService) EliminarColaborador(ctx context.Context, sc tenant.Scope, id uuid.UUID) error {
	if err := sc.RequireGym(); err != nil {
		return err
	}
	return noEncontrado(s.colaboradores.Delete(ctx, sc.GymID, id), msgColaboradorNoExiste)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// colaboradorDelGym hides colaboradores of other gyms behind NotFound.
func (s *authService) colaboradorDelGym(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*model.Colaborador, error) {
	if err := sc.RequireGym(); err != nil {
		return nil, err
	}
	c, err := s.colaboradores.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, msgColaboradorNoExiste)
	}
	if c.GymID == nil || !sc.Owns(*c.GymID) {
		return nil, apierror.NotFound(msgColaboradorNoExiste)
	}
	return c, nil
}

func (s *authService) verificarColaboradorUnico(ctx context.Context, excluir uuid.UUID, email, username string) error {
	if c, err := s.colaboradores.FindByEmail(ctx, email); err == nil && c.ID != excluir {
		return apierror.Conflict("Este correo ya está en uso.")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if c, err := s.colaboradores.FindByUsername(ctx, username); err == nil && c.ID != excluir {
		return apierror.Conflict("Este nombre de usuario ya está en uso.")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func horarioFromDTO(h *dto.HorarioLaboralDTO) (model.HorarioLaboral, error) {
	if h == nil {
		return model.HorarioLaboral{}, nil
	}
	if h.StartTime != "" && h.EndTime != "" && h.EndTime <= h.StartTime {
		return model.HorarioLaboral{}, apierror.Validation("La hora de salida debe ser posterior a la de entrada")
	}
	return model.HorarioLaboral{Dias: h.Days, HoraInicio: h.StartTime, HoraFin: h.EndTime}, nil
}

// generarCodigo builds initials (two last names, two first names) plus four
// random digits, e.g. "Ana María" "López Ruiz" -> "LRAM4821".
func generarCodigo(nombre, apellido string) string {
	var b strings.Builder
	for _, partes := range [][]string{strings.Fields(apellido), strings.Fields(nombre)} {
		for i, p := range partes {
			if i == 2 {
				break
			}
			b.WriteRune(unicode.ToUpper([]rune(p)[0]))
		}
	}
	return fmt.Sprintf("%s%d", b.String(), 1000+rand.Intn(9000))
}

func adminToUsuario(a *model.Administrador) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       a.ID.String(),
		Username: a.Username,
		Name:     a.Nombre,
		LastName: a.Apellido,
		Email:    a.Email,
		Role:     string(model.TipoAdministrador),
		GymID:    uuidPtrString(a.GymID),
		Code:     a.CodigoAdmin,
	}
}

func colaboradorToUsuario(c *model.Colaborador) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       c.ID.String(),
		Username: c.Username,
		Name:     c.Nombre,
		LastName: c.Apellido,
		Email:    c.Email,
		Role:     string(model.TipoColaborador),
		GymID:    uuidPtrString(c.GymID),
		Code:     c.CodigoColaborador,
	}
}

func colaboradorToResponse(c *model.Colaborador) dto.ColaboradorResponse {
	h := c.HorarioLaboral.Data()
	return dto.ColaboradorResponse{
		ID:              c.ID.String(),
		Username:        c.Username,
		Name:            c.Nombre,
		LastName:        c.Apellido,
		Email:           c.Email,
		Phone:           c.Telefono,
		ColaboratorCode: c.CodigoColaborador,
		Color:           c.Color,
		Role:            string(model.TipoColaborador),
		GymID:           uuidPtrString(c.GymID),
		WorkingHour:     dto.HorarioLaboralDTO{Days: h.Dias, StartTime: h.HoraInicio, EndTime: h.HoraFin},
		CreatedAt:       fmtTime(c.CreatedAt),
	}
}
