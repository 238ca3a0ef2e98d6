// Package tenant carries the caller's identity from the HTTP layer into
// services. Every gym-scoped query filters by Scope.GymID.
package tenant

import (
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/google/uuid"
)

// Scope is the authenticated identity of a request.
type Scope struct {
	UsuarioID uuid.UUID
	Rol       model.TipoUsuario
	Nombre    string
	// GymID is uuid.Nil for an administrator that has not created a gym yet.
	GymID uuid.UUID
}

func (s Scope) Actor() model.RefUsuario {
	return model.RefUsuario{Tipo: s.Rol, ID: s.UsuarioID}
}

func (s Scope) EsAdmin() bool { return s.Rol == model.TipoAdministrador }

func (s Scope) TieneGym() bool { return s.GymID != uuid.Nil }

// RequireGym fails when the caller carries no gym.
func (s Scope) RequireGym() error {
	if !s.TieneGym() {
		return apierror.Validation("Se requiere un gimnasio asociado al usuario")
	}
	return nil
}

// RequireAdmin fails unless the caller is an Administrador.
func (s Scope) RequireAdmin() error {
	if !s.EsAdmin() {
		return apierror.Forbidden("Acceso denegado: se requiere rol de Administrador")
	}
	return nil
}

// Owns reports whether gymID is the caller's gym.
func (s Scope) Owns(gymID uuid.UUID) bool {
	return s.TieneGym() && gymID == s.GymID
}
