package service

import (
	"context"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"

	"github.com/rs/zerolog/log"
)

// Directorio resolves audit references to display names. Unknown or deleted
// users resolve to "".
type Directorio interface {
	Nombre(ctx context.Context, ref model.RefUsuario) string
	Resolver(ctx context.Context, refs []model.RefUsuario) map[model.RefUsuario]string
}

type directorio struct {
	admins        repository.AdminRepository
	colaboradores repository.ColaboradorRepository
}

func NewDirectorio(admins repository.AdminRepository, colaboradores repository.ColaboradorRepository) Directorio {
	return &directorio{admins: admins, colaboradores: colaboradores}
}

func (d *directorio) Nombre(ctx context.Context, ref model.RefUsuario) string {
	if ref.IsZero() {
		return ""
	}
	switch ref.Tipo {
	case model.TipoAdministrador:
		if a, err := d.admins.FindByID(ctx, ref.ID); err == nil {
			return a.NombreCompleto()
		}
	case model.TipoColaborador:
		if c, err := d.colaboradores.FindByID(ctx, ref.ID); err == nil {
			return c.NombreCompleto()
		}
	default:
		log.Warn().Str("tipo", string(ref.Tipo)).Msg("directorio: unknown user type")
	}
	return ""
}

func (d *directorio) Resolver(ctx context.Context, refs []model.RefUsuario) map[model.RefUsuario]string {
	out := make(map[model.RefUsuario]string, len(refs))
	for _, ref := range refs {
		if _, ok := out[ref]; ok {
			continue
		}
		out[ref] = d.Nombre(ctx, ref)
	}
	return out
}

// referenciasAuditoria collects the audit refs of a record.
func referenciasAuditoria(a model.Auditoria) []model.RefUsuario {
	refs := []model.RefUsuario{a.RegistradoPor()}
	if upd := a.ActualizadoPor(); upd != nil {
		refs = append(refs, *upd)
	}
	return refs
}

func refResponse(ref model.RefUsuario, nombres map[model.RefUsuario]string) dto.RefUsuarioResponse {
	return dto.RefUsuarioResponse{ID: ref.ID.String(), Type: string(ref.Tipo), Nombre: nombres[ref]}
}

func refResponsePtr(ref *model.RefUsuario, nombres map[model.RefUsuario]string) *dto.RefUsuarioResponse {
	if ref == nil {
		return nil
	}
	r := refResponse(*ref, nombres)
	return &r
}
