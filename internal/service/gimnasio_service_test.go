package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gimnasioFixture struct {
	svc           service.GimnasioService
	gimnasios     *stubGimnasioRepo
	admins        *stubAdminRepo
	colaboradores *stubColaboradorRepo
}

func newGimnasioFixture() *gimnasioFixture {
	f := &gimnasioFixture{
		gimnasios:     newStubGimnasioRepo(),
		admins:        newStubAdminRepo(),
		colaboradores: newStubColaboradorRepo(),
	}
	f.svc = service.NewGimnasioService(f.gimnasios, f.admins, f.colaboradores, service.NewTokens(testSecret, time.Hour), nil, nil)
	return f
}

func gimnasioReq(nombre string) dto.CrearGimnasioRequest {
	return dto.CrearGimnasioRequest{
		Name: nombre,
		Address: dto.DireccionDTO{
			Street: "Reforma 100", Colony: "Centro", Avenue: "Reforma", CP: "06000",
			City: "CDMX", State: "CDMX", Country: "México",
		},
		OpeningTime: "06:00",
		ClosingTime: "22:00",
	}
}

func TestGimnasioCrear_AsignaAdminYEmiteToken(t *testing.T) {
	f := newGimnasioFixture()
	adminID := uuid.New()
	f.admins.seed(adminID, "ana@gym.com", nil)

	resp, err := f.svc.Crear(context.Background(), adminScopeWithID(adminID, uuid.Nil), gimnasioReq("Iron Gym"))
	require.NoError(t, err)

	assert.Equal(t, "Iron Gym", resp.Gym.Name)
	assert.Equal(t, "06000", resp.Gym.Address.CP)
	admin := f.admins.admins[adminID]
	require.NotNil(t, admin.GymID)
	assert.Equal(t, resp.Gym.ID, admin.GymID.String())

	claims := parseClaims(t, resp.Token)
	assert.Equal(t, resp.Gym.ID, claims.GymID)
	assert.Equal(t, adminID.String(), claims.ID)
}

func TestGimnasioCrear_Rechazos(t *testing.T) {
	f := newGimnasioFixture()
	conGym := uuid.New()
	gymID := uuid.New()
	f.admins.seed(conGym, "con@gym.com", &gymID)
	libre := uuid.New()
	f.admins.seed(libre, "libre@gym.com", nil)
	f.gimnasios.gimnasios[gymID] = model.Gimnasio{ID: gymID, Nombre: "Iron Gym"}

	_, err := f.svc.Crear(context.Background(), adminScopeWithID(conGym, gymID), gimnasioReq("Otro"))
	assert.True(t, apierror.Is(err, apierror.KindConflict), "admin already owns a gym")

	_, err = f.svc.Crear(context.Background(), adminScopeWithID(libre, uuid.Nil), gimnasioReq("iron gym"))
	assert.True(t, apierror.Is(err, apierror.KindConflict), "name taken")

	req := gimnasioReq("Nuevo")
	req.ClosingTime = "05:00"
	_, err = f.svc.Crear(context.Background(), adminScopeWithID(libre, uuid.Nil), req)
	assert.True(t, apierror.Is(err, apierror.KindValidation))

	_, err = f.svc.Crear(context.Background(), colaboradorScope(uuid.Nil), gimnasioReq("Nuevo"))
	assert.True(t, apierror.Is(err, apierror.KindForbidden))
}

func TestGimnasioCrear_CompensaSiFallaLaAsignacion(t *testing.T) {
	f := newGimnasioFixture()
	adminID := uuid.New()
	f.admins.seed(adminID, "ana@gym.com", nil)
	f.admins.failAsigna = errStub

	_, err := f.svc.Crear(context.Background(), adminScopeWithID(adminID, uuid.Nil), gimnasioReq("Iron Gym"))
	assert.ErrorIs(t, err, errStub)
	assert.Empty(t, f.gimnasios.gimnasios, "inserted gym must be removed")
}

func TestGimnasioActualizar_SoloElPropio(t *testing.T) {
	f := newGimnasioFixture()
	propio, ajeno := uuid.New(), uuid.New()
	f.gimnasios.gimnasios[propio] = model.Gimnasio{ID: propio, Nombre: "Mio", HoraApertura: "06:00", HoraCierre: "22:00"}
	f.gimnasios.gimnasios[ajeno] = model.Gimnasio{ID: ajeno, Nombre: "Ajeno", HoraApertura: "06:00", HoraCierre: "22:00"}
	sc := adminScope(propio)

	nombre := "Ajeno"
	_, err := f.svc.Actualizar(context.Background(), sc, dto.ActualizarGimnasioRequest{ID: propio.String(), Name: &nombre})
	assert.True(t, apierror.Is(err, apierror.KindConflict))

	nombre = "Mio Renovado"
	resp, err := f.svc.Actualizar(context.Background(), sc, dto.ActualizarGimnasioRequest{ID: propio.String(), Name: &nombre})
	require.NoError(t, err)
	assert.Equal(t, "Mio Renovado", resp.Name)

	_, err = f.svc.Actualizar(context.Background(), sc, dto.ActualizarGimnasioRequest{ID: ajeno.String(), Name: &nombre})
	assert.True(t, apierror.Is(err, apierror.KindForbidden))

	_, err = f.svc.Actualizar(context.Background(), sc, dto.ActualizarGimnasioRequest{ID: uuid.NewString(), Name: &nombre})
	assert.True(t, apierror.Is(err, apierror.KindNotFound))
}

func TestGimnasioEliminar_ConDependencias(t *testing.T) {
	f := newGimnasioFixture()
	gymID := uuid.New()
	f.gimnasios.gimnasios[gymID] = model.Gimnasio{ID: gymID, Nombre: "Iron"}
	f.gimnasios.dependencias = model.DependenciasGimnasio{Clientes: 3, Ventas: 1}

	err := f.svc.Eliminar(context.Background(), adminScope(gymID), gymID)
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.KindConflict))
	var de *apierror.DomainError
	require.ErrorAs(t, err, &de)
	deps, ok := de.Details["dependencies"].(model.DependenciasGimnasio)
	require.True(t, ok)
	assert.Equal(t, int64(3), deps.Clientes)
	assert.Contains(t, f.gimnasios.gimnasios, gymID)
}

func TestGimnasioEliminar_DesvinculaUsuarios(t *testing.T) {
	f := newGimnasioFixture()
	gymID := uuid.New()
	adminID := uuid.New()
	f.gimnasios.gimnasios[gymID] = model.Gimnasio{ID: gymID, Nombre: "Iron"}
	f.admins.seed(adminID, "ana@gym.com", &gymID)

	require.NoError(t, f.svc.Eliminar(context.Background(), adminScopeWithID(adminID, gymID), gymID))
	assert.Empty(t, f.gimnasios.gimnasios)
	assert.Nil(t, f.admins.admins[adminID].GymID)
}

func TestGimnasioMiGimnasio_SinGimnasio(t *testing.T) {
	f := newGimnasioFixture()

	_, err := f.svc.MiGimnasio(context.Background(), adminScope(uuid.Nil))
	assert.True(t, apierror.Is(err, apierror.KindValidation))
}
