package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Notas ─────────────────────────────────────────────────────────────────────

func TestNota_SoloElDuenoLaVe(t *testing.T) {
	svc := service.NewNotaService(newStubNotaRepo())
	gymID := uuid.New()
	dueno := adminScope(gymID)
	colega := colaboradorScope(gymID)

	creada, err := svc.Crear(context.Background(), dueno, dto.CrearNotaRequest{Title: " Pendientes ", Content: "Revisar caja"})
	require.NoError(t, err)
	assert.Equal(t, "Pendientes", creada.Title)
	assert.Equal(t, "nota", creada.Category)
	id := uuid.MustParse(creada.ID)

	_, err = svc.ObtenerPorID(context.Background(), colega, id)
	assert.True(t, apierror.Is(err, apierror.KindNotFound))
	err = svc.Eliminar(context.Background(), colega, id)
	assert.True(t, apierror.Is(err, apierror.KindNotFound))

	titulo := "Hack"
	_, err = svc.Actualizar(context.Background(), colega, dto.ActualizarNotaRequest{ID: creada.ID, Title: &titulo})
	assert.True(t, apierror.Is(err, apierror.KindNotFound))

	got, err := svc.ObtenerPorID(context.Background(), dueno, id)
	require.NoError(t, err)
	assert.Equal(t, "Pendientes", got.Title)
}

func TestNota_MismoIDDistintoTipoNoEsDueno(t *testing.T) {
	svc := service.NewNotaService(newStubNotaRepo())
	id := uuid.New()
	admin := tenant.Scope{UsuarioID: id, Rol: model.TipoAdministrador}
	colab := tenant.Scope{UsuarioID: id, Rol: model.TipoColaborador}

	creada, err := svc.Crear(context.Background(), admin, dto.CrearNotaRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = svc.ObtenerPorID(context.Background(), colab, uuid.MustParse(creada.ID))
	assert.True(t, apierror.Is(err, apierror.KindNotFound))
}

func TestNota_ListarBuscarYEstadisticas(t *testing.T) {
	svc := service.NewNotaService(newStubNotaRepo())
	sc := adminScope(uuid.New())
	for _, n := range []dto.CrearNotaRequest{
		{Title: "Comprar toallas", Content: "20 piezas", Category: "productos"},
		{Title: "Curso de primeros auxilios", Content: "Sábado", Category: "curso"},
		{Title: "Queja regaderas", Content: "Agua fría", Category: "quejas"},
		{Title: "Más toallas", Content: "Para spinning", Category: "productos"},
	} {
		_, err := svc.Crear(context.Background(), sc, n)
		require.NoError(t, err)
	}
	_, err := svc.Crear(context.Background(), colaboradorScope(sc.GymID), dto.CrearNotaRequest{Title: "toallas ajenas", Content: "x"})
	require.NoError(t, err)

	list, err := svc.Listar(context.Background(), sc, dto.NotaFilter{Category: "productos"})
	require.NoError(t, err)
	assert.Len(t, list.Notes, 2)
	assert.Equal(t, int64(2), list.Stats["productos"])

	found, err := svc.Buscar(context.Background(), sc, "toallas", dto.Paginacion{})
	require.NoError(t, err)
	assert.Len(t, found.Notes, 2)

	all, err := svc.Buscar(context.Background(), sc, "  ", dto.Paginacion{})
	require.NoError(t, err)
	assert.Len(t, all.Notes, 4)

	stats, err := svc.Estadisticas(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(1), stats.ByCategory["curso"])
}

func TestNota_Actualizar(t *testing.T) {
	svc := service.NewNotaService(newStubNotaRepo())
	sc := colaboradorScope(uuid.New())
	creada, err := svc.Crear(context.Background(), sc, dto.CrearNotaRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	cat := "recordatorio"
	resp, err := svc.Actualizar(context.Background(), sc, dto.ActualizarNotaRequest{ID: creada.ID, Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, "recordatorio", resp.Category)
	assert.Equal(t, "t", resp.Title)
	assert.Equal(t, string(model.TipoColaborador), resp.UserType)
}

// ── Calendario ────────────────────────────────────────────────────────────────

func eventoReq(fecha, inicio, fin string) dto.CrearEventoRequest {
	return dto.CrearEventoRequest{Title: "Junta", EventDate: fecha, StartTime: inicio, EndTime: fin}
}

func TestEvento_Validaciones(t *testing.T) {
	svc := service.NewCalendarioService(newStubEventoRepo())
	sc := adminScope(uuid.New())

	_, err := svc.Crear(context.Background(), sc, eventoReq("2025-13-01", "09:00", "10:00"))
	assert.True(t, apierror.Is(err, apierror.KindValidation))

	_, err = svc.Crear(context.Background(), sc, eventoReq("2025-06-01", "10:00", "10:00"))
	assert.True(t, apierror.Is(err, apierror.KindValidation))

	resp, err := svc.Crear(context.Background(), sc, eventoReq("2025-06-01", "09:00", "10:30"))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", resp.EventDate)
	assert.Equal(t, "meetings", resp.Category)
}

func TestEvento_ActualizarRevalidaHoras(t *testing.T) {
	svc := service.NewCalendarioService(newStubEventoRepo())
	sc := adminScope(uuid.New())
	creado, err := svc.Crear(context.Background(), sc, eventoReq("2025-06-01", "09:00", "10:00"))
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	inicio := "11:00"
	_, err = svc.Actualizar(context.Background(), sc, id, dto.ActualizarEventoRequest{StartTime: &inicio})
	assert.True(t, apierror.Is(err, apierror.KindValidation))

	fin := "12:00"
	resp, err := svc.Actualizar(context.Background(), sc, id, dto.ActualizarEventoRequest{StartTime: &inicio, EndTime: &fin})
	require.NoError(t, err)
	assert.Equal(t, "11:00", resp.StartTime)

	_, err = svc.Actualizar(context.Background(), colaboradorScope(sc.GymID), id, dto.ActualizarEventoRequest{EndTime: &fin})
	assert.True(t, apierror.Is(err, apierror.KindNotFound))
}

func TestEvento_RangoInclusivo(t *testing.T) {
	svc := service.NewCalendarioService(newStubEventoRepo())
	sc := adminScope(uuid.New())
	for _, fecha := range []string{"2025-06-01", "2025-06-05", "2025-06-10", "2025-07-01"} {
		_, err := svc.Crear(context.Background(), sc, eventoReq(fecha, "09:00", "10:00"))
		require.NoError(t, err)
	}

	eventos, err := svc.Rango(context.Background(), sc, dto.RangoFechasFilter{Start: "2025-06-01", End: "2025-06-10"})
	require.NoError(t, err)
	assert.Len(t, eventos, 3)

	_, err = svc.Rango(context.Background(), sc, dto.RangoFechasFilter{Start: "2025-06-10", End: "2025-06-01"})
	assert.True(t, apierror.Is(err, apierror.KindValidation))
}

func TestEvento_Hoy(t *testing.T) {
	svc := service.NewCalendarioService(newStubEventoRepo())
	sc := colaboradorScope(uuid.New())
	hoy := time.Now().Format("2006-01-02")
	manana := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	_, err := svc.Crear(context.Background(), sc, eventoReq(hoy, "08:00", "09:00"))
	require.NoError(t, err)
	_, err = svc.Crear(context.Background(), sc, eventoReq(manana, "08:00", "09:00"))
	require.NoError(t, err)

	eventos, err := svc.Hoy(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, eventos, 1)
	assert.Equal(t, hoy, eventos[0].EventDate)
}

func TestEvento_ListarConEstadisticas(t *testing.T) {
	svc := service.NewCalendarioService(newStubEventoRepo())
	sc := adminScope(uuid.New())
	req := eventoReq("2025-06-01", "09:00", "10:00")
	req.Category = "training"
	_, err := svc.Crear(context.Background(), sc, req)
	require.NoError(t, err)
	_, err = svc.Crear(context.Background(), sc, eventoReq("2025-06-02", "09:00", "10:00"))
	require.NoError(t, err)

	resp, err := svc.Listar(context.Background(), sc, dto.EventoFilter{Category: "training"})
	require.NoError(t, err)
	assert.Len(t, resp.Events, 1)
	assert.Equal(t, int64(1), resp.Stats["training"])
	assert.Equal(t, int64(1), resp.Stats["meetings"])

	require.NoError(t, svc.Eliminar(context.Background(), sc, uuid.MustParse(resp.Events[0].ID)))
}
