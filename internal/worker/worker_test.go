package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envio struct {
	to       []string
	subject  string
	adjuntos []infra.Adjunto
}

type stubEnviador struct {
	enviados []envio
	err      error
}

func (s *stubEnviador) Enviar(to []string, subject, _ string, adjuntos ...infra.Adjunto) error {
	if s.err != nil {
		return s.err
	}
	s.enviados = append(s.enviados, envio{to: to, subject: subject, adjuntos: adjuntos})
	return nil
}

var _ worker.Enviador = (*stubEnviador)(nil)

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// ── Email ─────────────────────────────────────────────────────────────────────

func TestEmailWorker_Envia(t *testing.T) {
	mailer := &stubEnviador{}
	w := worker.NewEmailWorker(mailer)

	err := w.Process(context.Background(), raw(t, worker.EmailJobPayload{
		To: []string{"laura@mail.com"}, Subject: "Bienvenida", Body: "Hola",
	}))
	require.NoError(t, err)
	require.Len(t, mailer.enviados, 1)
	assert.Equal(t, "Bienvenida", mailer.enviados[0].subject)
}

func TestEmailWorker_PayloadInvalidoNoReintenta(t *testing.T) {
	mailer := &stubEnviador{}
	w := worker.NewEmailWorker(mailer)

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"to":`)))
	assert.NoError(t, w.Process(context.Background(), raw(t, worker.EmailJobPayload{Subject: "x"})))
	assert.Empty(t, mailer.enviados)
}

func TestEmailWorker_ErrorDeSMTPSePropaga(t *testing.T) {
	w := worker.NewEmailWorker(&stubEnviador{err: infra.ErrCircuitOpen})

	err := w.Process(context.Background(), raw(t, worker.EmailJobPayload{To: []string{"a@b.com"}}))
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
}

// ── Recibos ───────────────────────────────────────────────────────────────────

// Only the lookups the receipt worker performs are implemented.
type stubVentas struct {
	repository.VentaProductoRepository
	ventas map[uuid.UUID]model.VentaProducto
	err    error
}

func (s *stubVentas) FindByID(_ context.Context, gymID, id uuid.UUID) (*model.VentaProducto, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.ventas[id]
	if !ok || v.GymID != gymID {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

type stubGimnasios struct {
	repository.GimnasioRepository
	gym model.Gimnasio
}

func (s *stubGimnasios) FindByID(_ context.Context, id uuid.UUID) (*model.Gimnasio, error) {
	if id != s.gym.ID {
		return nil, gorm.ErrRecordNotFound
	}
	g := s.gym
	return &g, nil
}

func reciboFixture() (*stubVentas, *stubGimnasios, model.VentaProducto) {
	gymID := uuid.New()
	v := model.VentaProducto{
		ID:              uuid.New(),
		NombreProducto:  "Guantes",
		PrecioUnitario:  decimal.RequireFromString("250"),
		CantidadVendida: 1,
		CodigoVenta:     "V-77",
		NombreCliente:   "Laura",
		FechaVenta:      time.Now(),
		NombreVendedor:  "Ana",
		RolVendedor:     model.TipoAdministrador,
		EstadoVenta:     model.VentaExitosa,
		TotalVenta:      decimal.RequireFromString("250"),
		GymID:           gymID,
	}
	ventas := &stubVentas{ventas: map[uuid.UUID]model.VentaProducto{v.ID: v}}
	gimnasios := &stubGimnasios{gym: model.Gimnasio{ID: gymID, Nombre: "Iron Gym"}}
	return ventas, gimnasios, v
}

func TestReciboWorker_AdjuntaPDF(t *testing.T) {
	ventas, gimnasios, v := reciboFixture()
	mailer := &stubEnviador{}
	w := worker.NewReciboWorker(ventas, gimnasios, mailer)

	err := w.Process(context.Background(), raw(t, worker.ReciboJobPayload{
		VentaID: v.ID.String(), GymID: v.GymID.String(), Email: "laura@mail.com",
	}))
	require.NoError(t, err)
	require.Len(t, mailer.enviados, 1)
	require.Len(t, mailer.enviados[0].adjuntos, 1)
	adj := mailer.enviados[0].adjuntos[0]
	assert.Equal(t, "recibo-V-77.pdf", adj.Nombre)
	assert.Equal(t, "application/pdf", adj.ContentType)
	assert.Equal(t, "%PDF", string(adj.Contenido[:4]))
}

func TestReciboWorker_VentaBorradaSeDescarta(t *testing.T) {
	ventas, gimnasios, v := reciboFixture()
	mailer := &stubEnviador{}
	w := worker.NewReciboWorker(ventas, gimnasios, mailer)

	err := w.Process(context.Background(), raw(t, worker.ReciboJobPayload{
		VentaID: uuid.NewString(), GymID: v.GymID.String(), Email: "laura@mail.com",
	}))
	require.NoError(t, err)
	assert.Empty(t, mailer.enviados)
}

func TestReciboWorker_ErroresTransitoriosSeReintentan(t *testing.T) {
	ventas, gimnasios, v := reciboFixture()
	payload := raw(t, worker.ReciboJobPayload{VentaID: v.ID.String(), GymID: v.GymID.String(), Email: "l@mail.com"})

	ventas.err = errors.New("db down")
	err := worker.NewReciboWorker(ventas, gimnasios, &stubEnviador{}).Process(context.Background(), payload)
	assert.Error(t, err)

	ventas.err = nil
	smtpErr := errors.New("smtp down")
	err = worker.NewReciboWorker(ventas, gimnasios, &stubEnviador{err: smtpErr}).Process(context.Background(), payload)
	assert.ErrorIs(t, err, smtpErr)
}

func TestReciboWorker_PayloadIncompleto(t *testing.T) {
	ventas, gimnasios, v := reciboFixture()
	mailer := &stubEnviador{}
	w := worker.NewReciboWorker(ventas, gimnasios, mailer)

	err := w.Process(context.Background(), raw(t, worker.ReciboJobPayload{VentaID: v.ID.String(), GymID: "x"}))
	require.NoError(t, err)
	assert.Empty(t, mailer.enviados)
}

func TestDispatcher_SinRedis(t *testing.T) {
	var d *worker.Dispatcher
	assert.Error(t, d.EnqueueEmail(context.Background(), worker.EmailJobPayload{To: []string{"a@b.com"}}))
}
