package infra_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/config"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ── Circuit breaker ───────────────────────────────────────────────────────────

var errFallo = errors.New("smtp down")

func TestCircuitBreaker_AbreTrasFallos(t *testing.T) {
	var cambios []infra.CBState
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		Name:             "smtp",
		FailureThreshold: 2,
		OpenTimeout:      time.Hour,
		OnStateChange:    func(_ string, _, to infra.CBState) { cambios = append(cambios, to) },
	})

	assert.ErrorIs(t, cb.Execute(func() error { return errFallo }), errFallo)
	assert.Equal(t, infra.CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return errFallo }), errFallo)
	assert.Equal(t, infra.CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.False(t, llamado)
	assert.Equal(t, []infra.CBState{infra.CBOpen}, cambios)
}

func TestCircuitBreaker_SemiAbiertoSeCierra(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		OpenTimeout:      10 * time.Millisecond,
	})
	_ = cb.Execute(func() error { return errFallo })
	require.Equal(t, infra.CBOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, infra.CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, infra.CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, infra.CBClosed, cb.State())
}

func TestCircuitBreaker_FalloEnSondaReabre(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: 10 * time.Millisecond})
	_ = cb.Execute(func() error { return errFallo })
	time.Sleep(20 * time.Millisecond)

	_ = cb.Execute(func() error { return errFallo })
	assert.Equal(t, infra.CBOpen, cb.State())
	assert.Equal(t, "open", cb.State().String())
}

// ── Images ────────────────────────────────────────────────────────────────────

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestImageResizer_ReduceYConvierteAJPEG(t *testing.T) {
	r := infra.NewImageResizer(50, 80)

	out, err := r.ResizeDataURL(pngDataURL(t, 200, 100))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestImageResizer_EnlacesIntactos(t *testing.T) {
	r := infra.NewImageResizer(0, 0)

	out, err := r.ResizeDataURL("https://cdn.example.com/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/logo.png", out)

	_, err = r.ResizeDataURL("data:image/png,notbase64")
	assert.Error(t, err)
	_, err = r.ResizeDataURL("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("texto")))
	assert.Error(t, err)
}

// ── Phones ────────────────────────────────────────────────────────────────────

func TestPhoneValidator(t *testing.T) {
	v := infra.NewPhoneValidator("")

	got, err := v.Normalizar("55 1234 5678")
	require.NoError(t, err)
	assert.Equal(t, "+525512345678", got)

	got, err = v.Normalizar("  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = v.Normalizar("123")
	assert.Error(t, err)
}

// ── Documents ─────────────────────────────────────────────────────────────────

func venta(estado string) model.VentaProducto {
	v := model.VentaProducto{
		ID:              uuid.New(),
		NombreProducto:  "Proteína Whey 2kg sabor vainilla francesa",
		PrecioUnitario:  decimal.RequireFromString("899.50"),
		CantidadVendida: 2,
		CodigoVenta:     "V-001",
		NombreCliente:   "Laura Pérez",
		FechaVenta:      time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		NombreVendedor:  "Ana Admin",
		RolVendedor:     model.TipoAdministrador,
		EstadoVenta:     estado,
		TotalVenta:      decimal.RequireFromString("1799.00"),
	}
	if estado == model.VentaCancelada {
		motivo := "Producto dañado"
		en := v.FechaVenta.Add(time.Hour)
		v.MotivoCancelacion = &motivo
		v.CanceladaEn = &en
	}
	return v
}

func TestEscribirReciboVenta(t *testing.T) {
	for _, estado := range []string{model.VentaExitosa, model.VentaCancelada} {
		v := venta(estado)
		var buf bytes.Buffer
		require.NoError(t, infra.EscribirReciboVenta(&buf, "Iron Gym", &v))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), estado)
	}
}

func TestEscribirVentasXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, infra.EscribirVentasXLSX(&buf, []model.VentaProducto{venta(model.VentaExitosa), venta(model.VentaCancelada)}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ventas")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Código", rows[0][0])
	assert.Equal(t, "V-001", rows[1][0])
	assert.Equal(t, model.VentaCancelada, rows[2][9])
	assert.Equal(t, "Producto dañado", rows[2][10])
}

// ── Metrics, mail ─────────────────────────────────────────────────────────────

func TestMetrics_Exposicion(t *testing.T) {
	m := infra.NewMetrics()
	m.Venta("vender", "ok")
	m.UnidadesVendidas(3)
	m.CircuitoCambio("smtp", infra.CBClosed, infra.CBOpen)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `timefit_ventas_operaciones_total{operacion="vender",resultado="ok"} 1`)
	assert.Contains(t, body, `timefit_ventas_unidades_vendidas_total 3`)
	assert.Contains(t, body, `timefit_circuit_breaker_estado{nombre="smtp"} 1`)

	var nilMetrics *infra.Metrics
	assert.NotPanics(t, func() { nilMetrics.Venta("vender", "ok") })
}

func TestMailer_SinSMTP(t *testing.T) {
	m := infra.NewMailer(&config.Config{}, infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Name: "smtp"}))
	assert.Error(t, m.Enviar([]string{"a@b.com"}, "hola", "cuerpo"))
}
