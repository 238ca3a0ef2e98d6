package model_test

import (
	"testing"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPorcentajeUso(t *testing.T) {
	cases := []struct {
		cantidad, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{4, 4, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{1, 4, 25},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, model.PorcentajeUso(c.cantidad, c.total), "%d/%d", c.cantidad, c.total)
	}
}

func TestCalcularPorcentajes(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	got := model.CalcularPorcentajes([]model.Membresia{
		{ID: a, CantidadUsuarios: 3},
		{ID: b, CantidadUsuarios: 1},
		{ID: c, CantidadUsuarios: 0},
	})

	assert.Equal(t, map[uuid.UUID]int{a: 75, b: 25, c: 0}, got)
}

func TestCalcularPorcentajes_IgnoraNegativos(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	got := model.CalcularPorcentajes([]model.Membresia{
		{ID: a, CantidadUsuarios: 2},
		{ID: b, CantidadUsuarios: -1},
	})

	assert.Equal(t, 100, got[a])
	assert.Equal(t, 0, got[b])
}

func TestDerivarEstado(t *testing.T) {
	cases := []struct {
		name            string
		actual, previo  string
		cantidad        int
		want            string
	}{
		{"sin stock", model.ProductoActivo, "", 0, model.ProductoAgotado},
		{"negativo", model.ProductoInactivo, "", -1, model.ProductoAgotado},
		{"conserva estado", model.ProductoInactivo, "", 5, model.ProductoInactivo},
		{"reabastecido", model.ProductoAgotado, "", 2, model.ProductoActivo},
		{"restaura previo", model.ProductoAgotado, model.ProductoCancelado, 2, model.ProductoCancelado},
		{"previo agotado", model.ProductoAgotado, model.ProductoAgotado, 1, model.ProductoActivo},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, model.DerivarEstado(c.actual, c.previo, c.cantidad))
		})
	}
}

func TestAplicarCantidad_RecuerdaEstadoPrevio(t *testing.T) {
	p := &model.Producto{Estado: model.ProductoInactivo}

	p.AplicarCantidad(0)
	assert.Equal(t, model.ProductoAgotado, p.Estado)
	assert.Equal(t, model.ProductoInactivo, p.EstadoPrevio)

	p.AplicarCantidad(4)
	assert.Equal(t, model.ProductoInactivo, p.Estado)
	assert.Equal(t, 4, p.Stock.Cantidad)
}

func TestAuditoria(t *testing.T) {
	alta := model.RefUsuario{Tipo: model.TipoAdministrador, ID: uuid.New()}
	a := model.NuevaAuditoria(alta)
	assert.Equal(t, alta, a.RegistradoPor())
	assert.Nil(t, a.ActualizadoPor())

	cambio := model.RefUsuario{Tipo: model.TipoColaborador, ID: uuid.New()}
	a.MarcarActualizado(cambio)
	assert.Equal(t, &cambio, a.ActualizadoPor())
}

func TestNombreCompleto(t *testing.T) {
	n := model.NombreCompleto{Nombre: "Laura", ApellidoPaterno: " Pérez ", ApellidoMaterno: ""}
	assert.Equal(t, "Laura Pérez", n.String())
}

func TestDependenciasTotal(t *testing.T) {
	d := model.DependenciasGimnasio{Colaboradores: 1, Clientes: 2, Proveedores: 3}
	assert.Equal(t, int64(6), d.Total())
}
