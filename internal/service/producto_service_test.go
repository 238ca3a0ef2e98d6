package service_test

import (
	"context"
	"testing"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productoFixture struct {
	svc         service.ProductoService
	inventario  service.InventarioService
	productos   *stubProductoRepo
	movimientos *stubMovimientoRepo
	proveedores *stubProveedorRepo
	gymID       uuid.UUID
}

func newProductoFixture() *productoFixture {
	productos := newStubProductoRepo()
	movimientos := &stubMovimientoRepo{}
	proveedores := newStubProveedorRepo()
	inventario := service.NewInventarioService(productos, movimientos)
	directorio := service.NewDirectorio(newStubAdminRepo(), newStubColaboradorRepo())
	return &productoFixture{
		svc:         service.NewProductoService(productos, proveedores, inventario, directorio, infra.NewImageResizer(64, 80)),
		inventario:  inventario,
		productos:   productos,
		movimientos: movimientos,
		proveedores: proveedores,
		gymID:       uuid.New(),
	}
}

func productoReq(nombre string, cantidad int) dto.CrearProductoRequest {
	return dto.CrearProductoRequest{
		NameProduct: nombre,
		Stock:       dto.StockDTO{Quantity: cantidad, Unit: "pieza"},
		Price:       dto.PrecioDTO{Amount: dec("120.00")},
		Category:    "Suplementos",
	}
}

func TestProductoCrear_EstadoSegunStock(t *testing.T) {
	f := newProductoFixture()
	sc := adminScope(f.gymID)

	con, err := f.svc.Crear(context.Background(), sc, productoReq("Proteína", 5))
	require.NoError(t, err)
	assert.Equal(t, model.ProductoActivo, con.Status)
	assert.Equal(t, "MXN", con.Price.Currency)
	assert.Equal(t, 0, con.SalesObtained)

	sin, err := f.svc.Crear(context.Background(), sc, productoReq("Creatina", 0))
	require.NoError(t, err)
	assert.Equal(t, model.ProductoAgotado, sin.Status)

	assert.Empty(t, f.movimientos.movimientos, "initial stock is not a movement")
}

func TestProductoCrear_CodigoBarrasDuplicado(t *testing.T) {
	f := newProductoFixture()
	sc := adminScope(f.gymID)

	req := productoReq("A", 1)
	req.Barcode = "7501234"
	_, err := f.svc.Crear(context.Background(), sc, req)
	require.NoError(t, err)

	req.NameProduct = "B"
	_, err = f.svc.Crear(context.Background(), sc, req)
	assert.True(t, apierror.Is(err, apierror.KindConflict))

	// Same barcode in another gym is fine.
	_, err = f.svc.Crear(context.Background(), adminScope(uuid.New()), req)
	require.NoError(t, err)
}

func TestProductoCrear_SinCodigoBarrasNoChoca(t *testing.T) {
	f := newProductoFixture()
	sc := adminScope(f.gymID)

	_, err := f.svc.Crear(context.Background(), sc, productoReq("A", 1))
	require.NoError(t, err)
	_, err = f.svc.Crear(context.Background(), sc, productoReq("B", 1))
	require.NoError(t, err)
}

func TestProductoCrear_ProveedorDeOtroGimnasio(t *testing.T) {
	f := newProductoFixture()
	ajeno := f.proveedores.seed(uuid.New(), "Ajeno", "a@prov.com")
	propio := f.proveedores.seed(f.gymID, "Propio", "p@prov.com")

	req := productoReq("A", 1)
	raw := ajeno.String()
	req.SupplierID = &raw
	_, err := f.svc.Crear(context.Background(), adminScope(f.gymID), req)
	assert.True(t, apierror.Is(err, apierror.KindValidation))

	raw = propio.String()
	resp, err := f.svc.Crear(context.Background(), adminScope(f.gymID), req)
	require.NoError(t, err)
	require.NotNil(t, resp.SupplierID)
	assert.Equal(t, propio.String(), *resp.SupplierID)
}

func TestProductoCrear_Imagen(t *testing.T) {
	f := newProductoFixture()
	sc := adminScope(f.gymID)

	req := productoReq("Con link", 1)
	link := "https://cdn.example.com/p.png"
	req.ImageURL = &link
	resp, err := f.svc.Crear(context.Background(), sc, req)
	require.NoError(t, err)
	require.NotNil(t, resp.ImageURL)
	assert.Equal(t, link, *resp.ImageURL)

	roto := "data:image/png;base64,%%%"
	req.ImageURL = &roto
	_, err = f.svc.Crear(context.Background(), sc, req)
	assert.True(t, apierror.Is(err, apierror.KindValidation))
}

func TestProductoActualizar_AjusteDeStock(t *testing.T) {
	f := newProductoFixture()
	sc := adminScope(f.gymID)
	id := f.productos.seed(f.gymID, "Guantes", 10, "80")

	resp, err := f.svc.Actualizar(context.Background(), sc, dto.ActualizarProductoRequest{
		ID: id.String(), Stock: &dto.StockDTO{Quantity: 0, Unit: "pieza"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProductoAgotado, resp.Status)
	assert.Equal(t, 0, resp.Stock.Quantity)
	require.Len(t, f.movimientos.movimientos, 1)
	assert.Equal(t, model.MovimientoAjuste, f.movimientos.movimientos[0].Tipo)
	assert.Equal(t, -10, f.movimientos.movimientos[0].Cantidad)

	resp, err = f.svc.Actualizar(context.Background(), sc, dto.ActualizarProductoRequest{
		ID: id.String(), Stock: &dto.StockDTO{Quantity: 3, Unit: "pieza"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProductoActivo, resp.Status)
	assert.Equal(t, 3, f.productos.get(id).Stock.Cantidad)
	require.NotNil(t, resp.UpdatedBy)
}

func TestProductoActualizar_EstadoExplicitoSobreviveAlAgotado(t *testing.T) {
	f := newProductoFixture()
	sc := adminScope(f.gymID)
	id := f.productos.seed(f.gymID, "Banda", 0, "50")
	inactivo := model.ProductoInactivo

	resp, err := f.svc.Actualizar(context.Background(), sc, dto.ActualizarProductoRequest{ID: id.String(), Status: &inactivo})
	require.NoError(t, err)
	assert.Equal(t, model.ProductoAgotado, resp.Status, "no stock keeps it Agotado")

	resp, err = f.svc.Actualizar(context.Background(), sc, dto.ActualizarProductoRequest{
		ID: id.String(), Stock: &dto.StockDTO{Quantity: 4, Unit: "pieza"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProductoInactivo, resp.Status)
}

func TestProductoActualizar_SinCambioDeStockNoMueve(t *testing.T) {
	f := newProductoFixture()
	id := f.productos.seed(f.gymID, "Guantes", 10, "80")
	nombre := "Guantes Pro"

	_, err := f.svc.Actualizar(context.Background(), adminScope(f.gymID), dto.ActualizarProductoRequest{
		ID: id.String(), NameProduct: &nombre, Stock: &dto.StockDTO{Quantity: 10, Unit: "pieza"},
	})
	require.NoError(t, err)
	assert.Empty(t, f.movimientos.movimientos)
	assert.Equal(t, "Guantes Pro", f.productos.get(id).Nombre)
}

// A sale landing between the read and the write must not be overwritten.
func TestProductoActualizar_VentaConcurrente(t *testing.T) {
	vender := func(f *productoFixture, id uuid.UUID, n int) func() {
		return func() {
			f.productos.antesDeUpdate = nil
			_, err := f.inventario.Mover(context.Background(), service.MovimientoSolicitado{
				GymID: f.gymID, ProductoID: id, Delta: -n, DeltaVentas: n, Tipo: model.MovimientoVenta,
			})
			require.NoError(t, err)
		}
	}

	t.Run("renombrar no revive el estado", func(t *testing.T) {
		f := newProductoFixture()
		id := f.productos.seed(f.gymID, "Guantes", 1, "80")
		f.productos.antesDeUpdate = vender(f, id, 1)
		nombre := "Guantes Pro"

		resp, err := f.svc.Actualizar(context.Background(), adminScope(f.gymID), dto.ActualizarProductoRequest{
			ID: id.String(), NameProduct: &nombre,
		})
		require.NoError(t, err)
		guardado := f.productos.get(id)
		assert.Equal(t, 0, guardado.Stock.Cantidad)
		assert.Equal(t, model.ProductoAgotado, guardado.Estado)
		assert.Equal(t, "Guantes Pro", guardado.Nombre)
		assert.Equal(t, model.ProductoAgotado, resp.Status)
	})

	t.Run("la cantidad pedida es absoluta", func(t *testing.T) {
		f := newProductoFixture()
		id := f.productos.seed(f.gymID, "Guantes", 5, "80")
		f.productos.antesDeUpdate = vender(f, id, 3)

		resp, err := f.svc.Actualizar(context.Background(), adminScope(f.gymID), dto.ActualizarProductoRequest{
			ID: id.String(), Stock: &dto.StockDTO{Quantity: 10, Unit: "pieza"},
		})
		require.NoError(t, err)
		assert.Equal(t, 10, f.productos.get(id).Stock.Cantidad)
		assert.Equal(t, 10, resp.Stock.Quantity)
		assert.Equal(t, model.ProductoActivo, resp.Status)

		ajuste := f.movimientos.movimientos[len(f.movimientos.movimientos)-1]
		assert.Equal(t, model.MovimientoAjuste, ajuste.Tipo)
		assert.Equal(t, 2, ajuste.StockAnterior)
		assert.Equal(t, 8, ajuste.Cantidad)
	})

	t.Run("estado explicito sobre el stock vigente", func(t *testing.T) {
		f := newProductoFixture()
		id := f.productos.seed(f.gymID, "Guantes", 2, "80")
		f.productos.antesDeUpdate = vender(f, id, 2)
		inactivo := model.ProductoInactivo

		_, err := f.svc.Actualizar(context.Background(), adminScope(f.gymID), dto.ActualizarProductoRequest{
			ID: id.String(), Status: &inactivo,
		})
		require.NoError(t, err)
		guardado := f.productos.get(id)
		assert.Equal(t, model.ProductoAgotado, guardado.Estado)
		assert.Equal(t, model.ProductoInactivo, guardado.EstadoPrevio)
	})
}

func TestProductoEliminar_OtroGimnasio(t *testing.T) {
	f := newProductoFixture()
	id := f.productos.seed(f.gymID, "Guantes", 10, "80")

	err := f.svc.Eliminar(context.Background(), adminScope(uuid.New()), id)
	assert.True(t, apierror.Is(err, apierror.KindNotFound))
	assert.Contains(t, f.productos.productos, id)

	require.NoError(t, f.svc.Eliminar(context.Background(), adminScope(f.gymID), id))
	assert.NotContains(t, f.productos.productos, id)
}

// ── Inventario ────────────────────────────────────────────────────────────────

func TestInventarioMover_NoPermiteNegativo(t *testing.T) {
	f := newProductoFixture()
	id := f.productos.seed(f.gymID, "Agua", 1, "10")

	_, err := f.inventario.Mover(context.Background(), service.MovimientoSolicitado{
		GymID: f.gymID, ProductoID: id, Delta: -2, DeltaVentas: 2, Tipo: model.MovimientoVenta,
	})
	assert.True(t, apierror.Is(err, apierror.KindConflict))
	assert.Equal(t, 1, f.productos.get(id).Stock.Cantidad)
	assert.Empty(t, f.movimientos.movimientos)
}

func TestInventarioMover_VentasNoBajanDeCero(t *testing.T) {
	f := newProductoFixture()
	id := f.productos.seed(f.gymID, "Agua", 1, "10")

	p, err := f.inventario.Mover(context.Background(), service.MovimientoSolicitado{
		GymID: f.gymID, ProductoID: id, Delta: 2, DeltaVentas: -5, Tipo: model.MovimientoCancelacion,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock.Cantidad)
	assert.Equal(t, 0, p.VentasObtenidas)
}

func TestInventarioListarMovimientos(t *testing.T) {
	f := newProductoFixture()
	id := f.productos.seed(f.gymID, "Agua", 5, "10")
	_, err := f.inventario.Mover(context.Background(), service.MovimientoSolicitado{
		GymID: f.gymID, ProductoID: id, Delta: -1, Tipo: model.MovimientoAjuste,
	})
	require.NoError(t, err)

	resp, err := f.inventario.ListarMovimientos(context.Background(), adminScope(f.gymID), id, dto.Paginacion{})
	require.NoError(t, err)
	require.Len(t, resp.Movements, 1)
	assert.Equal(t, 5, resp.Movements[0].StockAnterior)
	assert.Equal(t, 4, resp.Movements[0].StockNuevo)

	_, err = f.inventario.ListarMovimientos(context.Background(), adminScope(uuid.New()), id, dto.Paginacion{})
	assert.True(t, apierror.Is(err, apierror.KindNotFound))
}
