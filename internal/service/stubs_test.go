package service_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// Every stub stores copies so a service mutating a loaded record does not
// change the "table" until it calls Update.

var errStub = errors.New("stub: forced failure")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func adminScope(gymID uuid.UUID) tenant.Scope {
	return tenant.Scope{UsuarioID: uuid.New(), Rol: model.TipoAdministrador, Nombre: "Ana Admin", GymID: gymID}
}

func adminScopeWithID(id, gymID uuid.UUID) tenant.Scope {
	return tenant.Scope{UsuarioID: id, Rol: model.TipoAdministrador, Nombre: "Ana Admin", GymID: gymID}
}

func colaboradorScope(gymID uuid.UUID) tenant.Scope {
	return tenant.Scope{UsuarioID: uuid.New(), Rol: model.TipoColaborador, Nombre: "Carlos Colab", GymID: gymID}
}

// stubClienteRepo is an in-memory ClienteRepository.
type stubClienteRepo struct {
	clientes   map[uuid.UUID]model.Cliente
	failCreate error
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = *c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, gymID, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok || c.GymID != gymID {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubClienteRepo) List(_ context.Context, gymID uuid.UUID, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if c.GymID == gymID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	if _, ok := r.clientes[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.clientes[c.ID] = *c
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, gymID, id uuid.UUID) error {
	c, ok := r.clientes[id]
	if !ok || c.GymID != gymID {
		return gorm.ErrRecordNotFound
	}
	delete(r.clientes, id)
	return nil
}

func (r *stubClienteRepo) ExisteActivo(_ context.Context, gymID uuid.UUID, email string, excluir uuid.UUID) (bool, error) {
	for _, c := range r.clientes {
		if c.GymID == gymID && c.ID != excluir && c.Activo() && strings.EqualFold(c.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubClienteRepo) ContarPorMembresia(_ context.Context, gymID, membresiaID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range r.clientes {
		if c.GymID == gymID && c.MembresiaID == membresiaID {
			n++
		}
	}
	return n, nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// stubMembresiaRepo is an in-memory MembresiaRepository.
type stubMembresiaRepo struct {
	membresias map[uuid.UUID]model.Membresia
	// failIncrementar makes IncrementarUsuarios fail for this membership id.
	failIncrementar uuid.UUID
	failPorcentajes error
}

func newStubMembresiaRepo() *stubMembresiaRepo {
	return &stubMembresiaRepo{membresias: make(map[uuid.UUID]model.Membresia)}
}

// seed inserts a membership with the given counter and returns its id.
func (r *stubMembresiaRepo) seed(gymID uuid.UUID, nombre string, usuarios int) uuid.UUID {
	m := model.Membresia{ID: uuid.New(), Nombre: nombre, GymID: gymID, CantidadUsuarios: usuarios, Periodo: "mensual", DuracionDias: 30}
	r.membresias[m.ID] = m
	return m.ID
}

func (r *stubMembresiaRepo) get(id uuid.UUID) model.Membresia { return r.membresias[id] }

func (r *stubMembresiaRepo) Create(_ context.Context, m *model.Membresia) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.membresias[m.ID] = *m
	return nil
}

func (r *stubMembresiaRepo) FindByID(_ context.Context, gymID, id uuid.UUID) (*model.Membresia, error) {
	m, ok := r.membresias[id]
	if !ok || m.GymID != gymID {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *stubMembresiaRepo) ListByGym(_ context.Context, gymID uuid.UUID) ([]model.Membresia, error) {
	var out []model.Membresia
	for _, m := range r.membresias {
		if m.GymID == gymID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMembresiaRepo) Update(_ context.Context, m *model.Membresia) error {
	actual, ok := r.membresias[m.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// Counters are owned by IncrementarUsuarios and ActualizarPorcentajes.
	m.CantidadUsuarios, m.PorcentajeUso = actual.CantidadUsuarios, actual.PorcentajeUso
	r.membresias[m.ID] = *m
	return nil
}

func (r *stubMembresiaRepo) Delete(_ context.Context, gymID, id uuid.UUID) error {
	m, ok := r.membresias[id]
	if !ok || m.GymID != gymID {
		return gorm.ErrRecordNotFound
	}
	delete(r.membresias, id)
	return nil
}

func (r *stubMembresiaRepo) IncrementarUsuarios(_ context.Context, gymID, id uuid.UUID, delta int) error {
	if id == r.failIncrementar {
		return errStub
	}
	m, ok := r.membresias[id]
	if !ok || m.GymID != gymID {
		return gorm.ErrRecordNotFound
	}
	m.CantidadUsuarios += delta
	if m.CantidadUsuarios < 0 {
		m.CantidadUsuarios = 0
	}
	r.membresias[id] = m
	return nil
}

func (r *stubMembresiaRepo) ActualizarPorcentajes(_ context.Context, gymID uuid.UUID, porcentajes map[uuid.UUID]int) error {
	if r.failPorcentajes != nil {
		return r.failPorcentajes
	}
	for id, p := range porcentajes {
		m, ok := r.membresias[id]
		if !ok || m.GymID != gymID {
			continue
		}
		m.PorcentajeUso = p
		r.membresias[id] = m
	}
	return nil
}

var _ repository.MembresiaRepository = (*stubMembresiaRepo)(nil)

// stubProductoRepo is an in-memory ProductoRepository. DB() returns nil so
// runTx calls the closure directly.
type stubProductoRepo struct {
	productos map[uuid.UUID]model.Producto
	// failGuardarDespues makes GuardarStockTx fail after this many successful calls (-1 never).
	failGuardarDespues int
	guardados          int
	// antesDeUpdate runs inside Update before the row is written, standing
	// in for a concurrent writer.
	antesDeUpdate func()
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]model.Producto), failGuardarDespues: -1}
}

func (r *stubProductoRepo) seed(gymID uuid.UUID, nombre string, cantidad int, precio string) uuid.UUID {
	p := model.Producto{
		ID:           uuid.New(),
		Nombre:       nombre,
		Stock:        model.Stock{Cantidad: cantidad, Unidad: "pieza"},
		Precio:       model.Precio{Monto: dec(precio), Moneda: "MXN"},
		Categoria:    "Suplementos",
		Estado:       model.ProductoActivo,
		EstadoPrevio: model.ProductoActivo,
		GymID:        gymID,
	}
	if cantidad <= 0 {
		p.Estado = model.ProductoAgotado
	}
	r.productos[p.ID] = p
	return p.ID
}

func (r *stubProductoRepo) get(id uuid.UUID) model.Producto { return r.productos[id] }

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = *p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, gymID, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok || p.GymID != gymID {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *stubProductoRepo) List(_ context.Context, gymID uuid.UUID, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.GymID == gymID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	if r.antesDeUpdate != nil {
		r.antesDeUpdate()
	}
	actual, ok := r.productos[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// Stock-driven columns only move through GuardarStockTx.
	fila := *p
	fila.Stock.Cantidad, fila.VentasObtenidas = actual.Stock.Cantidad, actual.VentasObtenidas
	fila.Estado, fila.EstadoPrevio = actual.Estado, actual.EstadoPrevio
	r.productos[p.ID] = fila
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, gymID, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok || p.GymID != gymID {
		return gorm.ErrRecordNotFound
	}
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) ExisteCodigoBarras(_ context.Context, gymID uuid.UUID, codigo string, excluir uuid.UUID) (bool, error) {
	for _, p := range r.productos {
		if p.GymID == gymID && p.ID != excluir && p.CodigoBarras == codigo {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductoRepo) ContarPorProveedor(_ context.Context, gymID, proveedorID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.productos {
		if p.GymID == gymID && p.ProveedorID != nil && *p.ProveedorID == proveedorID {
			n++
		}
	}
	return n, nil
}

func (r *stubProductoRepo) FindForUpdateTx(ctx context.Context, _ *gorm.DB, gymID, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(ctx, gymID, id)
}

func (r *stubProductoRepo) GuardarStockTx(_ context.Context, _ *gorm.DB, p *model.Producto) error {
	if r.failGuardarDespues >= 0 && r.guardados >= r.failGuardarDespues {
		return errStub
	}
	r.guardados++
	actual, ok := r.productos[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	actual.Stock.Cantidad = p.Stock.Cantidad
	actual.Estado = p.Estado
	actual.EstadoPrevio = p.EstadoPrevio
	actual.VentasObtenidas = p.VentasObtenidas
	r.productos[p.ID] = actual
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubMovimientoRepo records stock movements.
type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ context.Context, _ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, gymID, productoID uuid.UUID, _, _ int) ([]model.MovimientoStock, int64, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.GymID == gymID && m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// stubVentaRepo is an in-memory VentaProductoRepository.
type stubVentaRepo struct {
	ventas       map[uuid.UUID]model.VentaProducto
	failCreate   error
	failCancelar error
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]model.VentaProducto)}
}

func (r *stubVentaRepo) get(id uuid.UUID) model.VentaProducto { return r.ventas[id] }

func (r *stubVentaRepo) Create(_ context.Context, v *model.VentaProducto) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = *v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, gymID, id uuid.UUID) (*model.VentaProducto, error) {
	v, ok := r.ventas[id]
	if !ok || v.GymID != gymID {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r *stubVentaRepo) FindByIDs(_ context.Context, gymID uuid.UUID, ids []uuid.UUID) ([]model.VentaProducto, error) {
	var out []model.VentaProducto
	for _, id := range ids {
		if v, ok := r.ventas[id]; ok && v.GymID == gymID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) ExisteCodigo(_ context.Context, codigo string) (bool, error) {
	for _, v := range r.ventas {
		if v.CodigoVenta == codigo {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubVentaRepo) List(_ context.Context, gymID uuid.UUID, q repository.VentaQuery) ([]model.VentaProducto, int64, error) {
	var out []model.VentaProducto
	for _, v := range r.ventas {
		if v.GymID != gymID || (q.Estado != "" && v.EstadoVenta != q.Estado) {
			continue
		}
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) Resumen(ctx context.Context, gymID uuid.UUID, q repository.VentaQuery) (dto.VentaResumen, error) {
	ventas, _, _ := r.List(ctx, gymID, q)
	res := dto.VentaResumen{Ingresos: dec("0")}
	for _, v := range ventas {
		if v.EstadoVenta != model.VentaExitosa {
			continue
		}
		res.TotalVentas++
		res.UnidadesVendidas += int64(v.CantidadVendida)
		res.Ingresos = res.Ingresos.Add(v.TotalVenta)
	}
	return res, nil
}

func (r *stubVentaRepo) MarcarCancelada(_ context.Context, gymID, id uuid.UUID, motivo *string, por model.RefUsuario, en time.Time) (bool, error) {
	if r.failCancelar != nil {
		return false, r.failCancelar
	}
	v, ok := r.ventas[id]
	if !ok || v.GymID != gymID || v.EstadoVenta != model.VentaExitosa {
		return false, nil
	}
	v.EstadoVenta = model.VentaCancelada
	v.MotivoCancelacion = motivo
	v.CanceladaPorID = &por.ID
	v.CanceladaPorTipo = &por.Tipo
	v.CanceladaEn = &en
	v.MarcarActualizado(por)
	r.ventas[id] = v
	return true, nil
}

func (r *stubVentaRepo) Reabrir(_ context.Context, gymID, id uuid.UUID, actualizadoPor *model.RefUsuario) error {
	v, ok := r.ventas[id]
	if !ok || v.GymID != gymID {
		return gorm.ErrRecordNotFound
	}
	v.EstadoVenta = model.VentaExitosa
	v.MotivoCancelacion, v.CanceladaPorID, v.CanceladaPorTipo, v.CanceladaEn = nil, nil, nil, nil
	v.ActualizadoPorID, v.ActualizadoPorTipo = nil, nil
	if actualizadoPor != nil {
		v.MarcarActualizado(*actualizadoPor)
	}
	r.ventas[id] = v
	return nil
}

func (r *stubVentaRepo) DeleteCancelada(_ context.Context, gymID, id uuid.UUID) (bool, error) {
	v, ok := r.ventas[id]
	if !ok || v.GymID != gymID || !v.Cancelada() {
		return false, nil
	}
	delete(r.ventas, id)
	return true, nil
}

func (r *stubVentaRepo) DeleteCanceladas(_ context.Context, gymID uuid.UUID, ids []uuid.UUID) (int64, error) {
	for _, id := range ids {
		v, ok := r.ventas[id]
		if !ok || v.GymID != gymID || !v.Cancelada() {
			return 0, repository.ErrLoteNoCancelado
		}
	}
	for _, id := range ids {
		delete(r.ventas, id)
	}
	return int64(len(ids)), nil
}

var _ repository.VentaProductoRepository = (*stubVentaRepo)(nil)

// stubAdminRepo is an in-memory AdminRepository.
type stubAdminRepo struct {
	admins     map[uuid.UUID]model.Administrador
	failAsigna error
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{admins: make(map[uuid.UUID]model.Administrador)}
}

func (r *stubAdminRepo) seed(id uuid.UUID, email string, gymID *uuid.UUID) {
	r.admins[id] = model.Administrador{ID: id, Nombre: "Ana", Apellido: "Admin", Email: email, GymID: gymID}
}

func (r *stubAdminRepo) Create(_ context.Context, a *model.Administrador) error {
	for _, existente := range r.admins {
		if existente.Email == a.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.admins[a.ID] = *a
	return nil
}

func (r *stubAdminRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Administrador, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *stubAdminRepo) FindByEmail(_ context.Context, email string) (*model.Administrador, error) {
	for _, a := range r.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAdminRepo) ListByGym(_ context.Context, gymID uuid.UUID) ([]model.Administrador, error) {
	var out []model.Administrador
	for _, a := range r.admins {
		if a.GymID != nil && *a.GymID == gymID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAdminRepo) AsignarGym(_ context.Context, adminID uuid.UUID, gymID *uuid.UUID) error {
	if r.failAsigna != nil {
		return r.failAsigna
	}
	a, ok := r.admins[adminID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.GymID = gymID
	r.admins[adminID] = a
	return nil
}

func (r *stubAdminRepo) DesvincularGym(_ context.Context, gymID uuid.UUID) error {
	for id, a := range r.admins {
		if a.GymID != nil && *a.GymID == gymID {
			a.GymID = nil
			r.admins[id] = a
		}
	}
	return nil
}

var _ repository.AdminRepository = (*stubAdminRepo)(nil)

// stubColaboradorRepo is an in-memory ColaboradorRepository.
type stubColaboradorRepo struct {
	colaboradores map[uuid.UUID]model.Colaborador
}

func newStubColaboradorRepo() *stubColaboradorRepo {
	return &stubColaboradorRepo{colaboradores: make(map[uuid.UUID]model.Colaborador)}
}

func (r *stubColaboradorRepo) Create(_ context.Context, c *model.Colaborador) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.colaboradores[c.ID] = *c
	return nil
}

func (r *stubColaboradorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Colaborador, error) {
	c, ok := r.colaboradores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubColaboradorRepo) FindByEmail(_ context.Context, email string) (*model.Colaborador, error) {
	for _, c := range r.colaboradores {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubColaboradorRepo) FindByUsername(_ context.Context, username string) (*model.Colaborador, error) {
	for _, c := range r.colaboradores {
		if c.Username == username {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubColaboradorRepo) ListByGym(_ context.Context, gymID uuid.UUID) ([]model.Colaborador, error) {
	var out []model.Colaborador
	for _, c := range r.colaboradores {
		if c.GymID != nil && *c.GymID == gymID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubColaboradorRepo) Update(_ context.Context, c *model.Colaborador) error {
	if _, ok := r.colaboradores[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.colaboradores[c.ID] = *c
	return nil
}

func (r *stubColaboradorRepo) Delete(_ context.Context, gymID, id uuid.UUID) error {
	c, ok := r.colaboradores[id]
	if !ok || c.GymID == nil || *c.GymID != gymID {
		return gorm.ErrRecordNotFound
	}
	delete(r.colaboradores, id)
	return nil
}

func (r *stubColaboradorRepo) DesvincularGym(_ context.Context, gymID uuid.UUID) error {
	for id, c := range r.colaboradores {
		if c.GymID != nil && *c.GymID == gymID {
			c.GymID = nil
			r.colaboradores[id] = c
		}
	}
	return nil
}

var _ repository.ColaboradorRepository = (*stubColaboradorRepo)(nil)

// stubGimnasioRepo is an in-memory GimnasioRepository.
type stubGimnasioRepo struct {
	gimnasios    map[uuid.UUID]model.Gimnasio
	dependencias model.DependenciasGimnasio
}

func newStubGimnasioRepo() *stubGimnasioRepo {
	return &stubGimnasioRepo{gimnasios: make(map[uuid.UUID]model.Gimnasio)}
}

func (r *stubGimnasioRepo) Create(_ context.Context, g *model.Gimnasio) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.gimnasios[g.ID] = *g
	return nil
}

func (r *stubGimnasioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Gimnasio, error) {
	g, ok := r.gimnasios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &g, nil
}

func (r *stubGimnasioRepo) FindByNombre(_ context.Context, nombre string) (*model.Gimnasio, error) {
	for _, g := range r.gimnasios {
		if strings.EqualFold(g.Nombre, nombre) {
			return &g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubGimnasioRepo) Update(_ context.Context, g *model.Gimnasio) error {
	if _, ok := r.gimnasios[g.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.gimnasios[g.ID] = *g
	return nil
}

func (r *stubGimnasioRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.gimnasios[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.gimnasios, id)
	return nil
}

func (r *stubGimnasioRepo) ContarDependencias(_ context.Context, _ uuid.UUID) (model.DependenciasGimnasio, error) {
	return r.dependencias, nil
}

var _ repository.GimnasioRepository = (*stubGimnasioRepo)(nil)

// stubProveedorRepo is an in-memory ProveedorRepository.
type stubProveedorRepo struct {
	proveedores map[uuid.UUID]model.Proveedor
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]model.Proveedor)}
}

func (r *stubProveedorRepo) seed(gymID uuid.UUID, nombre, email string) uuid.UUID {
	p := model.Proveedor{ID: uuid.New(), Nombre: nombre, Email: email, GymID: gymID}
	r.proveedores[p.ID] = p
	return p.ID
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.proveedores[p.ID] = *p
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, gymID, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok || p.GymID != gymID {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *stubProveedorRepo) ExisteEmail(_ context.Context, gymID uuid.UUID, email string, excluir uuid.UUID) (bool, error) {
	for _, p := range r.proveedores {
		if p.GymID == gymID && p.ID != excluir && p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProveedorRepo) List(_ context.Context, gymID uuid.UUID, _ dto.ProveedorFilter) ([]model.Proveedor, int64, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		if p.GymID == gymID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	if _, ok := r.proveedores[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.proveedores[p.ID] = *p
	return nil
}

func (r *stubProveedorRepo) Delete(_ context.Context, gymID, id uuid.UUID) error {
	p, ok := r.proveedores[id]
	if !ok || p.GymID != gymID {
		return gorm.ErrRecordNotFound
	}
	delete(r.proveedores, id)
	return nil
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

// stubNotaRepo is an in-memory NotaRepository keyed by owner.
type stubNotaRepo struct {
	notas map[uuid.UUID]model.Nota
}

func newStubNotaRepo() *stubNotaRepo {
	return &stubNotaRepo{notas: make(map[uuid.UUID]model.Nota)}
}

func esDueno(owner model.RefUsuario, id uuid.UUID, tipo model.TipoUsuario) bool {
	return owner.ID == id && owner.Tipo == tipo
}

func (r *stubNotaRepo) Create(_ context.Context, n *model.Nota) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.notas[n.ID] = *n
	return nil
}

func (r *stubNotaRepo) FindByID(_ context.Context, owner model.RefUsuario, id uuid.UUID) (*model.Nota, error) {
	n, ok := r.notas[id]
	if !ok || !esDueno(owner, n.UsuarioID, n.UsuarioTipo) {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

func (r *stubNotaRepo) List(_ context.Context, owner model.RefUsuario, filter dto.NotaFilter) ([]model.Nota, int64, error) {
	var out []model.Nota
	for _, n := range r.notas {
		if !esDueno(owner, n.UsuarioID, n.UsuarioTipo) {
			continue
		}
		if filter.Category != "" && n.Categoria != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(n.Titulo+" "+n.Contenido), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (r *stubNotaRepo) Update(_ context.Context, n *model.Nota) error {
	if _, ok := r.notas[n.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.notas[n.ID] = *n
	return nil
}

func (r *stubNotaRepo) Delete(_ context.Context, owner model.RefUsuario, id uuid.UUID) error {
	n, ok := r.notas[id]
	if !ok || !esDueno(owner, n.UsuarioID, n.UsuarioTipo) {
		return gorm.ErrRecordNotFound
	}
	delete(r.notas, id)
	return nil
}

func (r *stubNotaRepo) ContarPorCategoria(_ context.Context, owner model.RefUsuario) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, n := range r.notas {
		if esDueno(owner, n.UsuarioID, n.UsuarioTipo) {
			out[n.Categoria]++
		}
	}
	return out, nil
}

var _ repository.NotaRepository = (*stubNotaRepo)(nil)

// stubEventoRepo is an in-memory EventoCalendarioRepository keyed by owner.
type stubEventoRepo struct {
	eventos map[uuid.UUID]model.EventoCalendario
}

func newStubEventoRepo() *stubEventoRepo {
	return &stubEventoRepo{eventos: make(map[uuid.UUID]model.EventoCalendario)}
}

func (r *stubEventoRepo) Create(_ context.Context, e *model.EventoCalendario) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.eventos[e.ID] = *e
	return nil
}

func (r *stubEventoRepo) FindByID(_ context.Context, owner model.RefUsuario, id uuid.UUID) (*model.EventoCalendario, error) {
	e, ok := r.eventos[id]
	if !ok || !esDueno(owner, e.UsuarioID, e.UsuarioTipo) {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *stubEventoRepo) List(_ context.Context, owner model.RefUsuario, filter dto.EventoFilter) ([]model.EventoCalendario, int64, error) {
	var out []model.EventoCalendario
	for _, e := range r.eventos {
		if esDueno(owner, e.UsuarioID, e.UsuarioTipo) && (filter.Category == "" || e.Categoria == filter.Category) {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubEventoRepo) ListRango(_ context.Context, owner model.RefUsuario, desde, hasta time.Time) ([]model.EventoCalendario, error) {
	var out []model.EventoCalendario
	for _, e := range r.eventos {
		if !esDueno(owner, e.UsuarioID, e.UsuarioTipo) {
			continue
		}
		if e.FechaEvento.Before(desde) || e.FechaEvento.After(hasta) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *stubEventoRepo) Update(_ context.Context, e *model.EventoCalendario) error {
	if _, ok := r.eventos[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.eventos[e.ID] = *e
	return nil
}

func (r *stubEventoRepo) Delete(_ context.Context, owner model.RefUsuario, id uuid.UUID) error {
	e, ok := r.eventos[id]
	if !ok || !esDueno(owner, e.UsuarioID, e.UsuarioTipo) {
		return gorm.ErrRecordNotFound
	}
	delete(r.eventos, id)
	return nil
}

func (r *stubEventoRepo) ContarPorCategoria(_ context.Context, owner model.RefUsuario) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, e := range r.eventos {
		if esDueno(owner, e.UsuarioID, e.UsuarioTipo) {
			out[e.Categoria]++
		}
	}
	return out, nil
}

var _ repository.EventoCalendarioRepository = (*stubEventoRepo)(nil)

// stubNotificador captures enqueued jobs.
type stubNotificador struct {
	emails   []worker.EmailJobPayload
	recibos  []worker.ReciboJobPayload
	failWith error
}

func (n *stubNotificador) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	if n.failWith != nil {
		return n.failWith
	}
	n.emails = append(n.emails, p)
	return nil
}

func (n *stubNotificador) EnqueueRecibo(_ context.Context, p worker.ReciboJobPayload) error {
	if n.failWith != nil {
		return n.failWith
	}
	n.recibos = append(n.recibos, p)
	return nil
}

var _ service.Notificador = (*stubNotificador)(nil)

// stubTelefonos accepts ten digit numbers and prefixes +52.
type stubTelefonos struct{}

func (stubTelefonos) Normalizar(tel string) (string, error) {
	digitos := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, tel)
	if len(digitos) != 10 {
		return "", errors.New("numero invalido")
	}
	return "+52" + digitos, nil
}

var _ service.NormalizadorTelefono = stubTelefonos{}

// stubLocker runs fn directly and counts acquisitions.
type stubLocker struct {
	llamadas int
	err      error
}

func (l *stubLocker) WithLock(ctx context.Context, _, _ string, fn func(ctx context.Context) error) error {
	l.llamadas++
	if l.err != nil {
		return l.err
	}
	return fn(ctx)
}

var _ service.Locker = (*stubLocker)(nil)
