package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ProductoActivo    = "Activo"
	ProductoInactivo  = "Inactivo"
	ProductoAgotado   = "Agotado"
	ProductoCancelado = "Cancelado"
)

var (
	EstadosProducto    = []string{ProductoActivo, ProductoInactivo, ProductoAgotado, ProductoCancelado}
	UnidadesProducto   = []string{"pieza", "kg", "litro", "gramo", "paquete", "caja"}
	CategoriasProducto = []string{"Equipamento", "Suplementos", "Ropa", "Accesorios", "Bebidas", "Otros"}
)

type Stock struct {
	Cantidad int    `gorm:"not null;default:0"`
	Unidad   string `gorm:"type:varchar(20);not null"`
}

type Precio struct {
	Monto  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Moneda string          `gorm:"type:varchar(3);not null;default:'MXN'"`
}

// Producto is sold through the sales ledger. Stock.Cantidad and
// VentasObtenidas only move together with VentaProducto records.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"index;not null"`
	Stock        Stock     `gorm:"embedded;embeddedPrefix:stock_"`
	Precio       Precio    `gorm:"embedded;embeddedPrefix:precio_"`
	Categoria    string    `gorm:"type:varchar(20);not null"`
	CodigoBarras string    `gorm:"index;not null;default:''"`
	FechaCompra  time.Time
	Estado       string `gorm:"type:varchar(20);not null;default:'Activo'"`
	// EstadoPrevio is the status restored when an Agotado product gets stock back.
	EstadoPrevio    string     `gorm:"type:varchar(20);not null;default:'Activo'"`
	VentasObtenidas int        `gorm:"not null;default:0"`
	ProveedorID     *uuid.UUID `gorm:"type:uuid;index"`
	GymID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	ImagenURL       *string
	Auditoria       `gorm:"embedded"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Producto) TableName() string { return "productos" }

// DerivarEstado is the single rule for the stock-driven part of a product
// status. previo is the last non-Agotado status ("" means Activo).
func DerivarEstado(actual, previo string, cantidad int) string {
	if cantidad <= 0 {
		return ProductoAgotado
	}
	if actual != ProductoAgotado {
		return actual
	}
	if previo == "" || previo == ProductoAgotado {
		return ProductoActivo
	}
	return previo
}

// AplicarCantidad sets the stock quantity and re-derives the status,
// remembering the status that was active before a stock-out.
func (p *Producto) AplicarCantidad(cantidad int) {
	if p.Estado != ProductoAgotado && p.Estado != "" {
		p.EstadoPrevio = p.Estado
	}
	p.Stock.Cantidad = cantidad
	p.Estado = DerivarEstado(p.Estado, p.EstadoPrevio, cantidad)
}
