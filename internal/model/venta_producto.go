package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	VentaExitosa = "Exitosa"
	// VentaPendiente is part of the stored enumeration but nothing produces it.
	VentaPendiente = "Pendiente"
	VentaCancelada = "Cancelada"
)

var EstadosVenta = []string{VentaExitosa, VentaPendiente, VentaCancelada}

// VentaProducto is the sales ledger entry. Once written only the
// cancellation fields change.
type VentaProducto struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	NombreProducto  string          `gorm:"not null"`
	PrecioUnitario  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CantidadVendida int             `gorm:"not null"`
	CodigoVenta     string          `gorm:"uniqueIndex;not null"`
	ClienteID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	NombreCliente   string          `gorm:"not null"`
	FechaVenta      time.Time       `gorm:"not null;index"`
	VendedorID      uuid.UUID       `gorm:"type:uuid;not null"`
	NombreVendedor  string          `gorm:"not null"`
	RolVendedor     TipoUsuario     `gorm:"type:varchar(20);not null"`
	EstadoVenta     string          `gorm:"type:varchar(20);not null;default:'Exitosa';index"`
	TotalVenta      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GymID           uuid.UUID       `gorm:"type:uuid;not null;index"`

	MotivoCancelacion *string
	CanceladaPorID    *uuid.UUID   `gorm:"type:uuid"`
	CanceladaPorTipo  *TipoUsuario `gorm:"type:varchar(20)"`
	CanceladaEn       *time.Time

	Auditoria `gorm:"embedded"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VentaProducto) TableName() string { return "ventas_productos" }

func (v VentaProducto) Cancelada() bool { return v.EstadoVenta == VentaCancelada }
