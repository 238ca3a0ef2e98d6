package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MovimientoVenta       = "venta"
	MovimientoCancelacion = "cancelacion"
	MovimientoAjuste      = "ajuste"
)

// MovimientoStock registra cada cambio de stock en un producto.
// Se crea en la misma transacción que modifica el stock.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	GymID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"type:varchar(20);not null"`
	Cantidad      int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID  `gorm:"type:uuid"` // venta id when applicable
	UsuarioID     uuid.UUID   `gorm:"type:uuid;not null"`
	UsuarioTipo   TipoUsuario `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
