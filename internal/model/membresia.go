package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MembresiaActivada    = "Activado"
	MembresiaDesactivada = "Desactivado"
)

var PeriodosMembresia = []string{"quincenal", "mensual", "trimestral", "anual"}

var Monedas = []string{"MXN", "USD", "EUR"}

// Membresia is a plan inside a gym. CantidadUsuarios and PorcentajeUso are
// maintained by the membership service only.
type Membresia struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre           string          `gorm:"not null"`
	Descripcion      string          `gorm:"not null;default:''"`
	Precio           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DuracionDias     int             `gorm:"not null"`
	Periodo          string          `gorm:"type:varchar(20);not null"`
	Estado           string          `gorm:"type:varchar(20);not null;default:'Activado'"`
	Moneda           string          `gorm:"type:varchar(3);not null;default:'MXN'"`
	Color            string          `gorm:"not null;default:'Verde'"`
	CantidadUsuarios int             `gorm:"not null;default:0"`
	PorcentajeUso    int             `gorm:"not null;default:0"`
	GymID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Membresia) TableName() string { return "membresias" }

// PorcentajeUso rounds 100*cantidad/total half-up. Returns 0 when total is 0.
func PorcentajeUso(cantidad, total int) int {
	if total <= 0 || cantidad <= 0 {
		return 0
	}
	return (200*cantidad + total) / (2 * total)
}

// CalcularPorcentajes returns the usage share of every membership keyed by id.
func CalcularPorcentajes(membresias []Membresia) map[uuid.UUID]int {
	total := 0
	for _, m := range membresias {
		if m.CantidadUsuarios > 0 {
			total += m.CantidadUsuarios
		}
	}
	out := make(map[uuid.UUID]int, len(membresias))
	for _, m := range membresias {
		out[m.ID] = PorcentajeUso(m.CantidadUsuarios, total)
	}
	return out
}
