package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ClienteActivo     = "Activo"
	ClienteInactivo   = "Inactivo"
	ClienteSuspendido = "Suspendido"
	ClienteVencido    = "Vencido"
)

var EstadosCliente = []string{ClienteActivo, ClienteInactivo, ClienteSuspendido, ClienteVencido}

type NombreCompleto struct {
	Nombre          string
	ApellidoPaterno string
	ApellidoMaterno string
}

func (n NombreCompleto) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.Nombre, n.ApellidoPaterno, n.ApellidoMaterno} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type ContactoEmergencia struct {
	Nombre   string
	Telefono string
}

type Pago struct {
	Metodo string
	Monto  decimal.Decimal `gorm:"type:decimal(10,2)"`
	Moneda string          `gorm:"type:varchar(3)"`
}

// Cliente is a gym member. It always references exactly one membership.
// At most one Activo client may exist per (email, gym).
type Cliente struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreCompleto     NombreCompleto     `gorm:"embedded"`
	FechaNacimiento    *time.Time
	Email              string             `gorm:"index:idx_clientes_email_gym;not null"`
	Telefono           string
	RFC                string             `gorm:"column:rfc"`
	ContactoEmergencia ContactoEmergencia `gorm:"embedded;embeddedPrefix:contacto_emergencia_"`
	MembresiaID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	FechaInicio        *time.Time
	FechaFin           *time.Time
	Estado             string    `gorm:"type:varchar(20);not null;default:'Activo'"`
	Pago               Pago      `gorm:"embedded;embeddedPrefix:pago_"`
	GymID              uuid.UUID `gorm:"type:uuid;not null;index;index:idx_clientes_email_gym"`
	Auditoria          `gorm:"embedded"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Cliente) TableName() string { return "clientes" }

func (c Cliente) Activo() bool { return c.Estado == ClienteActivo }
