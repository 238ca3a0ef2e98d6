package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TipoUsuario discriminates the two account collections. It doubles as the
// JWT role.
type TipoUsuario string

const (
	TipoAdministrador TipoUsuario = "Administrador"
	TipoColaborador   TipoUsuario = "Colaborador"
)

func (t TipoUsuario) Valido() bool {
	return t == TipoAdministrador || t == TipoColaborador
}

// RefUsuario points at an Administrador or a Colaborador.
type RefUsuario struct {
	Tipo TipoUsuario
	ID   uuid.UUID
}

func (r RefUsuario) IsZero() bool { return r.ID == uuid.Nil }

// Auditoria is embedded by every gym-scoped entity that records who wrote it.
type Auditoria struct {
	RegistradoPorID    uuid.UUID    `gorm:"type:uuid;not null"`
	RegistradoPorTipo  TipoUsuario  `gorm:"type:varchar(20);not null"`
	ActualizadoPorID   *uuid.UUID   `gorm:"type:uuid"`
	ActualizadoPorTipo *TipoUsuario `gorm:"type:varchar(20)"`
}

func NuevaAuditoria(ref RefUsuario) Auditoria {
	return Auditoria{RegistradoPorID: ref.ID, RegistradoPorTipo: ref.Tipo}
}

func (a Auditoria) RegistradoPor() RefUsuario {
	return RefUsuario{Tipo: a.RegistradoPorTipo, ID: a.RegistradoPorID}
}

// ActualizadoPor returns nil when the record was never updated.
func (a Auditoria) ActualizadoPor() *RefUsuario {
	if a.ActualizadoPorID == nil || a.ActualizadoPorTipo == nil {
		return nil
	}
	return &RefUsuario{Tipo: *a.ActualizadoPorTipo, ID: *a.ActualizadoPorID}
}

func (a *Auditoria) MarcarActualizado(ref RefUsuario) {
	id, tipo := ref.ID, ref.Tipo
	a.ActualizadoPorID = &id
	a.ActualizadoPorTipo = &tipo
}

// Administrador owns at most one gym. GymID is nil until the gym is created.
type Administrador struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"not null"`
	Nombre       string    `gorm:"not null"`
	Apellido     string
	Email        string `gorm:"uniqueIndex;not null"`
	Telefono     string
	PasswordHash string     `gorm:"not null"`
	CodigoAdmin  string     `gorm:"not null"`
	GymID        *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Administrador) TableName() string { return "administradores" }

func (a Administrador) NombreCompleto() string {
	return strings.TrimSpace(a.Nombre + " " + a.Apellido)
}

// HorarioLaboral is stored as a JSON column.
type HorarioLaboral struct {
	Dias       []string `json:"days"`
	HoraInicio string   `json:"start_time"`
	HoraFin    string   `json:"end_time"`
}

// Colaborador is staff attached to exactly one gym. GymID becomes nil when
// the gym is deleted.
type Colaborador struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username          string    `gorm:"uniqueIndex;not null"`
	Nombre            string    `gorm:"not null"`
	Apellido          string
	Email             string `gorm:"uniqueIndex;not null"`
	Telefono          string
	PasswordHash      string `gorm:"not null"`
	CodigoColaborador string `gorm:"not null"`
	Color             string `gorm:"not null;default:'Verde'"`
	HorarioLaboral    datatypes.JSONType[HorarioLaboral]
	GymID             *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Colaborador) TableName() string { return "colaboradores" }

func (c Colaborador) NombreCompleto() string {
	return strings.TrimSpace(c.Nombre + " " + c.Apellido)
}
