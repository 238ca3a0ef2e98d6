package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor is a per-gym vendor. Email is stored lowercased.
type Proveedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Telefono  string
	Email     string    `gorm:"index"`
	GymID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Auditoria `gorm:"embedded"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
