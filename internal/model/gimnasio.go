package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Direccion keeps the JSON keys the mobile app already sends.
type Direccion struct {
	Calle        string `json:"street"`
	Colonia      string `json:"colony"`
	Avenida      string `json:"Avenue"`
	CodigoPostal string `json:"C.P"`
	Ciudad       string `json:"City"`
	Estado       string `json:"State"`
	Pais         string `json:"Country"`
}

// Gimnasio is the tenant root: everything else carries its gym_id.
type Gimnasio struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"uniqueIndex;not null"`
	Direccion    datatypes.JSONType[Direccion]
	HoraApertura string `gorm:"type:varchar(5);not null"`
	HoraCierre   string `gorm:"type:varchar(5);not null"`
	LogoURL      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Gimnasio) TableName() string { return "gimnasios" }

// DependenciasGimnasio counts the records that block a gym deletion.
type DependenciasGimnasio struct {
	Colaboradores int64 `json:"colaborators"`
	Clientes      int64 `json:"clients"`
	Membresias    int64 `json:"memberships"`
	Productos     int64 `json:"products"`
	Ventas        int64 `json:"sales"`
	Proveedores   int64 `json:"suppliers"`
}

func (d DependenciasGimnasio) Total() int64 {
	return d.Colaboradores + d.Clientes + d.Membresias + d.Productos + d.Ventas + d.Proveedores
}
