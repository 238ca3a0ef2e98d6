package model

import (
	"time"

	"github.com/google/uuid"
)

var CategoriasNota = []string{"nota", "recordatorio", "reporte", "curso", "capacitacion", "productos", "soporte", "quejas"}

// Nota belongs to a single user; nobody else can read it.
type Nota struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Titulo      string      `gorm:"type:varchar(100);not null"`
	Contenido   string      `gorm:"type:varchar(2000);not null"`
	Categoria   string      `gorm:"type:varchar(20);not null;default:'nota'"`
	UsuarioID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_notas_usuario"`
	UsuarioTipo TipoUsuario `gorm:"type:varchar(20);not null;index:idx_notas_usuario"`
	GymID       *uuid.UUID  `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Nota) TableName() string { return "notas" }
