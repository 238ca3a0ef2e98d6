package model

import (
	"time"

	"github.com/google/uuid"
)

var CategoriasEvento = []string{"meetings", "sales", "feedback", "reports", "evaluation", "maintenance", "training", "metrics", "special"}

type EventoCalendario struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Titulo      string      `gorm:"type:varchar(100);not null"`
	FechaEvento time.Time   `gorm:"type:date;not null;index:idx_eventos_usuario_fecha"`
	HoraInicio  string      `gorm:"type:varchar(5);not null"`
	HoraFin     string      `gorm:"type:varchar(5);not null"`
	Categoria   string      `gorm:"type:varchar(20);not null;default:'meetings'"`
	UsuarioID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_eventos_usuario_fecha"`
	UsuarioTipo TipoUsuario `gorm:"type:varchar(20);not null"`
	GymID       *uuid.UUID  `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (EventoCalendario) TableName() string { return "eventos_calendario" }
