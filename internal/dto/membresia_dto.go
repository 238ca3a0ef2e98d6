package dto

import "github.com/shopspring/decimal"

type CrearMembresiaRequest struct {
	NameMembership string          `json:"name_membership" validate:"required,max=100"`
	Description    string          `json:"description"     validate:"max=500"`
	Price          decimal.Decimal `json:"price"           validate:"required,min=0"`
	DurationDays   int             `json:"duration_days"   validate:"required,min=1"`
	Period         string          `json:"period"          validate:"required,oneof=quincenal mensual trimestral anual"`
	Status         string          `json:"status"          validate:"omitempty,oneof=Activado Desactivado"`
	Currency       string          `json:"currency"        validate:"omitempty,oneof=MXN USD EUR"`
	Color          string          `json:"color"`
}

// ActualizarMembresiaRequest has no counters: those belong to the recalculator.
type ActualizarMembresiaRequest struct {
	ID             string           `json:"id"              validate:"required,uuid"`
	NameMembership *string          `json:"name_membership" validate:"omitempty,max=100"`
	Description    *string          `json:"description"     validate:"omitempty,max=500"`
	Price          *decimal.Decimal `json:"price"`
	DurationDays   *int             `json:"duration_days"   validate:"omitempty,min=1"`
	Period         *string          `json:"period"          validate:"omitempty,oneof=quincenal mensual trimestral anual"`
	Status         *string          `json:"status"          validate:"omitempty,oneof=Activado Desactivado"`
	Currency       *string          `json:"currency"        validate:"omitempty,oneof=MXN USD EUR"`
	Color          *string          `json:"color"`
}

type MembresiaResponse struct {
	ID               string          `json:"_id"`
	NameMembership   string          `json:"name_membership"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	DurationDays     int             `json:"duration_days"`
	Period           string          `json:"period"`
	Status           string          `json:"status"`
	Currency         string          `json:"currency"`
	Color            string          `json:"color"`
	CantidadUsuarios int             `json:"cantidad_usuarios"`
	PorcentajeUso    int             `json:"porcentaje_uso"`
	GymID            string          `json:"gym_id"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt"`
}

type MembresiaListResponse struct {
	Memberships   []MembresiaResponse `json:"memberships"`
	TotalUsuarios int                 `json:"total_usuarios"`
}
