package dto

import "github.com/shopspring/decimal"

type NombreCompletoDTO struct {
	First      string `json:"first"       validate:"required,max=80"`
	LastFather string `json:"last_father" validate:"max=80"`
	LastMother string `json:"last_mother" validate:"max=80"`
}

type ContactoEmergenciaDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type PagoDTO struct {
	Method   string          `json:"method"   validate:"omitempty,oneof=efectivo tarjeta transferencia"`
	Amount   decimal.Decimal `json:"amount"   validate:"min=0"`
	Currency string          `json:"currency" validate:"omitempty,oneof=MXN USD EUR"`
}

type CrearClienteRequest struct {
	FullName         NombreCompletoDTO      `json:"full_name"         validate:"required"`
	BirthDate        *Fecha                 `json:"birth_date"`
	Email            string                 `json:"email"             validate:"required,email"`
	Phone            string                 `json:"phone"`
	RFC              string                 `json:"rfc"               validate:"omitempty,min=12,max=13"`
	EmergencyContact *ContactoEmergenciaDTO `json:"emergency_contact"`
	MembershipID     string                 `json:"membership_id"     validate:"required,uuid"`
	StartDate        *Fecha                 `json:"start_date"`
	EndDate          *Fecha                 `json:"end_date"`
	Status           string                 `json:"status"            validate:"omitempty,oneof=Activo Inactivo Suspendido Vencido"`
	Payment          *PagoDTO               `json:"payment"`
}

type ActualizarClienteRequest struct {
	ID               string                 `json:"id"                validate:"required,uuid"`
	FullName         *NombreCompletoDTO     `json:"full_name"`
	BirthDate        *Fecha                 `json:"birth_date"`
	Email            *string                `json:"email"             validate:"omitempty,email"`
	Phone            *string                `json:"phone"`
	RFC              *string                `json:"rfc"               validate:"omitempty,min=12,max=13"`
	EmergencyContact *ContactoEmergenciaDTO `json:"emergency_contact"`
	MembershipID     *string                `json:"membership_id"     validate:"omitempty,uuid"`
	StartDate        *Fecha                 `json:"start_date"`
	EndDate          *Fecha                 `json:"end_date"`
	Status           *string                `json:"status"            validate:"omitempty,oneof=Activo Inactivo Suspendido Vencido"`
	Payment          *PagoDTO               `json:"payment"`
}

type ClienteFilter struct {
	Paginacion
	Status       string `form:"status"        validate:"omitempty,oneof=Activo Inactivo Suspendido Vencido"`
	MembershipID string `form:"membership_id" validate:"omitempty,uuid"`
	Search       string `form:"search"`
}

type ClienteResponse struct {
	ID               string                `json:"_id"`
	FullName         NombreCompletoDTO     `json:"full_name"`
	BirthDate        *string               `json:"birth_date"`
	Email            string                `json:"email"`
	Phone            string                `json:"phone"`
	RFC              string                `json:"rfc"`
	EmergencyContact ContactoEmergenciaDTO `json:"emergency_contact"`
	MembershipID     string                `json:"membership_id"`
	StartDate        *string               `json:"start_date"`
	EndDate          *string               `json:"end_date"`
	Status           string                `json:"status"`
	Payment          PagoDTO               `json:"payment"`
	GymID            string                `json:"gym_id"`
	RegisteredBy     RefUsuarioResponse    `json:"registered_by"`
	UpdatedBy        *RefUsuarioResponse   `json:"updated_by"`
	CreatedAt        string                `json:"createdAt"`
	UpdatedAt        string                `json:"updatedAt"`
}

type ClienteListResponse struct {
	Clients    []ClienteResponse  `json:"clients"`
	Pagination PaginacionResponse `json:"pagination"`
}
