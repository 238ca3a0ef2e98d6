package dto

type CrearProveedorRequest struct {
	Name  string `json:"name"  validate:"required,max=120"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

type ActualizarProveedorRequest struct {
	ID    string  `json:"id"    validate:"required,uuid"`
	Name  *string `json:"name"  validate:"omitempty,max=120"`
	Phone *string `json:"phone"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type ProveedorFilter struct {
	Paginacion
	Search string `form:"search"`
}

type ProveedorResponse struct {
	ID           string              `json:"_id"`
	Name         string              `json:"name"`
	Phone        string              `json:"phone"`
	Email        string              `json:"email"`
	GymID        string              `json:"gym_id"`
	RegisteredBy RefUsuarioResponse  `json:"registered_by"`
	UpdatedBy    *RefUsuarioResponse `json:"updated_by"`
	CreatedAt    string              `json:"createdAt"`
	UpdatedAt    string              `json:"updatedAt"`
}

type ProveedorListResponse struct {
	Suppliers  []ProveedorResponse `json:"suppliers"`
	Pagination PaginacionResponse  `json:"pagination"`
}
