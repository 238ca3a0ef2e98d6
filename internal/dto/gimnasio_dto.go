package dto

type DireccionDTO struct {
	Street  string `json:"street"  validate:"required"`
	Colony  string `json:"colony"  validate:"required"`
	Avenue  string `json:"Avenue"  validate:"required"`
	CP      string `json:"C.P"     validate:"required"`
	City    string `json:"City"    validate:"required"`
	State   string `json:"State"   validate:"required"`
	Country string `json:"Country" validate:"required"`
}

type CrearGimnasioRequest struct {
	Name        string       `json:"name"         validate:"required,max=120"`
	Address     DireccionDTO `json:"address"      validate:"required"`
	OpeningTime string       `json:"opening_time" validate:"required,hhmm"`
	ClosingTime string       `json:"closing_time" validate:"required,hhmm"`
	LogoURL     *string      `json:"logo_url"`
}

type ActualizarGimnasioRequest struct {
	ID          string        `json:"id"           validate:"required,uuid"`
	Name        *string       `json:"name"         validate:"omitempty,max=120"`
	Address     *DireccionDTO `json:"address"`
	OpeningTime *string       `json:"opening_time" validate:"omitempty,hhmm"`
	ClosingTime *string       `json:"closing_time" validate:"omitempty,hhmm"`
	LogoURL     *string       `json:"logo_url"`
}

type GimnasioResponse struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Address     DireccionDTO `json:"address"`
	OpeningTime string       `json:"opening_time"`
	ClosingTime string       `json:"closing_time"`
	LogoURL     *string      `json:"logo_url"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

// GimnasioCreadoResponse carries a fresh token: the previous one has no gym_id.
type GimnasioCreadoResponse struct {
	Message string           `json:"message"`
	Gym     GimnasioResponse `json:"gym"`
	Token   string           `json:"token"`
}
