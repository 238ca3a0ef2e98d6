package dto

// ─── Login ───────────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message   string          `json:"message"`
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresIn int             `json:"expires_in"`
	User      UsuarioResponse `json:"user"`
}

// UsuarioResponse describes the logged-in account of either type.
type UsuarioResponse struct {
	ID       string  `json:"_id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	LastName string  `json:"last_name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	GymID    *string `json:"gym_id"`
	Code     string  `json:"code"`
}

// ─── Administrador ───────────────────────────────────────────────────────────

type RegistrarAdminRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=50"`
	Name      string `json:"name"       validate:"required,max=80"`
	LastName  string `json:"last_name"  validate:"max=80"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=6"`
	Phone     string `json:"phone"`
	AdminCode string `json:"admin_code" validate:"omitempty,max=20"`
}

type AdminRegistradoResponse struct {
	Message string          `json:"message"`
	Admin   UsuarioResponse `json:"admin"`
}

// ─── Colaborador ─────────────────────────────────────────────────────────────

type HorarioLaboralDTO struct {
	Days      []string `json:"days"       validate:"omitempty,dive,oneof=Lunes Martes Miercoles Miércoles Jueves Viernes Sabado Sábado Domingo"`
	StartTime string   `json:"start_time" validate:"omitempty,hhmm"`
	EndTime   string   `json:"end_time"   validate:"omitempty,hhmm"`
}

type RegistrarColaboradorRequest struct {
	Username    string             `json:"username"    validate:"required,min=3,max=50"`
	Name        string             `json:"name"        validate:"required,max=80"`
	LastName    string             `json:"last_name"   validate:"required,max=80"`
	Email       string             `json:"email"       validate:"required,email"`
	Password    string             `json:"password"    validate:"required,min=6"`
	Phone       string             `json:"phone"`
	Color       string             `json:"color"`
	WorkingHour *HorarioLaboralDTO `json:"working_hour"`
}

type ActualizarColaboradorRequest struct {
	ID          string             `json:"id"          validate:"required,uuid"`
	Username    *string            `json:"username"    validate:"omitempty,min=3,max=50"`
	Name        *string            `json:"name"        validate:"omitempty,max=80"`
	LastName    *string            `json:"last_name"   validate:"omitempty,max=80"`
	Email       *string            `json:"email"       validate:"omitempty,email"`
	Password    *string            `json:"password"    validate:"omitempty,min=6"`
	Phone       *string            `json:"phone"`
	Color       *string            `json:"color"`
	WorkingHour *HorarioLaboralDTO `json:"working_hour"`
}

type ColaboradorResponse struct {
	ID              string            `json:"_id"`
	Username        string            `json:"username"`
	Name            string            `json:"name"`
	LastName        string            `json:"last_name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	ColaboratorCode string            `json:"colaborator_code"`
	Color           string            `json:"color"`
	Role            string            `json:"role"`
	GymID           *string           `json:"gym_id"`
	WorkingHour     HorarioLaboralDTO `json:"working_hour"`
	CreatedAt       string            `json:"createdAt"`
}

type ColaboradorRegistradoResponse struct {
	Message     string              `json:"message"`
	Colaborator ColaboradorResponse `json:"colaborator"`
}
