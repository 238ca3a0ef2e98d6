package dto

type CrearEventoRequest struct {
	Title     string `json:"title"      validate:"required,max=100"`
	EventDate string `json:"event_date" validate:"required"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time"   validate:"required,hhmm"`
	Category  string `json:"category"   validate:"omitempty,oneof=meetings sales feedback reports evaluation maintenance training metrics special"`
}

type ActualizarEventoRequest struct {
	Title     *string `json:"title"      validate:"omitempty,max=100"`
	EventDate *string `json:"event_date"`
	StartTime *string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime   *string `json:"end_time"   validate:"omitempty,hhmm"`
	Category  *string `json:"category"   validate:"omitempty,oneof=meetings sales feedback reports evaluation maintenance training metrics special"`
}

type EventoFilter struct {
	Paginacion
	Category string `form:"category" validate:"omitempty,oneof=meetings sales feedback reports evaluation maintenance training metrics special"`
}

type RangoFechasFilter struct {
	Start string `form:"start" validate:"required"`
	End   string `form:"end"   validate:"required"`
}

type EventoResponse struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	EventDate string `json:"event_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Category  string `json:"category"`
	UserID    string `json:"user_id"`
	UserType  string `json:"user_type"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type EventoListResponse struct {
	Events     []EventoResponse   `json:"events"`
	Pagination PaginacionResponse `json:"pagination"`
	Stats      map[string]int64   `json:"stats"`
}
