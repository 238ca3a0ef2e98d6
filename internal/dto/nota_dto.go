package dto

type CrearNotaRequest struct {
	Title    string `json:"title"    validate:"required,max=100"`
	Content  string `json:"content"  validate:"required,max=2000"`
	Category string `json:"category" validate:"omitempty,oneof=nota recordatorio reporte curso capacitacion productos soporte quejas"`
}

type ActualizarNotaRequest struct {
	ID       string  `json:"id"       validate:"required,uuid"`
	Title    *string `json:"title"    validate:"omitempty,max=100"`
	Content  *string `json:"content"  validate:"omitempty,max=2000"`
	Category *string `json:"category" validate:"omitempty,oneof=nota recordatorio reporte curso capacitacion productos soporte quejas"`
}

type NotaFilter struct {
	Paginacion
	Category string `form:"category" validate:"omitempty,oneof=nota recordatorio reporte curso capacitacion productos soporte quejas"`
	Search   string `form:"search"`
	// Sort: "recent" (default), "oldest", "title"
	Sort string `form:"sort" validate:"omitempty,oneof=recent oldest title"`
}

type NotaResponse struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	UserID    string `json:"user_id"`
	UserType  string `json:"user_type"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type NotaListResponse struct {
	Notes      []NotaResponse     `json:"notes"`
	Pagination PaginacionResponse `json:"pagination"`
	Stats      map[string]int64   `json:"stats"`
}

type NotaStatsResponse struct {
	Total      int64            `json:"total"`
	ByCategory map[string]int64 `json:"by_category"`
}
