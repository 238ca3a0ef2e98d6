package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Paginacion is bound from the query string of every GET /all endpoint.
type Paginacion struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=200"`
}

func (p Paginacion) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Normalizar applies defaults for callers that bypass binding (tests, CLI).
func (p Paginacion) Normalizar() Paginacion {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 200 {
		p.Limit = 20
	}
	return p
}

type PaginacionResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

func NuevaPaginacion(p Paginacion, total int64) PaginacionResponse {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return PaginacionResponse{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}

// IDRequest is the body of every POST /delete.
type IDRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

type MensajeResponse struct {
	Message string `json:"message"`
}

// Fecha accepts "2006-01-02" or RFC 3339 in JSON bodies.
type Fecha struct {
	time.Time
}

func (f *Fecha) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := ParseFecha(s)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

func (f Fecha) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Time.Format(time.RFC3339))
}

// Ptr returns nil for a nil Fecha so optional columns stay NULL.
func (f *Fecha) Ptr() *time.Time {
	if f == nil || f.Time.IsZero() {
		return nil
	}
	t := f.Time
	return &t
}

// ParseFecha parses a calendar date or an RFC 3339 timestamp.
func ParseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("fecha invalida %q: use YYYY-MM-DD", s)
}

// RefUsuarioResponse is the resolved audit reference shown to clients.
type RefUsuarioResponse struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Nombre string `json:"name"`
}
