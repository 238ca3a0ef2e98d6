package handler

import (
	"net/http"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/middleware"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"

	"github.com/gin-gonic/gin"
)

type CalendarioHandler struct{ svc service.CalendarioService }

func NewCalendarioHandler(svc service.CalendarioService) *CalendarioHandler {
	return &CalendarioHandler{svc: svc}
}

func (h *CalendarioHandler) Crear(c *gin.Context) {
	var req dto.CrearEventoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CalendarioHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ActualizarEventoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.GetScope(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CalendarioHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetScope(c), id); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, "Evento eliminado exitosamente")
}

func (h *CalendarioHandler) Listar(c *gin.Context) {
	var filter dto.EventoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetScope(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CalendarioHandler) Hoy(c *gin.Context) {
	resp, err := h.svc.Hoy(c.Request.Context(), middleware.GetScope(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": resp})
}

func (h *CalendarioHandler) Rango(c *gin.Context) {
	var filter dto.RangoFechasFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Rango(c.Request.Context(), middleware.GetScope(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": resp})
}

func (h *CalendarioHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
