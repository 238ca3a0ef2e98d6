package handler

import (
	"net/http"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/middleware"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"

	"github.com/gin-gonic/gin"
)

type MembresiasHandler struct{ svc service.MembresiaService }

func NewMembresiasHandler(svc service.MembresiaService) *MembresiasHandler {
	return &MembresiasHandler{svc: svc}
}

func (h *MembresiasHandler) Crear(c *gin.Context) {
	var req dto.CrearMembresiaRequest
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

func (h *MembresiasHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarMembresiaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar membresía
// @Description  Rechazado con 409 mientras algún cliente la tenga asignada.
// @Tags         membresias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.IDRequest true "ID de la membresía"
// @Success      200  {object} dto.MensajeResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/membership/delete [post]
func (h *MembresiasHandler) Eliminar(c *gin.Context) {
	id, ok := bodyID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetScope(c), id); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, "Membresía eliminada exitosamente")
}

func (h *MembresiasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetScope(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MembresiasHandler) ObtenerPorID(c *gin.Context) {
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
