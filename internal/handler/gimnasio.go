package handler

import (
	"net/http"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/middleware"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"

	"github.com/gin-gonic/gin"
)

type GimnasioHandler struct{ svc service.GimnasioService }

func NewGimnasioHandler(svc service.GimnasioService) *GimnasioHandler {
	return &GimnasioHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear gimnasio
// @Description  Crea el gimnasio del administrador y devuelve un token nuevo con gym_id.
// @Tags         gimnasio
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearGimnasioRequest true "Datos del gimnasio"
// @Success      201  {object} dto.GimnasioCreadoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/gym/created [post]
func (h *GimnasioHandler) Crear(c *gin.Context) {
	var req dto.CrearGimnasioRequest
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

func (h *GimnasioHandler) MiGimnasio(c *gin.Context) {
	resp, err := h.svc.MiGimnasio(c.Request.Context(), middleware.GetScope(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gym": resp})
}

func (h *GimnasioHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarGimnasioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gimnasio actualizado exitosamente", "gym": resp})
}

// Eliminar godoc
// @Summary      Eliminar gimnasio
// @Description  Rechazado con 409 y los conteos de dependencias mientras existan registros asociados.
// @Tags         gimnasio
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.IDRequest true "ID del gimnasio"
// @Success      200  {object} dto.MensajeResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/gym/delete [post]
func (h *GimnasioHandler) Eliminar(c *gin.Context) {
	id, ok := bodyID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetScope(c), id); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, "Gimnasio eliminado exitosamente. Inicie sesión nuevamente.")
}
