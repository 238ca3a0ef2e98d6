package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/middleware"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Vender godoc
// @Summary      Registrar una venta
// @Description  Descuenta stock de forma atómica, incrementa sales_obtained y guarda la instantánea de la venta.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.VenderProductoRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaDetalleResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/productSale/sell [post]
func (h *VentasHandler) Vender(c *gin.Context) {
	var req dto.VenderProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Vender(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cancelar godoc
// @Summary      Cancelar venta
// @Description  Restaura el stock y marca la venta como Cancelada. Una segunda cancelación devuelve 409.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CancelarVentaRequest true "ID y motivo"
// @Success      200  {object} dto.VentaDetalleResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/productSale/cancel [post]
func (h *VentasHandler) Cancelar(c *gin.Context) {
	var req dto.CancelarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cancelar(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Eliminar(c *gin.Context) {
	id, ok := bodyID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetScope(c), id); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, "Venta eliminada exitosamente")
}

func (h *VentasHandler) EliminarLote(c *gin.Context) {
	var req dto.EliminarVentasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EliminarLote(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar ventas
// @Description  Historial paginado con resumen de unidades e ingresos de las ventas exitosas.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        status     query string false "Exitosa | Pendiente | Cancelada"
// @Param        product_id query string false "UUID del producto"
// @Param        client_id  query string false "UUID del cliente"
// @Param        from       query string false "Fecha YYYY-MM-DD"
// @Param        to         query string false "Fecha YYYY-MM-DD (inclusive)"
// @Param        page       query int    false "Página (default 1)"
// @Param        limit      query int    false "Registros por página (default 20)"
// @Success      200  {object} dto.VentaListResponse
// @Router       /api/productSale/all [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
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

func (h *VentasHandler) ObtenerPorID(c *gin.Context) {
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

func (h *VentasHandler) Recibo(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	pdf, nombre, err := h.svc.Recibo(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, nombre))
	c.Data(http.StatusOK, mimePDF, pdf)
}

func (h *VentasHandler) Exportar(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	xlsx, err := h.svc.Exportar(c.Request.Context(), middleware.GetScope(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	nombre := fmt.Sprintf("ventas_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, mimeXLSX, xlsx)
}
