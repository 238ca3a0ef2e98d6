package handler

import (
	"net/http"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/middleware"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// RegistrarAdmin godoc
// @Summary Registro de administrador
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegistrarAdminRequest true "Datos del administrador"
// @Success 201 {object} dto.AdminRegistradoResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/admin/register [post]
func (h *AuthHandler) RegistrarAdmin(c *gin.Context) {
	var req dto.RegistrarAdminRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarAdmin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginAdmin godoc
// @Summary Login de administrador
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /api/admin/login [post]
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.LoginAdmin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LoginColaborador godoc
// @Summary Login de colaborador
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /api/colaborator/login [post]
func (h *AuthHandler) LoginColaborador(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.LoginColaborador(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.svc.Perfil(c.Request.Context(), middleware.GetScope(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": resp})
}

// ── Colaboradores Handler ────────────────────────────────────────────────────

type ColaboradoresHandler struct{ svc service.AuthService }

func NewColaboradoresHandler(svc service.AuthService) *ColaboradoresHandler {
	return &ColaboradoresHandler{svc: svc}
}

// Registrar godoc
// @Summary      Registrar colaborador
// @Description  Crea un colaborador en el gimnasio del administrador autenticado.
// @Tags         colaboradores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarColaboradorRequest true "Datos del colaborador"
// @Success      201  {object} dto.ColaboradorRegistradoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/colaborator/register [post]
func (h *ColaboradoresHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarColaboradorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarColaborador(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ColaboradoresHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarColaboradores(c.Request.Context(), middleware.GetScope(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"colaborators": resp})
}

func (h *ColaboradoresHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerColaborador(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ColaboradoresHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarColaboradorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarColaborador(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ColaboradoresHandler) Eliminar(c *gin.Context) {
	id, ok := bodyID(c)
	if !ok {
		return
	}
	if err := h.svc.EliminarColaborador(c.Request.Context(), middleware.GetScope(c), id); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, "Colaborador eliminado exitosamente")
}
