package middleware

import (
	"net/http"
	"strings"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
	ScopeKey  = "scope"
)

// JWTAuth validates the Bearer token on every protected route.
// A missing token is 401; a token that does not verify is 403.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token no proporcionado"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &service.Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Token invalido o expirado"))
			return
		}

		sc, err := scopeFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.WithCause("Token invalido o expirado", err))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(ScopeKey, sc)
		c.Next()
	}
}

func scopeFromClaims(cl *service.Claims) (tenant.Scope, error) {
	id, err := uuid.Parse(cl.ID)
	if err != nil {
		return tenant.Scope{}, err
	}
	rol := model.TipoUsuario(cl.Role)
	if !rol.Valido() {
		return tenant.Scope{}, jwt.ErrTokenInvalidClaims
	}
	sc := tenant.Scope{UsuarioID: id, Rol: rol, Nombre: cl.Name}
	if cl.GymID != "" {
		if sc.GymID, err = uuid.Parse(cl.GymID); err != nil {
			return tenant.Scope{}, err
		}
	}
	return sc, nil
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...model.TipoUsuario) gin.HandlerFunc {
	allowed := make(map[model.TipoUsuario]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		sc, ok := c.Get(ScopeKey)
		if !ok || !allowed[sc.(tenant.Scope).Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Acceso denegado: rol no autorizado"))
			return
		}
		c.Next()
	}
}

// RequireGym rejects callers whose token carries no gym_id.
func RequireGym() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetScope(c).TieneGym() {
			c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New("Se requiere un gimnasio asociado al usuario"))
			return
		}
		c.Next()
	}
}

// GetScope returns the caller identity set by JWTAuth. The zero Scope is
// returned on public routes.
func GetScope(c *gin.Context) tenant.Scope {
	v, ok := c.Get(ScopeKey)
	if !ok {
		return tenant.Scope{}
	}
	sc, _ := v.(tenant.Scope)
	return sc
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*service.Claims)
	return claims
}
