package service

import (
	"fmt"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the JWT payload shared with middleware.JWTAuth.
type Claims struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	GymID string `json:"gym_id,omitempty"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Tokens issues HS256 tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// TTL is the token lifetime in seconds.
func (t *Tokens) TTL() int { return int(t.ttl / time.Second) }

func (t *Tokens) Emitir(ref model.RefUsuario, nombre string, gymID *uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:   ref.ID.String(),
		Role: string(ref.Tipo),
		Name: nombre,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	if gymID != nil {
		claims.GymID = gymID.String()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("firmar token: %w", err)
	}
	return signed, nil
}
