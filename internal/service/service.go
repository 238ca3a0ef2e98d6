package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notificador enqueues async mail jobs. *worker.Dispatcher satisfies it.
// Services receive nil when mail delivery is disabled.
type Notificador interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
	EnqueueRecibo(ctx context.Context, payload worker.ReciboJobPayload) error
}

// NormalizadorTelefono is satisfied by *infra.PhoneValidator.
type NormalizadorTelefono interface {
	Normalizar(telefono string) (string, error)
}

// RedimensionadorImagen is satisfied by *infra.ImageResizer.
type RedimensionadorImagen interface {
	ResizeDataURL(dataURL string) (string, error)
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// noEncontrado maps gorm.ErrRecordNotFound to a NotFound domain error.
func noEncontrado(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(msg)
	}
	return err
}

// duplicado maps unique violations to a Conflict domain error.
func duplicado(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.Conflict(msg, err)
	}
	return err
}

// normalizarTelefono stores phones in E.164. Empty input and a nil
// normalizer keep the value as typed.
func normalizarTelefono(n NormalizadorTelefono, tel string) (string, error) {
	tel = strings.TrimSpace(tel)
	if tel == "" || n == nil {
		return tel, nil
	}
	e164, err := n.Normalizar(tel)
	if err != nil {
		return "", apierror.Validation("Teléfono inválido", err)
	}
	return e164, nil
}

func parseID(s, campo string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apierror.Validation(campo+" invalido", err)
	}
	return id, nil
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func fmtTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fmtTime(*t)
	return &s
}

func fmtFechaPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
