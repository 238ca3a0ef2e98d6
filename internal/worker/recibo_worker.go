package worker

// recibo_worker.go
// Renders the PDF receipt of a sale and mails it to the buyer.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReciboJobPayload is the job envelope sent to QueueRecibos.
type ReciboJobPayload struct {
	VentaID string `json:"venta_id"`
	GymID   string `json:"gym_id"`
	Email   string `json:"email"`
}

type ReciboWorker struct {
	ventas    repository.VentaProductoRepository
	gimnasios repository.GimnasioRepository
	mailer    Enviador
}

func NewReciboWorker(ventas repository.VentaProductoRepository, gimnasios repository.GimnasioRepository, mailer Enviador) *ReciboWorker {
	return &ReciboWorker{ventas: ventas, gimnasios: gimnasios, mailer: mailer}
}

func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return nil
	}
	ventaID, err1 := uuid.Parse(payload.VentaID)
	gymID, err2 := uuid.Parse(payload.GymID)
	if err1 != nil || err2 != nil || payload.Email == "" {
		log.Error().Str("venta_id", payload.VentaID).Msg("recibo_worker: incomplete payload")
		return nil
	}

	venta, err := w.ventas.FindByID(ctx, gymID, ventaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// deleted before we got to it
		log.Warn().Str("venta_id", payload.VentaID).Msg("recibo_worker: sale no longer exists")
		return nil
	}
	if err != nil {
		return err
	}
	gymNombre := ""
	if gym, err := w.gimnasios.FindByID(ctx, gymID); err == nil {
		gymNombre = gym.Nombre
	}

	var buf bytes.Buffer
	if err := infra.EscribirReciboVenta(&buf, gymNombre, venta); err != nil {
		return err
	}
	adjunto := infra.Adjunto{
		Nombre:      fmt.Sprintf("recibo-%s.pdf", venta.CodigoVenta),
		ContentType: "application/pdf",
		Contenido:   buf.Bytes(),
	}
	subject := fmt.Sprintf("Recibo de compra %s", venta.CodigoVenta)
	body := fmt.Sprintf("Hola %s, adjuntamos el recibo de tu compra de %s.", venta.NombreCliente, venta.NombreProducto)
	if err := w.mailer.Enviar([]string{payload.Email}, subject, body, adjunto); err != nil {
		return err
	}
	log.Info().Str("venta_id", payload.VentaID).Msg("recibo_worker: receipt sent")
	return nil
}
