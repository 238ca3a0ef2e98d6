package worker

// email_worker.go
// Processes plain email jobs from QueueEmail (welcome mails, stock alerts).

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Enviador is satisfied by *infra.Mailer.
type Enviador interface {
	Enviar(to []string, subject, body string, adjuntos ...infra.Adjunto) error
}

type EmailWorker struct {
	mailer Enviador
}

func NewEmailWorker(mailer Enviador) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil // retrying will not fix it
	}
	if len(payload.To) == 0 {
		log.Warn().Msg("email_worker: no recipients, skipping")
		return nil
	}
	if err := w.mailer.Enviar(payload.To, payload.Subject, payload.Body); err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			log.Warn().Strs("to", payload.To).Msg("email_worker: smtp circuit open")
		}
		return err
	}
	log.Info().Strs("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: sent")
	return nil
}
