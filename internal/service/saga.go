package service

import (
	"context"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"

	"github.com/rs/zerolog/log"
)

// saga runs the steps of a multi-write flow and remembers how to undo the
// ones that completed. Not safe for concurrent use.
type saga struct {
	flujo   string
	metrics *infra.Metrics
	hechos  []compensacion
}

type compensacion struct {
	paso     string
	deshacer func(ctx context.Context) error
}

func nuevaSaga(flujo string, metrics *infra.Metrics) *saga {
	return &saga{flujo: flujo, metrics: metrics}
}

// Paso runs hacer. When it succeeds and deshacer is not nil, deshacer is kept
// for Compensar.
func (s *saga) Paso(ctx context.Context, paso string, hacer, deshacer func(ctx context.Context) error) error {
	if err := hacer(ctx); err != nil {
		return err
	}
	if deshacer != nil {
		s.hechos = append(s.hechos, compensacion{paso: paso, deshacer: deshacer})
	}
	return nil
}

// Compensar undoes the completed steps in reverse order. It ignores request
// cancellation and never returns an error: failures are logged and counted.
func (s *saga) Compensar(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := len(s.hechos) - 1; i >= 0; i-- {
		c := s.hechos[i]
		if err := c.deshacer(ctx); err != nil {
			log.Error().Err(err).Str("flujo", s.flujo).Str("paso", c.paso).Msg("saga: compensation failed")
			s.metrics.Compensacion(s.flujo, "error")
			continue
		}
		log.Warn().Str("flujo", s.flujo).Str("paso", c.paso).Msg("saga: step compensated")
		s.metrics.Compensacion(s.flujo, "ok")
	}
	s.hechos = nil
}

// Abortar compensates and returns err unchanged.
func (s *saga) Abortar(ctx context.Context, err error) error {
	s.Compensar(ctx)
	return err
}
