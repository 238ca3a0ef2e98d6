package infra

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the business counters exported on /metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ventas         *prometheus.CounterVec
	unidades       prometheus.Counter
	rebalanceos    *prometheus.CounterVec
	compensaciones *prometheus.CounterVec
	jobs           *prometheus.CounterVec
	circuito       *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		ventas: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timefit", Subsystem: "ventas", Name: "operaciones_total",
			Help: "Sale ledger operations by outcome.",
		}, []string{"operacion", "resultado"}),
		unidades: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "timefit", Subsystem: "ventas", Name: "unidades_vendidas_total",
			Help: "Units sold through successful sales.",
		}),
		rebalanceos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timefit", Subsystem: "membresias", Name: "rebalanceos_total",
			Help: "Membership usage recalculations by outcome.",
		}, []string{"resultado"}),
		compensaciones: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timefit", Subsystem: "saga", Name: "compensaciones_total",
			Help: "Compensating actions executed by flow and outcome.",
		}, []string{"flujo", "resultado"}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timefit", Subsystem: "worker", Name: "jobs_total",
			Help: "Async jobs processed by type and outcome.",
		}, []string{"tipo", "resultado"}),
		circuito: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "timefit", Subsystem: "circuit_breaker", Name: "estado",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open).",
		}, []string{"nombre"}),
	}
	reg.MustRegister(m.ventas, m.unidades, m.rebalanceos, m.compensaciones, m.jobs, m.circuito)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError})
}

func (m *Metrics) Venta(operacion, resultado string) {
	if m == nil {
		return
	}
	m.ventas.WithLabelValues(operacion, resultado).Inc()
}

func (m *Metrics) UnidadesVendidas(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.unidades.Add(float64(n))
}

func (m *Metrics) Rebalanceo(resultado string) {
	if m == nil {
		return
	}
	m.rebalanceos.WithLabelValues(resultado).Inc()
}

func (m *Metrics) Compensacion(flujo, resultado string) {
	if m == nil {
		return
	}
	m.compensaciones.WithLabelValues(flujo, resultado).Inc()
}

func (m *Metrics) Job(tipo, resultado string) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(tipo, resultado).Inc()
}

// CircuitoCambio matches CircuitBreakerConfig.OnStateChange.
func (m *Metrics) CircuitoCambio(nombre string, _, to CBState) {
	if m == nil {
		return
	}
	m.circuito.WithLabelValues(nombre).Set(float64(to))
}
