// Package metrics expone contadores Prometheus del servicio en /metrics.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/reminders"
	"pet-meds/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "petmeds"

// Metrics agrupa los collectors en un registry propio (no el global).
type Metrics struct {
	reg *prometheus.Registry

	mutations     *prometheus.CounterVec
	storageErrors *prometheus.CounterVec
	dosesGiven    prometheus.Counter

	remindersPending prometheus.Gauge
	remindersFired   *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var (
	_ petmeds.Observer   = (*Metrics)(nil)
	_ reminders.Observer = (*Metrics)(nil)
)

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Mutaciones del servicio por operación y resultado.",
		}, []string{"op", "result"}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Errores del sustrato de persistencia por tipo (read/write).",
		}, []string{"kind"}),
		dosesGiven: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "doses_given_total",
			Help:      "Dosis registradas con éxito.",
		}),
		remindersPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reminders_pending",
			Help:      "Avisos programados en la última replanificación.",
		}),
		remindersFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_fired_total",
			Help:      "Avisos disparados por resultado de entrega.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests HTTP por método y status.",
		}, []string{"method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de requests HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	m.reg.MustRegister(
		m.mutations,
		m.storageErrors,
		m.dosesGiven,
		m.remindersPending,
		m.remindersFired,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveMutation implementa petmeds.Observer.
func (m *Metrics) ObserveMutation(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
		if op == "mark_given" {
			m.dosesGiven.Inc()
		}
	case errors.Is(err, petmeds.ErrNotFound):
		result = "not_found"
	case errors.Is(err, petmeds.ErrInvalidInput):
		result = "invalid"
	default:
		result = "error"
	}
	m.mutations.WithLabelValues(op, result).Inc()

	if errors.Is(err, store.ErrStorageRead) {
		m.storageErrors.WithLabelValues("read").Inc()
	}
	if errors.Is(err, store.ErrStorageWrite) {
		m.storageErrors.WithLabelValues("write").Inc()
	}
}

// RemindersScheduled implementa reminders.Observer.
func (m *Metrics) RemindersScheduled(n int) {
	m.remindersPending.Set(float64(n))
}

// ReminderFired implementa reminders.Observer.
func (m *Metrics) ReminderFired(err error) {
	m.remindersPending.Dec()
	if err != nil {
		m.remindersFired.WithLabelValues("error").Inc()
		return
	}
	m.remindersFired.WithLabelValues("ok").Inc()
}

// ObserveHTTP registra un request terminado (lo llama el middleware de logging).
func (m *Metrics) ObserveHTTP(method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Handler sirve el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
