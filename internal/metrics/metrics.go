// Package metrics exposes prometheus counters for the flashcard bank and practice flow.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	mutations     *prometheus.CounterVec
	persistErrors prometheus.Counter
	answers       *prometheus.CounterVec
	uploads       *prometheus.CounterVec
	topics        prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teachme_store_mutations_total",
				Help: "Applied store mutations by operation",
			},
			[]string{"op"},
		),
		persistErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "teachme_store_persist_errors_total",
				Help: "Failed writes to the persistence slot",
			},
		),
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teachme_answers_checked_total",
				Help: "Checked practice answers by result",
			},
			[]string{"result"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teachme_image_uploads_total",
				Help: "Image uploads by result",
			},
			[]string{"result"},
		),
		topics: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "teachme_topics",
				Help: "Number of topics in the bank",
			},
		),
	}

	reg.MustRegister(m.mutations, m.persistErrors, m.answers, m.uploads, m.topics)
	return m
}

func (m *Metrics) Mutation(op string, topics int) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
	m.topics.Set(float64(topics))
}

// Topics sets the topic gauge without counting a mutation.
func (m *Metrics) Topics(n int) {
	if m == nil {
		return
	}
	m.topics.Set(float64(n))
}

func (m *Metrics) PersistError() {
	if m == nil {
		return
	}
	m.persistErrors.Inc()
}

func (m *Metrics) AnswerChecked(correct bool) {
	if m == nil {
		return
	}
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.answers.WithLabelValues(result).Inc()
}

// Upload records an image upload outcome: accepted, rejected or failed.
func (m *Metrics) Upload(result string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server started", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
