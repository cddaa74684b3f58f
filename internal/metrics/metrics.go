// Package metrics exports upload and processing counters to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tech_radar"

// Upload outcomes.
const (
	UploadStored   = "stored"
	UploadRejected = "rejected"
	UploadFailed   = "failed"
)

// Record outcomes.
const (
	RecordSucceeded = "succeeded"
	RecordSkipped   = "skipped"
	RecordFailed    = "failed"
)

// Metrics holds the service counters. A nil *Metrics records nothing.
type Metrics struct {
	uploads     *prometheus.CounterVec
	uploadBytes prometheus.Counter
	records     *prometheus.CounterVec
}

// New registers the counters on reg, reusing collectors that are already registered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Upload requests by outcome.",
		}, []string{"outcome"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes written to the object store by the upload service.",
		}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "processed_records_total",
			Help:      "Object notifications handled by the process service.",
		}, []string{"processing_type", "outcome"}),
	}
	var err error
	m.uploads, err = register(reg, m.uploads)
	if err != nil {
		return nil, err
	}
	m.uploadBytes, err = register(reg, m.uploadBytes)
	if err != nil {
		return nil, err
	}
	m.records, err = register(reg, m.records)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

// RecordUpload counts one upload request; size is added only for stored files.
func (m *Metrics) RecordUpload(outcome string, size int) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
	if outcome == UploadStored {
		m.uploadBytes.Add(float64(size))
	}
}

// RecordProcessed counts one notification record.
func (m *Metrics) RecordProcessed(processingType, outcome string) {
	if m == nil {
		return
	}
	if processingType == "" {
		processingType = "none"
	}
	m.records.WithLabelValues(processingType, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
