// Package observability wires the Prometheus registry shared by tickwatch components.
package observability

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tphakala/tickwatch/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry   *prometheus.Registry
	Sightings  *metrics.SightingsMetrics
	LocalCache *metrics.LocalCacheMetrics
	MQTT       *metrics.MQTTMetrics
}

// NewMetrics creates a registry with every tickwatch collector plus the Go
// runtime and process collectors.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sightings, err := metrics.NewSightingsMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create sightings metrics: %w", err)
	}
	localCache, err := metrics.NewLocalCacheMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create local cache metrics: %w", err)
	}
	mqtt, err := metrics.NewMQTTMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create MQTT metrics: %w", err)
	}

	return &Metrics{
		registry:   registry,
		Sightings:  sightings,
		LocalCache: localCache,
		MQTT:       mqtt,
	}, nil
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
