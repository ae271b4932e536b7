package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MQTTMetrics covers the MQTT share publisher.
type MQTTMetrics struct {
	connectionStatus prometheus.Gauge
	messagesTotal    *prometheus.CounterVec
}

// NewMQTTMetrics creates and registers the MQTT metrics.
func NewMQTTMetrics(registry prometheus.Registerer) (*MQTTMetrics, error) {
	m := &MQTTMetrics{
		connectionStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tickwatch_mqtt_connection_status",
			Help: "1 when connected to the MQTT broker",
		}),
		messagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickwatch_mqtt_messages_total",
				Help: "Share messages published over MQTT",
			},
			[]string{"status"},
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *MQTTMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.connectionStatus.Describe(ch)
	m.messagesTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *MQTTMetrics) Collect(ch chan<- prometheus.Metric) {
	m.connectionStatus.Collect(ch)
	m.messagesTotal.Collect(ch)
}

// SetConnected updates the connection gauge.
func (m *MQTTMetrics) SetConnected(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.connectionStatus.Set(1)
		return
	}
	m.connectionStatus.Set(0)
}

// RecordPublish counts a publish attempt.
func (m *MQTTMetrics) RecordPublish(status string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(status).Inc()
}
