package share

import (
	"io"

	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/mqtt"
	"github.com/tphakala/tickwatch/internal/observability/metrics"
)

// NewChainFromSettings orders publishers by the configured method. "auto"
// tries MQTT when a broker is configured, then the service URLs, then the
// clipboard, then out. Explicit methods still fall back to the clipboard and
// out.
func NewChainFromSettings(s *conf.ShareSettings, out io.Writer, m *metrics.MQTTMetrics) (*Chain, mqtt.Client) {
	var publishers []Publisher
	var client mqtt.Client

	if (s.Method == "mqtt" || s.Method == "auto") && s.MQTT.Broker != "" {
		c, err := mqtt.NewClient(mqtt.ConfigFromSettings(&s.MQTT), m)
		if err != nil {
			logger.Global().Module("share").Warn("MQTT share disabled", logger.Error(err))
		} else {
			client = c
			publishers = append(publishers, NewMQTTPublisher(c, s.MQTT.Topic))
		}
	}
	if (s.Method == "shoutrrr" || s.Method == "auto") && len(s.URLs) > 0 {
		p, err := NewShoutrrrPublisher(s.URLs, s.Timeout)
		if err != nil {
			logger.Global().Module("share").Warn("service URL share disabled", logger.Error(err))
		} else {
			publishers = append(publishers, p)
		}
	}
	if s.Method != "stdout" {
		publishers = append(publishers, NewClipboardPublisher())
	}
	publishers = append(publishers, NewWriterPublisher(out))
	return NewChain(publishers...), client
}
