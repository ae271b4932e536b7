// Package mqtt publishes messages to an MQTT broker.
package mqtt

import (
	"context"
	"time"

	"github.com/tphakala/tickwatch/internal/conf"
)

// Client defines the MQTT operations used by tickwatch.
type Client interface {
	// Connect attempts to connect to the broker.
	Connect(ctx context.Context) error

	// Publish sends payload to topic.
	Publish(ctx context.Context, topic string, payload []byte) error

	// IsConnected returns true if the client is currently connected.
	IsConnected() bool

	// Disconnect closes the connection to the broker.
	Disconnect()
}

// Config holds the configuration for the MQTT client.
type Config struct {
	Broker            string
	ClientID          string
	Username          string
	Password          string
	Retain            bool // true to retain messages at the broker
	ReconnectCooldown time.Duration
	ConnectTimeout    time.Duration
	PublishTimeout    time.Duration
	DisconnectTimeout time.Duration
}

// DefaultConfig returns a Config with reasonable default values
func DefaultConfig() Config {
	return Config{
		ClientID:          "tickwatch",
		ReconnectCooldown: 5 * time.Second,
		ConnectTimeout:    10 * time.Second,
		PublishTimeout:    10 * time.Second,
		DisconnectTimeout: 250 * time.Millisecond,
	}
}

// ConfigFromSettings applies the share MQTT settings to the defaults.
func ConfigFromSettings(s *conf.MQTTSettings) Config {
	cfg := DefaultConfig()
	cfg.Broker = s.Broker
	if s.ClientID != "" {
		cfg.ClientID = s.ClientID
	}
	cfg.Username = s.Username
	cfg.Password = s.Password
	cfg.Retain = s.Retain
	return cfg
}
