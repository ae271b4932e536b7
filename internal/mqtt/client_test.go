package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/errors"
)

func TestConfigFromSettings(t *testing.T) {
	cfg := ConfigFromSettings(&conf.MQTTSettings{
		Broker:   "tcp://localhost:1883",
		Username: "user",
		Retain:   true,
	})
	assert.Equal(t, "tcp://localhost:1883", cfg.Broker)
	assert.Equal(t, "tickwatch", cfg.ClientID, "empty client id keeps the default")
	assert.Equal(t, "user", cfg.Username)
	assert.True(t, cfg.Retain)
	assert.Equal(t, 10*time.Second, cfg.PublishTimeout)
}

func TestNewClientRequiresBroker(t *testing.T) {
	_, err := NewClient(DefaultConfig(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestPublishWhileDisconnected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Broker = "tcp://127.0.0.1:1883"
	c, err := NewClient(cfg, nil)
	require.NoError(t, err)

	assert.False(t, c.IsConnected())
	err = c.Publish(context.Background(), "tickwatch/shares", []byte("{}"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryMQTTPublish))
	assert.NotPanics(t, c.Disconnect)
}

func TestConnectCooldown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Broker = "tcp://127.0.0.1:1883"
	c, err := NewClient(cfg, nil)
	require.NoError(t, err)

	impl := c.(*client)
	impl.lastConnAttempt = time.Now()

	err = c.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too recent")
}

func TestWaitTokenHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, waitToken(ctx, pendingToken{}, time.Minute))
}

// pendingToken never completes.
type pendingToken struct{}

func (pendingToken) Wait() bool                     { return false }
func (pendingToken) WaitTimeout(time.Duration) bool { return false }
func (pendingToken) Done() <-chan struct{}          { return make(chan struct{}) }
func (pendingToken) Error() error                   { return nil }
