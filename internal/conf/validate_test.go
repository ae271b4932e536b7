package conf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	return &Settings{
		Remote: RemoteSettings{
			BaseURL:     DefaultBaseURL,
			PrimaryPath: "/sightings",
			RetryPath:   "/api/sightings",
			Timeout:     10 * time.Second,
		},
		Cache:      CacheSettings{Backend: "sqlite", Path: "tickwatch.db"},
		Submission: SubmissionSettings{DefaultLatitude: DefaultLatitude, DefaultLongitude: DefaultLongitude, MaxImageBytes: DefaultMaxImageBytes},
		WebServer:  WebServerSettings{Listen: ":8080"},
		Share:      ShareSettings{Method: "auto"},
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"missing host", func(s *Settings) { s.Remote.BaseURL = "https://" }, "remote.base_url must include a host"},
		{"relative retry path", func(s *Settings) { s.Remote.RetryPath = "api/sightings" }, "remote.retry_path must start with /"},
		{"zero timeout", func(s *Settings) { s.Remote.Timeout = 0 }, "remote.timeout must be positive"},
		{"unknown backend", func(s *Settings) { s.Cache.Backend = "redis" }, "cache.backend"},
		{"mysql without database", func(s *Settings) {
			s.Cache.Backend = "mysql"
			s.Cache.MySQL.Host = "db"
		}, "cache.mysql.host and cache.mysql.database are required"},
		{"latitude out of range", func(s *Settings) { s.Submission.DefaultLatitude = 91 }, "default_latitude"},
		{"zero image limit", func(s *Settings) { s.Submission.MaxImageBytes = 0 }, "max_image_bytes"},
		{"mqtt without broker", func(s *Settings) { s.Share.Method = "mqtt" }, "share.mqtt.broker is required"},
		{"shoutrrr without urls", func(s *Settings) { s.Share.Method = "shoutrrr" }, "share.urls is required"},
		{"bad share method", func(s *Settings) { s.Share.Method = "fax" }, "share.method"},
		{"sentry without dsn", func(s *Settings) { s.Sentry.Enabled = true }, "sentry.dsn is required"},
		{"bad log level", func(s *Settings) { s.Logging.DefaultLevel = "loud" }, "logging.default_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateEnvHelpers(t *testing.T) {
	assert.NoError(t, validateEnvBool("true"))
	assert.Error(t, validateEnvBool("maybe"))
	assert.NoError(t, validateEnvURL("tcp://broker:1883"))
	assert.Error(t, validateEnvURL("not a url"))
	assert.NoError(t, validateEnvBackend("mysql"))
	assert.Error(t, validateEnvShareMethod("fax"))
	assert.NoError(t, validateEnvLogLevel("trace"))
}
