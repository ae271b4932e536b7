// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the public sightings API.
const DefaultBaseURL = "https://dev-task.elancoapps.com"

// London, used when a submitted location has no known coordinates.
const (
	DefaultLatitude  = 51.5074
	DefaultLongitude = -0.1278
)

// DefaultMaxImageBytes is the largest accepted report image.
const DefaultMaxImageBytes = 5 * 1024 * 1024

func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("remote.base_url", DefaultBaseURL)
	viper.SetDefault("remote.primary_path", "/sightings")
	viper.SetDefault("remote.retry_path", "/api/sightings")
	viper.SetDefault("remote.timeout", 30*time.Second)
	viper.SetDefault("remote.rate_limit", 2.0)
	viper.SetDefault("remote.user_agent", "tickwatch")

	viper.SetDefault("cache.backend", "sqlite")
	viper.SetDefault("cache.path", "tickwatch.db")
	viper.SetDefault("cache.mysql.host", "localhost")
	viper.SetDefault("cache.mysql.port", 3306)
	viper.SetDefault("cache.mysql.username", "")
	viper.SetDefault("cache.mysql.password", "")
	viper.SetDefault("cache.mysql.database", "tickwatch")

	viper.SetDefault("submission.default_latitude", DefaultLatitude)
	viper.SetDefault("submission.default_longitude", DefaultLongitude)
	viper.SetDefault("submission.max_image_bytes", DefaultMaxImageBytes)

	viper.SetDefault("webserver.listen", "127.0.0.1:8080")
	viper.SetDefault("webserver.cache_ttl", 5*time.Minute)
	viper.SetDefault("webserver.metrics", true)

	viper.SetDefault("share.method", "auto")
	viper.SetDefault("share.mqtt.broker", "")
	viper.SetDefault("share.mqtt.topic", "tickwatch/shares")
	viper.SetDefault("share.mqtt.client_id", "tickwatch")
	viper.SetDefault("share.mqtt.username", "")
	viper.SetDefault("share.mqtt.password", "")
	viper.SetDefault("share.mqtt.retain", false)
	viper.SetDefault("share.urls", []string{})
	viper.SetDefault("share.timeout", 10*time.Second)

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")

	viper.SetDefault("logging.default_level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.file_output.enabled", false)
	viper.SetDefault("logging.file_output.path", "logs/tickwatch.log")
	viper.SetDefault("logging.file_output.level", "info")
}
