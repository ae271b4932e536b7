// env.go - environment variable overrides for tickwatch settings
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TICKWATCH"

type envBinding struct {
	ConfigKey string
	EnvVar    string
	Validate  func(string) error
}

func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "TICKWATCH_DEBUG", validateEnvBool},
		{"remote.base_url", "TICKWATCH_API_URL", validateEnvURL},
		{"remote.timeout", "TICKWATCH_API_TIMEOUT", nil},
		{"cache.backend", "TICKWATCH_CACHE_BACKEND", validateEnvBackend},
		{"cache.path", "TICKWATCH_CACHE_PATH", nil},
		{"cache.mysql.password", "TICKWATCH_MYSQL_PASSWORD", nil},
		{"webserver.listen", "TICKWATCH_LISTEN", nil},
		{"share.method", "TICKWATCH_SHARE_METHOD", validateEnvShareMethod},
		{"share.mqtt.broker", "TICKWATCH_MQTT_BROKER", validateEnvURL},
		{"share.mqtt.password", "TICKWATCH_MQTT_PASSWORD", nil},
		{"sentry.dsn", "TICKWATCH_SENTRY_DSN", nil},
		{"logging.default_level", "TICKWATCH_LOG_LEVEL", validateEnvLogLevel},
	}
}

// bindEnvVars binds explicit variables and validates any that are set.
// Remaining keys are reachable as TICKWATCH_<SECTION>_<KEY>.
func bindEnvVars() error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var warnings []string
	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}
		if binding.Validate == nil {
			continue
		}
		if value := os.Getenv(binding.EnvVar); value != "" {
			if err := binding.Validate(value); err != nil {
				warnings = append(warnings, fmt.Sprintf("invalid %s value %q: %v", binding.EnvVar, value, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true/false, 1/0, t/f")
	}
	return nil
}

func validateEnvURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}

func validateEnvBackend(value string) error {
	return oneOf(value, cacheBackends)
}

func validateEnvShareMethod(value string) error {
	return oneOf(value, shareMethods)
}

func validateEnvLogLevel(value string) error {
	return oneOf(value, logLevels)
}

func oneOf(value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
}
