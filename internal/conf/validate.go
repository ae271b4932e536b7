// conf/validate.go

package conf

import (
	"fmt"
	"net/url"
	"strings"
)

var (
	cacheBackends = []string{"sqlite", "mysql"}
	shareMethods  = []string{"auto", "mqtt", "shoutrrr", "clipboard", "stdout"}
	logLevels     = []string{"trace", "debug", "info", "warn", "error"}
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}
	for _, validate := range []func(*Settings) []string{
		validateRemoteSettings,
		validateCacheSettings,
		validateSubmissionSettings,
		validateShareSettings,
		validateLoggingSettings,
	} {
		ve.Errors = append(ve.Errors, validate(settings)...)
	}
	if settings.Sentry.Enabled && settings.Sentry.DSN == "" {
		ve.Errors = append(ve.Errors, "sentry.dsn is required when sentry is enabled")
	}
	if settings.WebServer.Listen == "" {
		ve.Errors = append(ve.Errors, "webserver.listen must not be empty")
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateRemoteSettings(s *Settings) []string {
	var errs []string
	u, err := url.Parse(s.Remote.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Sprintf("remote.base_url is invalid: %v", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, "remote.base_url must use http or https")
	case u.Host == "":
		errs = append(errs, "remote.base_url must include a host")
	}
	for key, path := range map[string]string{
		"remote.primary_path": s.Remote.PrimaryPath,
		"remote.retry_path":   s.Remote.RetryPath,
	} {
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, key+" must start with /")
		}
	}
	if s.Remote.Timeout <= 0 {
		errs = append(errs, "remote.timeout must be positive")
	}
	if s.Remote.RateLimit < 0 {
		errs = append(errs, "remote.rate_limit must not be negative")
	}
	return errs
}

func validateCacheSettings(s *Settings) []string {
	if err := oneOf(s.Cache.Backend, cacheBackends); err != nil {
		return []string{fmt.Sprintf("cache.backend %q %v", s.Cache.Backend, err)}
	}
	var errs []string
	switch s.Cache.Backend {
	case "sqlite":
		if s.Cache.Path == "" {
			errs = append(errs, "cache.path is required for the sqlite backend")
		}
	case "mysql":
		if s.Cache.MySQL.Host == "" || s.Cache.MySQL.Database == "" {
			errs = append(errs, "cache.mysql.host and cache.mysql.database are required for the mysql backend")
		}
	}
	return errs
}

func validateSubmissionSettings(s *Settings) []string {
	var errs []string
	if s.Submission.DefaultLatitude < -90 || s.Submission.DefaultLatitude > 90 {
		errs = append(errs, "submission.default_latitude must be between -90 and 90")
	}
	if s.Submission.DefaultLongitude < -180 || s.Submission.DefaultLongitude > 180 {
		errs = append(errs, "submission.default_longitude must be between -180 and 180")
	}
	if s.Submission.MaxImageBytes <= 0 {
		errs = append(errs, "submission.max_image_bytes must be positive")
	}
	return errs
}

func validateShareSettings(s *Settings) []string {
	if err := oneOf(s.Share.Method, shareMethods); err != nil {
		return []string{fmt.Sprintf("share.method %q %v", s.Share.Method, err)}
	}
	if s.Share.Method == "shoutrrr" && len(s.Share.URLs) == 0 {
		return []string{"share.urls is required when share.method is shoutrrr"}
	}
	if s.Share.Method == "mqtt" {
		if s.Share.MQTT.Broker == "" {
			return []string{"share.mqtt.broker is required when share.method is mqtt"}
		}
		if s.Share.MQTT.Topic == "" {
			return []string{"share.mqtt.topic is required when share.method is mqtt"}
		}
	}
	return nil
}

func validateLoggingSettings(s *Settings) []string {
	if s.Logging.DefaultLevel == "" {
		return nil
	}
	if err := oneOf(s.Logging.DefaultLevel, logLevels); err != nil {
		return []string{fmt.Sprintf("logging.default_level %q %v", s.Logging.DefaultLevel, err)}
	}
	return nil
}
