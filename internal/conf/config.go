// Package conf loads tickwatch settings from config.yaml, environment
// variables and command line flags through viper.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/logger"
)

// RemoteSettings configures the sightings API.
type RemoteSettings struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`         // e.g. https://dev-task.elancoapps.com
	PrimaryPath string        `yaml:"primary_path" mapstructure:"primary_path"` // list endpoint, also used for submissions
	RetryPath   string        `yaml:"retry_path" mapstructure:"retry_path"`     // alternate list endpoint tried once on failure
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RateLimit   float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 disables
	UserAgent   string        `yaml:"user_agent" mapstructure:"user_agent"`
}

// MySQLSettings configures the optional MySQL local cache backend.
type MySQLSettings struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
}

// CacheSettings configures where user submissions that failed to reach the
// remote service are kept.
type CacheSettings struct {
	Backend string        `yaml:"backend" mapstructure:"backend"` // sqlite or mysql
	Path    string        `yaml:"path" mapstructure:"path"`       // sqlite file
	MySQL   MySQLSettings `yaml:"mysql" mapstructure:"mysql"`
}

// SubmissionSettings configures the report form.
type SubmissionSettings struct {
	DefaultLatitude  float64 `yaml:"default_latitude" mapstructure:"default_latitude"`
	DefaultLongitude float64 `yaml:"default_longitude" mapstructure:"default_longitude"`
	MaxImageBytes    int64   `yaml:"max_image_bytes" mapstructure:"max_image_bytes"`
}

// WebServerSettings configures the local HTTP API.
type WebServerSettings struct {
	Listen   string        `yaml:"listen" mapstructure:"listen"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // filtered response cache
	Metrics  bool          `yaml:"metrics" mapstructure:"metrics"`     // expose /metrics
}

// MQTTSettings configures the MQTT share publisher.
type MQTTSettings struct {
	Broker   string `yaml:"broker" mapstructure:"broker"`
	Topic    string `yaml:"topic" mapstructure:"topic"`
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Retain   bool   `yaml:"retain" mapstructure:"retain"`
}

// ShareSettings configures the share action.
type ShareSettings struct {
	Method  string        `yaml:"method" mapstructure:"method"` // auto, mqtt, shoutrrr, clipboard or stdout
	MQTT    MQTTSettings  `yaml:"mqtt" mapstructure:"mqtt"`
	URLs    []string      `yaml:"urls" mapstructure:"urls"`       // shoutrrr service URLs
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"` // per send to the service URLs
}

// SentrySettings configures optional error telemetry.
type SentrySettings struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	DSN     string `yaml:"dsn" mapstructure:"dsn"`
}

// Settings contains all configuration options for tickwatch.
type Settings struct {
	Debug      bool                 `yaml:"debug" mapstructure:"debug"`
	Remote     RemoteSettings       `yaml:"remote" mapstructure:"remote"`
	Cache      CacheSettings        `yaml:"cache" mapstructure:"cache"`
	Submission SubmissionSettings   `yaml:"submission" mapstructure:"submission"`
	WebServer  WebServerSettings    `yaml:"webserver" mapstructure:"webserver"`
	Share      ShareSettings        `yaml:"share" mapstructure:"share"`
	Sentry     SentrySettings       `yaml:"sentry" mapstructure:"sentry"`
	Logging    logger.LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables. An empty
// configFile searches the default paths; a missing file is created with
// defaults.
func Load(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper sets defaults, binds the environment and reads the config file.
func initViper(configFile string) error {
	viper.SetConfigType("yaml")
	setDefaultConfig()
	if err := bindEnvVars(); err != nil {
		GetLogger().Warn("environment configuration issues", logger.Error(err))
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := writeDefaultConfig(configFile); err != nil {
				return err
			}
		}
		return viper.ReadInConfig()
	}

	viper.SetConfigName("config")
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return err
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	err = viper.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	configPath := filepath.Join(configPaths[0], "config.yaml")
	if err := writeDefaultConfig(configPath); err != nil {
		return err
	}
	viper.SetConfigFile(configPath)
	return viper.ReadInConfig()
}

// writeDefaultConfig renders the viper defaults to a YAML file.
func writeDefaultConfig(configPath string) error {
	defaults := &Settings{}
	if err := viper.Unmarshal(defaults); err != nil {
		return fmt.Errorf("error building default config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}
	if err := SaveYAMLConfig(configPath, defaults); err != nil {
		return err
	}
	GetLogger().Info("created default config file", logger.String("path", configPath))
	return nil
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveYAMLConfig writes settings to configPath through a temporary file so
// the replacement is atomic on the same filesystem.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}
	if err := os.Rename(tempFileName, configPath); err != nil {
		return fmt.Errorf("error replacing config file: %w", err)
	}
	return nil
}
