// conf/utils.go various util functions for configuration package
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/logger"
)

var (
	confLogger     logger.Logger
	confLoggerOnce sync.Once
)

// GetLogger returns the configuration module logger.
func GetLogger() logger.Logger {
	confLoggerOnce.Do(func() {
		confLogger = logger.Global().Module("conf")
	})
	return confLogger
}

// GetDefaultConfigPaths returns the directories searched for config.yaml.
// When one of them already holds a config file, only that directory is
// returned; otherwise the first entry is where a default file is created.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Build()
	}

	var configPaths []string
	switch runtime.GOOS {
	case "windows":
		configPaths = []string{
			filepath.Join(homeDir, "AppData", "Roaming", "tickwatch"),
			".",
		}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", "tickwatch"),
			".",
			"/etc/tickwatch",
		}
	}

	for _, path := range configPaths {
		if _, err := os.Stat(filepath.Join(path, "config.yaml")); err == nil {
			return []string{path}, nil
		}
	}
	return configPaths, nil
}

// MySQLDSN builds a go-sql-driver DSN from the cache settings.
func (s *CacheSettings) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		s.MySQL.Username, s.MySQL.Password, s.MySQL.Host, s.MySQL.Port, s.MySQL.Database)
}
