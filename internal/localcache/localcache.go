// Package localcache persists sightings that could not be delivered to the
// remote service. Every record lives under a single key as a JSON array, the
// same layout a browser localStorage entry would use, backed by SQLite or
// MySQL through GORM.
package localcache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/observability/metrics"
	"github.com/tphakala/tickwatch/internal/sighting"
)

// SightingsKey is the storage key holding locally saved sightings.
const SightingsKey = "tickSightings"

const slowStatementThreshold = 200 * time.Millisecond

// Entry is one key/value row.
type Entry struct {
	Name      string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName overrides the GORM default.
func (Entry) TableName() string {
	return "local_storage"
}

// Cache is the local sightings cache.
type Cache struct {
	db      *gorm.DB
	ids     *idGenerator
	metrics *metrics.LocalCacheMetrics
	log     logger.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithMetrics records operation metrics.
func WithMetrics(m *metrics.LocalCacheMetrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// WithClock replaces the clock used for local ids.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.ids.now = now }
}

// Open connects to the backend named in settings and prepares the schema.
func Open(settings *conf.CacheSettings, opts ...Option) (*Cache, error) {
	log := logger.Global().Module("localcache")
	gormCfg := &gorm.Config{Logger: logger.NewGormLoggerAdapter(log, slowStatementThreshold)}

	var dialector gorm.Dialector
	switch settings.Backend {
	case "mysql":
		dialector = mysql.Open(settings.MySQLDSN())
	case "sqlite", "":
		if dir := filepath.Dir(settings.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.New(err).
					Component("localcache").
					Category(errors.CategoryFileIO).
					Context("path", settings.Path).
					Build()
			}
		}
		dialector = sqlite.Open(settings.Path)
	default:
		return nil, errors.Newf("unsupported cache backend %q", settings.Backend).
			Component("localcache").
			Category(errors.CategoryConfiguration).
			Build()
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to open %s cache: %w", settings.Backend, err)).
			Component("localcache").
			Category(errors.CategoryDatabase).
			Build()
	}

	if settings.Backend != "mysql" {
		// SQLite allows a single writer.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	c, err := New(db, opts...)
	if err != nil {
		_ = closeDB(db)
		return nil, err
	}
	c.log.Info("local cache opened", logger.String("backend", settings.Backend))
	return c, nil
}

// New wraps an open database and migrates the schema.
func New(db *gorm.DB, opts ...Option) (*Cache, error) {
	c := &Cache{
		db:  db,
		ids: newIDGenerator(),
		log: logger.Global().Module("localcache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, errors.New(fmt.Errorf("failed to migrate local cache schema: %w", err)).
			Component("localcache").
			Category(errors.CategoryDatabase).
			Build()
	}
	return c, nil
}

// Save assigns a local id to s, appends it to the cached array and returns
// the stored record.
func (c *Cache) Save(ctx context.Context, s sighting.Sighting) (sighting.Sighting, error) {
	start := time.Now()
	saved := s.Clone()
	saved.ID = c.ids.next()

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records, err := c.read(tx)
		if err != nil {
			return err
		}
		records = append(records, saved)
		return c.write(tx, records)
	})
	c.observe(metrics.OpCacheSave, start, err)
	if err != nil {
		return sighting.Sighting{}, errors.New(fmt.Errorf("failed to save sighting locally: %w", err)).
			Component("localcache").
			Category(errors.CategoryCache).
			Context("operation", "save").
			Build()
	}

	c.log.Info("sighting saved locally", logger.String("id", saved.ID), logger.String("location", saved.Location))
	return saved, nil
}

// LoadAll returns every cached sighting in insertion order. A missing or
// undecodable entry reads as empty.
func (c *Cache) LoadAll(ctx context.Context) ([]sighting.Sighting, error) {
	start := time.Now()
	records, err := c.read(c.db.WithContext(ctx))
	c.observe(metrics.OpCacheLoadAll, start, err)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to read local cache: %w", err)).
			Component("localcache").
			Category(errors.CategoryCache).
			Context("operation", "load_all").
			Build()
	}
	return records, nil
}

// Clear removes every cached sighting.
func (c *Cache) Clear(ctx context.Context) error {
	start := time.Now()
	err := c.db.WithContext(ctx).Where("name = ?", SightingsKey).Delete(&Entry{}).Error
	c.observe(metrics.OpCacheClear, start, err)
	if err != nil {
		return errors.New(fmt.Errorf("failed to clear local cache: %w", err)).
			Component("localcache").
			Category(errors.CategoryCache).
			Context("operation", "clear").
			Build()
	}
	c.log.Info("local cache cleared")
	return nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return closeDB(c.db)
}

func (c *Cache) read(tx *gorm.DB) ([]sighting.Sighting, error) {
	var entry Entry
	err := tx.Where("name = ?", SightingsKey).Limit(1).Find(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.Name == "" || entry.Value == "" {
		return []sighting.Sighting{}, nil
	}

	var records []sighting.Sighting
	if err := json.Unmarshal([]byte(entry.Value), &records); err != nil {
		c.log.Warn("discarding unreadable local cache payload",
			logger.Int("bytes", len(entry.Value)),
			logger.Error(err))
		c.metrics.RecordCorrupt()
		return []sighting.Sighting{}, nil
	}
	if records == nil {
		records = []sighting.Sighting{}
	}
	return records, nil
}

func (c *Cache) write(tx *gorm.DB, records []sighting.Sighting) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	entry := Entry{Name: SightingsKey, Value: string(payload), UpdatedAt: time.Now()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (c *Cache) observe(op string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	c.metrics.RecordOperation(op, status, time.Since(start).Seconds())
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
