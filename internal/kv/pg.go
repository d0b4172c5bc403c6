package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sendblocks/custom-indexer-example/internal/kv/schema"
)

// PGStore is the PostgreSQL-backed store. It stands in for the platform's
// managed key-value service and offers the same guarantees the core assumes:
// per-key atomic last-write-wins, no cross-key transactions.
type PGStore struct {
	db *gorm.DB
}

// NewPGStore creates a PostgreSQL store on an open GORM connection
func NewPGStore(db *gorm.DB) *PGStore {
	return &PGStore{db: db}
}

// Migrate creates or updates the backing table
func (s *PGStore) Migrate() error {
	if err := s.db.AutoMigrate(&schema.KeyValueRecord{}); err != nil {
		return fmt.Errorf("failed to migrate key-value schema: %w", err)
	}
	return nil
}

// Get retrieves the value stored under (namespace, key). Absent keys return (nil, nil).
func (s *PGStore) Get(ctx context.Context, namespace, key string) (json.RawMessage, error) {
	var record schema.KeyValueRecord
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return json.RawMessage(record.Value), nil
}

// Set stores value under (namespace, key), replacing any previous value
func (s *PGStore) Set(ctx context.Context, namespace, key string, value json.RawMessage) error {
	record := schema.KeyValueRecord{
		Namespace: namespace,
		Key:       key,
		Value:     datatypes.JSON(value),
	}

	// ON CONFLICT DO UPDATE keeps the write a single atomic statement
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

// List returns up to size entries whose keys start with prefix, ordered by key
func (s *PGStore) List(ctx context.Context, namespace, prefix string, offset, size int) ([]Entry, error) {
	var records []schema.KeyValueRecord
	query := s.db.WithContext(ctx).Where("namespace = ?", namespace)
	if prefix != "" {
		query = query.Where("key LIKE ?", prefix+"%")
	}

	err := query.Order("key").Offset(offset).Limit(size).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list values: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, Entry{
			Key:       record.Key,
			Value:     json.RawMessage(record.Value),
			UpdatedAt: record.UpdatedAt,
		})
	}

	return entries, nil
}

// Count returns the number of entries whose keys start with prefix
func (s *PGStore) Count(ctx context.Context, namespace, prefix string) (int64, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&schema.KeyValueRecord{}).Where("namespace = ?", namespace)
	if prefix != "" {
		query = query.Where("key LIKE ?", prefix+"%")
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count values: %w", err)
	}

	return count, nil
}

// ConfigureConnectionPool configures the connection pool of a GORM database
// connection. Zero values fall back to defaults: 20 open, 5 idle, 5m max
// lifetime, 10m max idle time.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}
