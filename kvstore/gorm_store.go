package kvstore

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry là bảng kv_store: key text primary key, value jsonb.
type KVEntry struct {
	Key   string `gorm:"primaryKey;size:255"`
	Value []byte `gorm:"type:jsonb;not null"`
}

func (KVEntry) TableName() string { return "kv_store" }

// GormStore lưu key-value trên gorm (Postgres hoặc SQLite).
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(entry.Value), nil
}

func (s *GormStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	// Upsert theo key
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&KVEntry{Key: key, Value: data}).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&KVEntry{}, "key = ?", key).Error
}

func (s *GormStore) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	var rows []KVEntry
	if err := s.db.WithContext(ctx).
		Where("key LIKE ?", prefix+"%").
		Order("key").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{Key: row.Key, Value: json.RawMessage(row.Value)})
	}
	return entries, nil
}
