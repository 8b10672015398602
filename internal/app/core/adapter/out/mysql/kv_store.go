package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/zenith-ledger/pkg/mysql"
)

// sqlEntry 對應資料庫的 kv_entries 表
type sqlEntry struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:longtext;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli"` // 自動更新時間
}

func (*sqlEntry) TableName() string {
	return "kv_entries"
}

// KVStore 以 MySQL 實作 PersistenceStore，每個 key 一列
type KVStore struct {
	client *mysql.Client
}

func NewKVStore(client *mysql.Client) *KVStore {
	return &KVStore{
		client: client,
	}
}

// Migrate 建立或更新 kv_entries 表結構
func (s *KVStore) Migrate(ctx context.Context) error {
	return s.client.DB().WithContext(ctx).AutoMigrate(&sqlEntry{})
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry sqlEntry
	err := s.client.DB().WithContext(ctx).Where("`key` = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set 以 upsert 寫入，已存在則覆蓋
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	entry := sqlEntry{Key: key, Value: value}
	err := s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	err := s.client.DB().WithContext(ctx).Where("`key` = ?", key).Delete(&sqlEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

var _ usecase.PersistenceStore = (*KVStore)(nil)
