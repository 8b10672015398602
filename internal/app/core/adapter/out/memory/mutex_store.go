package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/zenith-ledger/pkg/wal"
)

const (
	opSet    = "set"
	opRemove = "remove"
)

// walRecord 寫入 WAL 的單筆操作
type walRecord struct {
	Op    string `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// MutexStore 是一個使用 Mutex 實現的 key-value 儲存
//
// 結構:
//
//	entries: 資料 Map
//	mu: RWMutex 用於保護 entries
//	wal: Write-Ahead Log 實例 (可為 nil，純記憶體)
type MutexStore struct {
	entries map[string]string
	mu      sync.RWMutex
	wal     *wal.WAL
}

// NewMutexStore 建立一個新的 MutexStore 實例
//
// 參數:
//
//	w: Write-Ahead Log 實例，nil 表示不持久化
//
// 回傳:
//
//	*MutexStore: MutexStore 實例
//	error: 初始化錯誤 (如 WAL 恢復失敗)
func NewMutexStore(w *wal.WAL) (*MutexStore, error) {
	store := &MutexStore{
		entries: make(map[string]string),
		wal:     w,
	}
	if w == nil {
		return store, nil
	}
	if err := store.recoverFromWAL(); err != nil {
		return nil, err
	}
	return store, nil
}

// recoverFromWAL 從 WAL 檔案恢復資料
// 只有 NewMutexStore 呼叫，無需 Lock (單執行緒)
func (m *MutexStore) recoverFromWAL() error {
	return m.wal.Replay(func(raw json.RawMessage) error {
		var rec walRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("decode wal record: %w", err)
		}
		switch rec.Op {
		case opSet:
			m.entries[rec.Key] = rec.Value
		case opRemove:
			delete(m.entries, rec.Key)
		default:
			return fmt.Errorf("unknown wal op %q", rec.Op)
		}
		return nil
	})
}

// Get 讀取 key
func (m *MutexStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	return value, ok, nil
}

// Set 寫入 key，先寫 WAL (Critical Path) 再更新記憶體
func (m *MutexStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.appendWAL(walRecord{Op: opSet, Key: key, Value: value}); err != nil {
		return err
	}
	m.entries[key] = value
	return nil
}

// Remove 刪除 key
func (m *MutexStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		return nil
	}
	if err := m.appendWAL(walRecord{Op: opRemove, Key: key}); err != nil {
		return err
	}
	delete(m.entries, key)
	return nil
}

// Len 回傳 key 數量
func (m *MutexStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Compact 以目前狀態改寫 WAL，丟掉已被覆蓋的歷史操作
func (m *MutexStore) Compact() error {
	if m.wal == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]any, 0, len(keys))
	for _, k := range keys {
		records = append(records, walRecord{Op: opSet, Key: k, Value: m.entries[k]})
	}
	if err := m.wal.Rewrite(records); err != nil {
		return fmt.Errorf("compact wal: %w", err)
	}
	return nil
}

func (m *MutexStore) appendWAL(rec walRecord) error {
	if m.wal == nil {
		return nil
	}
	if err := m.wal.Append(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrWALWriteFailed, err)
	}
	return nil
}

var _ usecase.PersistenceStore = (*MutexStore)(nil)
