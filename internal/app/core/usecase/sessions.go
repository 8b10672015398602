package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/domain"
)

// DefaultSessionIdleTimeout 工作階段閒置多久後由 Sweep 登出
const DefaultSessionIdleTimeout = 30 * time.Minute

type sessionEntry struct {
	core     *CoreUseCase
	lastSeen time.Time
}

// SessionManager 以 token 管理多個工作階段，供 gRPC / HTTP adapter 使用
//
// 結構:
//
//	sessions: token -> 工作階段與最後使用時間
//	idleTimeout: 超過此時間未使用的工作階段會被 Sweep 登出
type SessionManager struct {
	store       *AccountStore
	sessions    map[string]*sessionEntry
	idleTimeout time.Duration
	now         func() time.Time
	mu          sync.RWMutex
}

// SessionOption 定義了 SessionManager 的配置選項函數
type SessionOption func(*SessionManager)

// WithIdleTimeout 設定閒置逾時，<= 0 表示不逾時
func WithIdleTimeout(d time.Duration) SessionOption {
	return func(m *SessionManager) {
		m.idleTimeout = d
	}
}

// WithSessionClock 設定時間來源 (測試用)
func WithSessionClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) {
		m.now = now
	}
}

func NewSessionManager(store *AccountStore, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		store:       store,
		sessions:    make(map[string]*sessionEntry),
		idleTimeout: DefaultSessionIdleTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open 建立新的 (尚未登入的) 工作階段
func (m *SessionManager) Open() (string, *CoreUseCase) {
	token := uuid.NewString()
	core := NewCoreUseCase(m.store, NewTokenSession(token))

	m.mu.Lock()
	m.sessions[token] = &sessionEntry{core: core, lastSeen: m.now()}
	m.mu.Unlock()
	return token, core
}

// Get 取得 token 對應的工作階段並更新最後使用時間
// 不在記憶體時嘗試從儲存恢復 (例如服務重啟後)，都沒有則回傳 ErrNoActiveSession
func (m *SessionManager) Get(ctx context.Context, token string) (*CoreUseCase, error) {
	if token == "" {
		return nil, domain.ErrNoActiveSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.sessions[token]; ok {
		entry.lastSeen = m.now()
		return entry.core, nil
	}

	core := NewCoreUseCase(m.store, NewTokenSession(token))
	account, err := core.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNoActiveSession
	}
	m.sessions[token] = &sessionEntry{core: core, lastSeen: m.now()}
	return core, nil
}

// Close 登出並移除工作階段
func (m *SessionManager) Close(ctx context.Context, token string) error {
	core, err := m.Get(ctx, token)
	if err != nil {
		return err
	}
	if err := core.LogOut(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

// Discard 移除未登入成功的工作階段 (不觸碰儲存)
func (m *SessionManager) Discard(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Len 目前記憶體中的工作階段數
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep 登出所有閒置超過 idleTimeout 的工作階段，並刪除其儲存的 slot
// 只處理記憶體中的工作階段，重啟前遺留的 slot 會在被 Get 恢復後再納入管理
//
// 回傳:
//
//	int: 移除的工作階段數
//	error: 第一個登出失敗的錯誤 (失敗的工作階段保留，下次再試)
func (m *SessionManager) Sweep(ctx context.Context) (int, error) {
	if m.idleTimeout <= 0 {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deadline := m.now().Add(-m.idleTimeout)
	removed := 0
	var firstErr error
	for token, entry := range m.sessions {
		if entry.lastSeen.After(deadline) {
			continue
		}
		if err := entry.core.LogOut(ctx); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		delete(m.sessions, token)
		removed++
	}
	return removed, firstErr
}

// RunSweeper 每 interval 執行一次 Sweep，直到 ctx 取消
// onSweep 可為 nil，用於記錄每次的結果
func (m *SessionManager) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int, err error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := m.Sweep(ctx)
			if onSweep != nil {
				onSweep(removed, err)
			}
		}
	}
}
