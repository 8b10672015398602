package usecase

import "github.com/JoeShih716/zenith-ledger/internal/app/core/domain"

// Session 一個登入工作階段
// 取代全域的 "目前使用者"，由呼叫端持有並傳入 AccountStore 的每個操作
type Session struct {
	// slot: 目前帳戶在 PersistenceStore 中的 key
	slot    string
	account *domain.Account
}

// NewSession 建立使用預設 key 的工作階段 (單一使用者程序)
func NewSession() *Session {
	return &Session{slot: KeyCurrentSession}
}

// NewTokenSession 建立以 token 區分 key 的工作階段，讓同一程序可同時存在多個工作階段
func NewTokenSession(token string) *Session {
	return &Session{slot: KeyCurrentSession + ":" + token}
}

// Slot 回傳此工作階段的儲存 key
func (s *Session) Slot() string {
	return s.slot
}

// Active 是否有登入中的帳戶
func (s *Session) Active() bool {
	return s.account != nil
}

// Account 回傳目前帳戶的拷貝，未登入時為 nil
func (s *Session) Account() *domain.Account {
	return s.account.Clone()
}
