package usecase

import (
	"context"
	"sync"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/domain"
)

// DefaultRecentLimit 儀表板預設顯示的交易筆數
const DefaultRecentLimit = 10

// CoreUseCase 是提供給呈現層的核心業務邏輯層
// 綁定一個 Session，所有操作以 mu 序列化
type CoreUseCase struct {
	store   *AccountStore
	session *Session
	mu      sync.Mutex
}

func NewCoreUseCase(store *AccountStore, session *Session) *CoreUseCase {
	return &CoreUseCase{
		store:   store,
		session: session,
	}
}

// Restore 程式啟動時呼叫一次，讀回上次的登入狀態
func (c *CoreUseCase) Restore(ctx context.Context) (*domain.Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.RestoreSession(ctx, c.session)
}

// SignUp 開戶
func (c *CoreUseCase) SignUp(ctx context.Context, name, email, secret string) (*domain.Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.CreateAccount(ctx, c.session, name, email, secret)
}

// LogIn 登入
func (c *CoreUseCase) LogIn(ctx context.Context, email, secret string) (*domain.Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Authenticate(ctx, c.session, email, secret)
}

// LogOut 登出
func (c *CoreUseCase) LogOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.EndSession(ctx, c.session)
}

// GetCurrentAccount 取得目前帳戶 (拷貝)，未登入回傳 nil
func (c *CoreUseCase) GetCurrentAccount() *domain.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Account()
}

// RequestTransaction 解析金額字串後執行交易
//
// 參數:
//
//	ctx: 上下文
//	kind: 交易類型
//	amountText: 使用者輸入的金額
//
// 回傳:
//
//	*domain.Transaction: 新交易
//	error: ErrInvalidAmount / ErrNoActiveSession / ErrInsufficientFunds / ErrUnknownTransactionKind
func (c *CoreUseCase) RequestTransaction(ctx context.Context, kind domain.TransactionKind, amountText string) (*domain.Transaction, error) {
	amount, err := domain.ParseAmount(amountText)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.ApplyTransaction(ctx, c.session, kind, amount)
}

// RecentTransactions 回傳最近 limit 筆交易 (新的在前)，limit <= 0 時使用 DefaultRecentLimit
func (c *CoreUseCase) RecentTransactions(limit int) []domain.Transaction {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.Active() {
		return []domain.Transaction{}
	}
	return c.session.account.Recent(limit)
}
