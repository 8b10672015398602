package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/domain"
)

type signUpInput struct {
	Name   string `validate:"required"`
	Email  string `validate:"required"`
	Secret string `validate:"required"`
}

type logInInput struct {
	Email  string `validate:"required"`
	Secret string `validate:"required"`
}

// AccountStore 持有工作階段中的帳戶，並透過 PersistenceStore 讀寫
//
// 結構:
//
//	persistence: 外部 key-value 儲存
//	hasher: 憑證雜湊
//	mu: 保護 allAccounts 的 讀-改-寫 (同程序內多個工作階段)
type AccountStore struct {
	persistence     PersistenceStore
	hasher          CredentialHasher
	validate        *validator.Validate
	startingBalance decimal.Decimal
	now             func() time.Time
	newTranID       func() (uuid.UUID, error)
	mu              sync.Mutex
}

// StoreOption 定義了 AccountStore 的配置選項函數
type StoreOption func(*AccountStore)

// WithStartingBalance 設定新開戶的初始餘額
func WithStartingBalance(balance decimal.Decimal) StoreOption {
	return func(s *AccountStore) {
		s.startingBalance = balance
	}
}

// WithClock 設定交易時間來源 (測試用)
func WithClock(now func() time.Time) StoreOption {
	return func(s *AccountStore) {
		s.now = now
	}
}

// WithValidator 共用外部的 validator 實例
func WithValidator(v *validator.Validate) StoreOption {
	return func(s *AccountStore) {
		s.validate = v
	}
}

// NewAccountStore 建立 AccountStore
//
// 參數:
//
//	persistence: key-value 儲存
//	hasher: 憑證雜湊
//	opts: 可選設定
func NewAccountStore(persistence PersistenceStore, hasher CredentialHasher, opts ...StoreOption) *AccountStore {
	s := &AccountStore{
		persistence:     persistence,
		hasher:          hasher,
		startingBalance: domain.DefaultStartingBalance,
		now:             time.Now,
		newTranID:       uuid.NewV7,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validate == nil {
		s.validate = validator.New()
	}
	return s
}

// CreateAccount 開戶並登入
//
// 回傳:
//
//	*domain.Account: 新帳戶 (拷貝)
//	error: ErrMissingFields / ErrDuplicateEmail / 儲存錯誤
func (s *AccountStore) CreateAccount(ctx context.Context, sess *Session, name, email, secret string) (*domain.Account, error) {
	if err := s.validate.Struct(signUpInput{Name: name, Email: email, Secret: secret}); err != nil {
		return nil, missingFields(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if a.Email == email {
			return nil, domain.ErrDuplicateEmail
		}
	}

	hashed, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash credential: %w", err)
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate account id: %w", err)
	}

	account := domain.NewAccount(id, name, email, hashed, s.startingBalance)
	if err := s.saveAccounts(ctx, append(accounts, account)); err != nil {
		return nil, err
	}
	if err := s.saveCurrent(ctx, sess, account); err != nil {
		return nil, err
	}

	sess.account = account
	return account.Clone(), nil
}

// Authenticate 以 email 與憑證登入 (email 區分大小寫)
func (s *AccountStore) Authenticate(ctx context.Context, sess *Session, email, secret string) (*domain.Account, error) {
	if err := s.validate.Struct(logInInput{Email: email, Secret: secret}); err != nil {
		return nil, missingFields(err)
	}

	s.mu.Lock()
	accounts, err := s.loadAccounts(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var found *domain.Account
	for _, a := range accounts {
		if a.Email == email && s.hasher.Compare(a.CredentialSecret, secret) {
			found = a
			break
		}
	}
	if found == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.saveCurrent(ctx, sess, found); err != nil {
		return nil, err
	}
	sess.account = found
	return found.Clone(), nil
}

// EndSession 登出，帳戶仍保留在 allAccounts
func (s *AccountStore) EndSession(ctx context.Context, sess *Session) error {
	if err := s.persistence.Remove(ctx, sess.slot); err != nil {
		return fmt.Errorf("remove current session: %w", err)
	}
	sess.account = nil
	return nil
}

// ApplyTransaction 對目前帳戶套用一筆交易
// 以 allAccounts 中最新的帳戶為基準計算 (同一帳戶可能有多個工作階段)，
// 先完整驗證與寫入儲存，成功後才更新工作階段中的帳戶，失敗時不留下部分修改
//
// 回傳:
//
//	*domain.Transaction: 新交易紀錄
//	error: ErrNoActiveSession 或 domain.Evaluate 的錯誤 (原樣回傳)
func (s *AccountStore) ApplyTransaction(ctx context.Context, sess *Session, kind domain.TransactionKind, amount decimal.Decimal) (*domain.Transaction, error) {
	if !sess.Active() {
		return nil, domain.ErrNoActiveSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	// 找不到時退回工作階段中的拷貝，allAccounts 原樣寫回
	index := -1
	base := sess.account
	for i, a := range accounts {
		if a.ID == sess.account.ID {
			index = i
			base = a
			break
		}
	}

	outcome, err := domain.Evaluate(base.Balance, kind, amount)
	if err != nil {
		return nil, err
	}

	id, err := s.newTranID()
	if err != nil {
		return nil, fmt.Errorf("generate transaction id: %w", err)
	}
	tran := domain.Transaction{
		ID:        id,
		CreatedAt: s.now(),
		Kind:      kind,
		Amount:    outcome.SignedAmount,
		Balance:   outcome.NewBalance,
	}

	next := base.Clone()
	next.Record(tran)

	if index >= 0 {
		accounts[index] = next
	}
	if err := s.saveAccounts(ctx, accounts); err != nil {
		return nil, err
	}
	if err := s.saveCurrent(ctx, sess, next); err != nil {
		return nil, err
	}

	sess.account = next
	return &tran, nil
}

// RestoreSession 從儲存讀回工作階段的帳戶，不存在時回傳 nil
func (s *AccountStore) RestoreSession(ctx context.Context, sess *Session) (*domain.Account, error) {
	raw, ok, err := s.persistence.Get(ctx, sess.slot)
	if err != nil {
		return nil, fmt.Errorf("read current session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	account, err := decodeAccount(raw)
	if err != nil {
		return nil, err
	}
	sess.account = account
	return account.Clone(), nil
}

// Accounts 回傳所有已儲存帳戶
func (s *AccountStore) Accounts(ctx context.Context) ([]*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAccounts(ctx)
}

func (s *AccountStore) loadAccounts(ctx context.Context) ([]*domain.Account, error) {
	raw, ok, err := s.persistence.Get(ctx, KeyAllAccounts)
	if err != nil {
		return nil, fmt.Errorf("read accounts: %w", err)
	}
	if !ok {
		return []*domain.Account{}, nil
	}
	return decodeAccounts(raw)
}

func (s *AccountStore) saveAccounts(ctx context.Context, accounts []*domain.Account) error {
	raw, err := encodeAccounts(accounts)
	if err != nil {
		return err
	}
	if err := s.persistence.Set(ctx, KeyAllAccounts, raw); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}
	return nil
}

func (s *AccountStore) saveCurrent(ctx context.Context, sess *Session, account *domain.Account) error {
	raw, err := encodeAccount(account)
	if err != nil {
		return err
	}
	if err := s.persistence.Set(ctx, sess.slot, raw); err != nil {
		return fmt.Errorf("write current session: %w", err)
	}
	return nil
}

// missingFields 把 validator 的錯誤轉為 ErrMissingFields，其餘原樣回傳
func missingFields(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return domain.ErrMissingFields
	}
	return err
}
