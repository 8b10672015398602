package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultStartingBalance 新開戶的初始餘額
var DefaultStartingBalance = decimal.NewFromInt(100000)

// Account 帳戶
type Account struct {
	ID    uuid.UUID
	Name  string
	Email string
	// CredentialSecret: 由 CredentialHasher 產生的憑證，不可對外輸出
	CredentialSecret string
	Balance          decimal.Decimal
	// Transactions: 新的在前，只能從前面插入
	Transactions []Transaction
}

func NewAccount(id uuid.UUID, name, email, credentialSecret string, balance decimal.Decimal) *Account {
	return &Account{
		ID:               id,
		Name:             name,
		Email:            email,
		CredentialSecret: credentialSecret,
		Balance:          balance,
		Transactions:     []Transaction{},
	}
}

// Clone 深拷貝帳戶，交易紀錄切片不與原帳戶共用
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return &cp
}

// Record 將交易插入歷史最前面，並把餘額同步為交易後餘額
func (a *Account) Record(tran Transaction) {
	history := make([]Transaction, 0, len(a.Transactions)+1)
	history = append(history, tran)
	history = append(history, a.Transactions...)
	a.Transactions = history
	a.Balance = tran.Balance
}

// Recent 回傳最近 limit 筆交易 (新的在前)
func (a *Account) Recent(limit int) []Transaction {
	if limit > len(a.Transactions) {
		limit = len(a.Transactions)
	}
	if limit < 0 {
		limit = 0
	}
	out := make([]Transaction, limit)
	copy(out, a.Transactions[:limit])
	return out
}
