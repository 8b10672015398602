package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout 交易日期的顯示格式
const DateLayout = "2006-01-02"

// TransactionKind 交易類型
// 為了極致節省記憶體，使用 uint8
type TransactionKind uint8

const (
	// 存款
	TransactionKindDeposit TransactionKind = 1
	// 提款
	TransactionKindWithdraw TransactionKind = 2
	// 轉帳 (本範圍不追蹤對方帳戶，與提款相同處理)
	TransactionKindTransfer TransactionKind = 3
)

// String 回傳交易類型名稱，未知類型回傳 "Unknown"
func (k TransactionKind) String() string {
	switch k {
	case TransactionKindDeposit:
		return "Deposit"
	case TransactionKindWithdraw:
		return "Withdraw"
	case TransactionKindTransfer:
		return "Transfer"
	default:
		return "Unknown"
	}
}

// ParseTransactionKind 將名稱 (不分大小寫) 轉換為交易類型
func ParseTransactionKind(name string) (TransactionKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "deposit":
		return TransactionKindDeposit, nil
	case "withdraw":
		return TransactionKindWithdraw, nil
	case "transfer":
		return TransactionKindTransfer, nil
	default:
		return 0, ErrUnknownTransactionKind
	}
}

// Transaction 交易紀錄，建立後不可修改
type Transaction struct {
	// ID: 以建立時間排序的 UUIDv7
	ID uuid.UUID
	// CreatedAt: 交易時間
	CreatedAt time.Time
	// Amount: 帶正負號的金額，存款為正，提款/轉帳為負
	Amount decimal.Decimal
	// Balance: 套用本筆交易後的帳戶餘額快照
	Balance decimal.Decimal
	Kind    TransactionKind
}

// Date 回傳交易日期字串
func (t Transaction) Date() string {
	return t.CreatedAt.Format(DateLayout)
}

// DisplayAmount 回傳帶正負號的顯示金額，例如 "+₦50,000"、"-₦25,000"
func (t Transaction) DisplayAmount() string {
	if t.Amount.IsPositive() {
		return "+" + FormatNaira(t.Amount.Abs(), false)
	}
	return "-" + FormatNaira(t.Amount.Abs(), false)
}
