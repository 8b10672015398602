package domain

import "github.com/shopspring/decimal"

// Outcome 單筆交易請求的計算結果
type Outcome struct {
	NewBalance   decimal.Decimal
	SignedAmount decimal.Decimal
}

// Evaluate 依目前餘額驗證一筆交易請求並計算結果 (純函式，無副作用)
//
// 參數:
//
//	currentBalance: 目前餘額
//	kind: 交易類型
//	amount: 交易金額 (必須 > 0)
//
// 回傳:
//
//	Outcome: 新餘額與帶正負號的金額
//	error: ErrInvalidAmount / ErrInsufficientFunds / ErrUnknownTransactionKind
func Evaluate(currentBalance decimal.Decimal, kind TransactionKind, amount decimal.Decimal) (Outcome, error) {
	if !amount.IsPositive() {
		return Outcome{}, ErrInvalidAmount
	}

	switch kind {
	case TransactionKindWithdraw, TransactionKindTransfer:
		// 金額等於餘額時允許 (提領到 0)
		if amount.GreaterThan(currentBalance) {
			return Outcome{}, ErrInsufficientFunds
		}
		return Outcome{
			NewBalance:   currentBalance.Sub(amount),
			SignedAmount: amount.Neg(),
		}, nil
	case TransactionKindDeposit:
		// 存款不設上限
		return Outcome{
			NewBalance:   currentBalance.Add(amount),
			SignedAmount: amount,
		}, nil
	default:
		return Outcome{}, ErrUnknownTransactionKind
	}
}
