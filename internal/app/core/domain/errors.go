package domain

import "errors"

var (
	// ErrInvalidAmount 金額無法解析，或不大於 0
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnknownTransactionKind 不支援的交易類型
	ErrUnknownTransactionKind = errors.New("unknown transaction kind")

	// ErrDuplicateEmail 該 email 已有帳戶
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrInvalidCredentials email 或密碼錯誤
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNoActiveSession 目前沒有登入中的帳戶
	ErrNoActiveSession = errors.New("no active session")

	// ErrMissingFields 必填欄位未填
	ErrMissingFields = errors.New("please fill in all fields")
)
