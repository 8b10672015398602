package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaxAmountDigits 金額有效位數上限
	MaxAmountDigits = 30
	// MaxAmountExponent 科學記號的指數上限 (正負皆同)，例如 "1e3" 可接受，"1e50000000" 不可
	MaxAmountExponent = 18
)

// ParseAmount 解析使用者輸入的金額字串，必須是有限且大於 0 的數字
// 指數或位數超過上限時回傳 ErrInvalidAmount，避免極大數字拖垮格式化與序列化
func ParseAmount(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if exp := amount.Exponent(); exp > MaxAmountExponent || exp < -MaxAmountExponent {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.NumDigits() > MaxAmountDigits {
		return decimal.Zero, ErrInvalidAmount
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}
