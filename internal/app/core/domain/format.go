package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NairaSign 貨幣符號
const NairaSign = "₦"

// FormatNaira 以千分位格式化金額
// cents 為 true 時固定顯示兩位小數 (餘額卡片)，否則最多保留三位小數並去掉尾端的 0 (交易列表)
func FormatNaira(amount decimal.Decimal, cents bool) string {
	var raw string
	if cents {
		raw = amount.StringFixed(2)
	} else {
		raw = amount.Round(3).String()
	}

	sign := ""
	if strings.HasPrefix(raw, "-") {
		sign = "-"
		raw = raw[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(raw, ".")
	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(NairaSign)
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
