package grpc

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/domain"
)

// AccountView 對外輸出的帳戶資料 (不含憑證)
type AccountView struct {
	ID             string
	Name           string
	Email          string
	Balance        decimal.Decimal
	DisplayBalance string
}

// TransactionView 對外輸出的交易資料
type TransactionView struct {
	ID        string
	CreatedAt time.Time
	Date      string
	Type      string
	Amount    decimal.Decimal
	Balance   decimal.Decimal
	Display   string
}

func accountFields(a *domain.Account) map[string]any {
	return map[string]any{
		"id":             a.ID.String(),
		"name":           a.Name,
		"email":          a.Email,
		"balance":        a.Balance.String(),
		"displayBalance": domain.FormatNaira(a.Balance, true),
	}
}

func transactionFields(t domain.Transaction) map[string]any {
	return map[string]any{
		"id":        t.ID.String(),
		"createdAt": t.CreatedAt.Format(time.RFC3339Nano),
		"date":      t.Date(),
		"type":      t.Kind.String(),
		"amount":    t.Amount.String(),
		"balance":   t.Balance.String(),
		"display":   t.DisplayAmount(),
	}
}

func transactionList(trans []domain.Transaction) []any {
	out := make([]any, 0, len(trans))
	for _, t := range trans {
		out = append(out, transactionFields(t))
	}
	return out
}

// stringField 讀取字串欄位，數字會轉成字串 (例如 amount: 50000)
func stringField(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

func numberField(s *structpb.Struct, key string) int {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return int(kind.NumberValue)
	case *structpb.Value_StringValue:
		n, _ := strconv.Atoi(kind.StringValue)
		return n
	default:
		return 0
	}
}

func decodeAccount(s *structpb.Struct) (AccountView, error) {
	if s == nil {
		return AccountView{}, fmt.Errorf("missing account")
	}
	balance, err := decimal.NewFromString(stringField(s, "balance"))
	if err != nil {
		return AccountView{}, fmt.Errorf("account balance: %w", err)
	}
	return AccountView{
		ID:             stringField(s, "id"),
		Name:           stringField(s, "name"),
		Email:          stringField(s, "email"),
		Balance:        balance,
		DisplayBalance: stringField(s, "displayBalance"),
	}, nil
}

func decodeTransaction(s *structpb.Struct) (TransactionView, error) {
	if s == nil {
		return TransactionView{}, fmt.Errorf("missing transaction")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, stringField(s, "createdAt"))
	if err != nil {
		return TransactionView{}, fmt.Errorf("transaction createdAt: %w", err)
	}
	amount, err := decimal.NewFromString(stringField(s, "amount"))
	if err != nil {
		return TransactionView{}, fmt.Errorf("transaction amount: %w", err)
	}
	balance, err := decimal.NewFromString(stringField(s, "balance"))
	if err != nil {
		return TransactionView{}, fmt.Errorf("transaction balance: %w", err)
	}
	return TransactionView{
		ID:        stringField(s, "id"),
		CreatedAt: createdAt,
		Date:      stringField(s, "date"),
		Type:      stringField(s, "type"),
		Amount:    amount,
		Balance:   balance,
		Display:   stringField(s, "display"),
	}, nil
}
