package usecase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/domain"
)

// accountRecord 對應儲存層的帳戶 JSON 格式
type accountRecord struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Password     string              `json:"password"`
	Balance      decimal.Decimal     `json:"balance"`
	Transactions []transactionRecord `json:"transactions"`
}

// transactionRecord 對應儲存層的交易 JSON 格式
type transactionRecord struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Date      string          `json:"date"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
}

func toRecord(a *domain.Account) accountRecord {
	rec := accountRecord{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Password:     a.CredentialSecret,
		Balance:      a.Balance,
		Transactions: make([]transactionRecord, 0, len(a.Transactions)),
	}
	for _, tran := range a.Transactions {
		rec.Transactions = append(rec.Transactions, transactionRecord{
			ID:        tran.ID,
			CreatedAt: tran.CreatedAt,
			Date:      tran.Date(),
			Type:      tran.Kind.String(),
			Amount:    tran.Amount,
			Balance:   tran.Balance,
		})
	}
	return rec
}

func (r accountRecord) toDomain() (*domain.Account, error) {
	a := domain.NewAccount(r.ID, r.Name, r.Email, r.Password, r.Balance)
	for _, tr := range r.Transactions {
		kind, err := domain.ParseTransactionKind(tr.Type)
		if err != nil {
			return nil, fmt.Errorf("account %s transaction %s: %w", r.ID, tr.ID, err)
		}
		a.Transactions = append(a.Transactions, domain.Transaction{
			ID:        tr.ID,
			CreatedAt: tr.CreatedAt,
			Kind:      kind,
			Amount:    tr.Amount,
			Balance:   tr.Balance,
		})
	}
	return a, nil
}

func encodeAccount(a *domain.Account) (string, error) {
	raw, err := json.Marshal(toRecord(a))
	if err != nil {
		return "", fmt.Errorf("encode account: %w", err)
	}
	return string(raw), nil
}

func decodeAccount(raw string) (*domain.Account, error) {
	var rec accountRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return rec.toDomain()
}

func encodeAccounts(accounts []*domain.Account) (string, error) {
	recs := make([]accountRecord, 0, len(accounts))
	for _, a := range accounts {
		recs = append(recs, toRecord(a))
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("encode accounts: %w", err)
	}
	return string(raw), nil
}

func decodeAccounts(raw string) ([]*domain.Account, error) {
	var recs []accountRecord
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	out := make([]*domain.Account, 0, len(recs))
	for _, rec := range recs {
		a, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
