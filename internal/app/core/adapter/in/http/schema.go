package http

import (
	"time"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/domain"
)

type SignUpSchema struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LogInSchema struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TransactionRequestSchema struct {
	Type   string `json:"type"`
	Amount string `json:"amount"`
}

type AccountSchema struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Balance        string `json:"balance"`
	DisplayBalance string `json:"displayBalance"`
}

type TransactionSchema struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Balance   string `json:"balance"`
	Display   string `json:"display"`
}

type SessionResponseSchema struct {
	Token   string        `json:"token"`
	Account AccountSchema `json:"account"`
}

type AccountResponseSchema struct {
	Account AccountSchema `json:"account"`
}

type TransactionResponseSchema struct {
	Transaction TransactionSchema `json:"transaction"`
	Balance     string            `json:"balance"`
}

type TransactionListSchema struct {
	Transactions []TransactionSchema `json:"transactions"`
}

func toAccountSchema(a *domain.Account) AccountSchema {
	return AccountSchema{
		ID:             a.ID.String(),
		Name:           a.Name,
		Email:          a.Email,
		Balance:        a.Balance.String(),
		DisplayBalance: domain.FormatNaira(a.Balance, true),
	}
}

func toTransactionSchema(t domain.Transaction) TransactionSchema {
	return TransactionSchema{
		ID:        t.ID.String(),
		CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
		Date:      t.Date(),
		Type:      t.Kind.String(),
		Amount:    t.Amount.String(),
		Balance:   t.Balance.String(),
		Display:   t.DisplayAmount(),
	}
}
