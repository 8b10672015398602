package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/zenith-ledger/internal/app/core/domain"
	"github.com/JoeShih716/zenith-ledger/internal/app/core/usecase"
)

// plainHasher 測試用，不做雜湊
type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return "plain:" + secret, nil }
func (plainHasher) Compare(hashed, secret string) bool { return hashed == "plain:"+secret }

var errDiskFull = errors.New("disk full")

// flakyStore 包裝 MutexStore，可指定某個 key 寫入失敗
type flakyStore struct {
	*memory.MutexStore
	failKey string
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if key == f.failKey {
		return errDiskFull
	}
	return f.MutexStore.Set(ctx, key, value)
}

func newMemoryStore(t *testing.T) *memory.MutexStore {
	t.Helper()
	s, err := memory.NewMutexStore(nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		at = at.Add(time.Second)
		return at
	}
}

func newStore(t *testing.T, p usecase.PersistenceStore) *usecase.AccountStore {
	t.Helper()
	return usecase.NewAccountStore(p, plainHasher{}, usecase.WithClock(fixedClock()))
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertBalanceInvariant 餘額必須等於最新交易的餘額，無交易時等於初始餘額
func assertBalanceInvariant(t *testing.T, a *domain.Account, initial decimal.Decimal) {
	t.Helper()
	if len(a.Transactions) == 0 {
		if !a.Balance.Equal(initial) {
			t.Fatalf("balance=%s want initial %s", a.Balance, initial)
		}
		return
	}
	if !a.Balance.Equal(a.Transactions[0].Balance) {
		t.Fatalf("balance=%s newest transaction balance=%s", a.Balance, a.Transactions[0].Balance)
	}
}
