package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/domain"
	"github.com/JoeShih716/zenith-ledger/internal/app/core/usecase"
)

// TestSessionManagerIsolation 兩個 token 各自登入不同帳戶，互不影響
func TestSessionManagerIsolation(t *testing.T) {
	ctx := context.Background()
	mgr := usecase.NewSessionManager(newStore(t, newMemoryStore(t)))

	tokA, coreA := mgr.Open()
	tokB, coreB := mgr.Open()
	if tokA == tokB {
		t.Fatal("tokens must be unique")
	}
	_, _ = coreA.SignUp(ctx, "A", "a@example.com", "pw")
	_, _ = coreB.SignUp(ctx, "B", "b@example.com", "pw")

	if _, err := coreA.RequestTransaction(ctx, domain.TransactionKindWithdraw, "1000"); err != nil {
		t.Fatal(err)
	}

	gotA, err := mgr.Get(ctx, tokA)
	if err != nil {
		t.Fatal(err)
	}
	gotB, _ := mgr.Get(ctx, tokB)
	if !gotA.GetCurrentAccount().Balance.Equal(d("99000")) {
		t.Fatalf("A balance=%s", gotA.GetCurrentAccount().Balance)
	}
	if !gotB.GetCurrentAccount().Balance.Equal(d("100000")) {
		t.Fatalf("B balance=%s", gotB.GetCurrentAccount().Balance)
	}
}

// TestSessionManagerRestoresAfterRestart 新的 manager 可用舊 token 從儲存恢復
func TestSessionManagerRestoresAfterRestart(t *testing.T) {
	ctx := context.Background()
	p := newMemoryStore(t)

	first := usecase.NewSessionManager(newStore(t, p))
	tok, core := first.Open()
	_, _ = core.SignUp(ctx, "Ada", "ada@example.com", "pw")
	_, _ = core.RequestTransaction(ctx, domain.TransactionKindDeposit, "5")

	second := usecase.NewSessionManager(newStore(t, p))
	restored, err := second.Get(ctx, tok)
	if err != nil {
		t.Fatal(err)
	}
	if !restored.GetCurrentAccount().Balance.Equal(d("100005")) {
		t.Fatalf("balance=%s", restored.GetCurrentAccount().Balance)
	}

	if err := second.Close(ctx, tok); err != nil {
		t.Fatal(err)
	}
	if _, err := second.Get(ctx, tok); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("want ErrNoActiveSession after close, got %v", err)
	}
}

func TestSessionManagerUnknownToken(t *testing.T) {
	mgr := usecase.NewSessionManager(newStore(t, newMemoryStore(t)))
	for _, tok := range []string{"", "does-not-exist"} {
		if _, err := mgr.Get(context.Background(), tok); !errors.Is(err, domain.ErrNoActiveSession) {
			t.Fatalf("token %q: want ErrNoActiveSession, got %v", tok, err)
		}
	}

	tok, _ := mgr.Open()
	mgr.Discard(tok)
	if _, err := mgr.Get(context.Background(), tok); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("discarded token should be gone, got %v", err)
	}
}

// TestSessionManagerSameAccountTwice 同一帳戶登入兩次，交易都必須保留在 allAccounts
func TestSessionManagerSameAccountTwice(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, newMemoryStore(t))
	mgr := usecase.NewSessionManager(store)

	_, coreA := mgr.Open()
	if _, err := coreA.SignUp(ctx, "Ada", "ada@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
	_, coreB := mgr.Open()
	if _, err := coreB.LogIn(ctx, "ada@example.com", "pw"); err != nil {
		t.Fatal(err)
	}

	if _, err := coreA.RequestTransaction(ctx, domain.TransactionKindDeposit, "50000"); err != nil {
		t.Fatal(err)
	}
	if _, err := coreB.RequestTransaction(ctx, domain.TransactionKindWithdraw, "10000"); err != nil {
		t.Fatal(err)
	}

	all, _ := store.Accounts(ctx)
	if !all[0].Balance.Equal(d("140000")) || len(all[0].Transactions) != 2 {
		t.Fatalf("stored balance=%s history=%d, want 140000 with 2", all[0].Balance, len(all[0].Transactions))
	}
	if cur := coreB.GetCurrentAccount(); !cur.Balance.Equal(d("140000")) || len(cur.Transactions) != 2 {
		t.Fatalf("session B view balance=%s history=%d", cur.Balance, len(cur.Transactions))
	}
}

// TestSessionManagerSweepIdle 閒置逾時的工作階段被登出，儲存的 slot 也一併刪除
func TestSessionManagerSweepIdle(t *testing.T) {
	ctx := context.Background()
	p := newMemoryStore(t)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	mgr := usecase.NewSessionManager(newStore(t, p),
		usecase.WithIdleTimeout(time.Minute),
		usecase.WithSessionClock(func() time.Time { return now }),
	)

	idleTok, idle := mgr.Open()
	_, _ = idle.SignUp(ctx, "Idle", "idle@example.com", "pw")
	activeTok, active := mgr.Open()
	_, _ = active.SignUp(ctx, "Active", "active@example.com", "pw")

	now = now.Add(50 * time.Second)
	if _, err := mgr.Get(ctx, activeTok); err != nil {
		t.Fatal(err)
	}
	now = now.Add(20 * time.Second)

	removed, err := mgr.Sweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 || mgr.Len() != 1 {
		t.Fatalf("removed=%d len=%d, want 1 and 1", removed, mgr.Len())
	}
	if _, ok, _ := p.Get(ctx, usecase.NewTokenSession(idleTok).Slot()); ok {
		t.Fatal("idle session slot should be removed")
	}
	if _, err := mgr.Get(ctx, idleTok); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("want ErrNoActiveSession for swept token, got %v", err)
	}
	if _, err := mgr.Get(ctx, activeTok); err != nil {
		t.Fatalf("active session swept: %v", err)
	}
	if all, _, _ := p.Get(ctx, usecase.KeyAllAccounts); all == "" {
		t.Fatal("accounts must survive a sweep")
	}
}

func TestSessionManagerSweepDisabled(t *testing.T) {
	now := time.Now()
	mgr := usecase.NewSessionManager(newStore(t, newMemoryStore(t)),
		usecase.WithIdleTimeout(0),
		usecase.WithSessionClock(func() time.Time { return now }),
	)
	mgr.Open()
	now = now.Add(24 * time.Hour)
	if removed, _ := mgr.Sweep(context.Background()); removed != 0 || mgr.Len() != 1 {
		t.Fatalf("removed=%d len=%d with sweeping disabled", removed, mgr.Len())
	}
}
