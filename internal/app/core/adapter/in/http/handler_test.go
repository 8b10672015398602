package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/zenith-ledger/internal/app/core/usecase"
)

type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return "plain:" + secret, nil }
func (plainHasher) Compare(hashed, secret string) bool { return hashed == "plain:"+secret }

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store, err := memory.NewMutexStore(nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewApp(usecase.NewSessionManager(usecase.NewAccountStore(store, plainHasher{})))
}

// do 送出請求並把回應 JSON 解到 out (可為 nil)，回傳狀態碼
func do(t *testing.T, app *fiber.App, method, path, token, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func signUp(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	var res SessionResponseSchema
	code := do(t, app, fiber.MethodPost, "/v1/signup", "", `{"name":"Ada","email":"`+email+`","password":"pw"}`, &res)
	if code != fiber.StatusCreated {
		t.Fatalf("signup status=%d", code)
	}
	return res.Token
}

func TestHealth(t *testing.T) {
	var res map[string]string
	if code := do(t, newTestApp(t), fiber.MethodGet, "/health", "", "", &res); code != fiber.StatusOK || res["status"] != "ok" {
		t.Fatalf("status=%d body=%v", code, res)
	}
}

func TestTransactionFlow(t *testing.T) {
	app := newTestApp(t)
	token := signUp(t, app, "ada@example.com")

	var tran TransactionResponseSchema
	code := do(t, app, fiber.MethodPost, "/v1/transactions", token, `{"type":"deposit","amount":"50000"}`, &tran)
	if code != fiber.StatusCreated {
		t.Fatalf("deposit status=%d", code)
	}
	if tran.Balance != "150000" || tran.Transaction.Display != "+₦50,000" || tran.Transaction.Type != "Deposit" {
		t.Fatalf("unexpected transaction: %+v", tran)
	}

	code = do(t, app, fiber.MethodPost, "/v1/transactions", token, `{"type":"withdraw","amount":"25000"}`, nil)
	if code != fiber.StatusCreated {
		t.Fatalf("withdraw status=%d", code)
	}
	code = do(t, app, fiber.MethodPost, "/v1/transactions", token, `{"type":"transfer","amount":"100"}`, nil)
	if code != fiber.StatusCreated {
		t.Fatalf("transfer status=%d", code)
	}

	var list TransactionListSchema
	if code := do(t, app, fiber.MethodGet, "/v1/transactions?limit=2", token, "", &list); code != fiber.StatusOK {
		t.Fatalf("list status=%d", code)
	}
	if len(list.Transactions) != 2 || list.Transactions[0].Type != "Transfer" || list.Transactions[1].Type != "Withdraw" {
		t.Fatalf("unexpected list: %+v", list.Transactions)
	}

	var acc AccountResponseSchema
	if code := do(t, app, fiber.MethodGet, "/v1/account", token, "", &acc); code != fiber.StatusOK {
		t.Fatalf("account status=%d", code)
	}
	if acc.Account.Balance != "124900" || acc.Account.DisplayBalance != "₦124,900.00" {
		t.Fatalf("unexpected account: %+v", acc.Account)
	}
}

func TestErrorStatuses(t *testing.T) {
	app := newTestApp(t)
	token := signUp(t, app, "ada@example.com")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"insufficient funds", fiber.MethodPost, "/v1/transactions", token, `{"type":"withdraw","amount":"150000"}`, fiber.StatusConflict},
		{"invalid amount", fiber.MethodPost, "/v1/transactions", token, `{"type":"deposit","amount":"abc"}`, fiber.StatusBadRequest},
		{"unknown kind", fiber.MethodPost, "/v1/transactions", token, `{"type":"refund","amount":"10"}`, fiber.StatusBadRequest},
		{"duplicate email", fiber.MethodPost, "/v1/signup", "", `{"name":"B","email":"ada@example.com","password":"pw"}`, fiber.StatusConflict},
		{"missing fields", fiber.MethodPost, "/v1/signup", "", `{"name":"","email":"b@example.com","password":"pw"}`, fiber.StatusUnprocessableEntity},
		{"bad credentials", fiber.MethodPost, "/v1/login", "", `{"email":"ada@example.com","password":"nope"}`, fiber.StatusUnauthorized},
		{"no token", fiber.MethodGet, "/v1/account", "", "", fiber.StatusUnauthorized},
		{"unknown token", fiber.MethodGet, "/v1/transactions", "missing", "", fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var res map[string]string
			code := do(t, app, tc.method, tc.path, tc.token, tc.body, &res)
			if code != tc.want {
				t.Fatalf("status=%d want %d (%v)", code, tc.want, res)
			}
			if res["error"] == "" {
				t.Fatalf("missing error message: %v", res)
			}
		})
	}
}

func TestLogOutLogIn(t *testing.T) {
	app := newTestApp(t)
	token := signUp(t, app, "ada@example.com")

	if code := do(t, app, fiber.MethodPost, "/v1/logout", token, "", nil); code != fiber.StatusNoContent {
		t.Fatalf("logout status=%d", code)
	}
	if code := do(t, app, fiber.MethodGet, "/v1/account", token, "", nil); code != fiber.StatusUnauthorized {
		t.Fatalf("account after logout status=%d", code)
	}

	var res SessionResponseSchema
	code := do(t, app, fiber.MethodPost, "/v1/login", "", `{"email":"ada@example.com","password":"pw"}`, &res)
	if code != fiber.StatusOK || res.Token == "" || res.Token == token {
		t.Fatalf("login status=%d token=%q", code, res.Token)
	}
}
