package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/domain"
	"github.com/JoeShih716/zenith-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/zenith-ledger/internal/logger"
)

// TokenHeader 攜帶 session token 的 header
const TokenHeader = "X-Session-Token"

const sessionLocalKey = "session"

type Handler struct {
	sessions *usecase.SessionManager
}

func NewHandler(sessions *usecase.SessionManager) *Handler {
	return &Handler{sessions: sessions}
}

// NewApp 建立已註冊路由與錯誤處理的 fiber App
func NewApp(sessions *usecase.SessionManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
	})
	app.Use(requestLogger)
	NewHandler(sessions).InitializeRoutes(app)
	return app
}

func (h *Handler) InitializeRoutes(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Post("/v1/signup", h.SignUp)
	app.Post("/v1/login", h.LogIn)
	app.Post("/v1/logout", h.LogOut)
	app.Get("/v1/account", h.requireSession, h.GetAccount)
	app.Post("/v1/transactions", h.requireSession, h.CreateTransaction)
	app.Get("/v1/transactions", h.requireSession, h.RecentTransactions)
}

func (h *Handler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) SignUp(c fiber.Ctx) error {
	var req SignUpSchema
	if err := c.Bind().Body(&req); err != nil {
		return fiber.ErrBadRequest
	}

	token, core := h.sessions.Open()
	account, err := core.SignUp(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.sessions.Discard(token)
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(SessionResponseSchema{
		Token:   token,
		Account: toAccountSchema(account),
	})
}

func (h *Handler) LogIn(c fiber.Ctx) error {
	var req LogInSchema
	if err := c.Bind().Body(&req); err != nil {
		return fiber.ErrBadRequest
	}

	token, core := h.sessions.Open()
	account, err := core.LogIn(c.Context(), req.Email, req.Password)
	if err != nil {
		h.sessions.Discard(token)
		return err
	}
	return c.JSON(SessionResponseSchema{
		Token:   token,
		Account: toAccountSchema(account),
	})
}

func (h *Handler) LogOut(c fiber.Ctx) error {
	if err := h.sessions.Close(c.Context(), c.Get(TokenHeader)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetAccount(c fiber.Ctx) error {
	account := session(c).GetCurrentAccount()
	if account == nil {
		return domain.ErrNoActiveSession
	}
	return c.JSON(AccountResponseSchema{Account: toAccountSchema(account)})
}

func (h *Handler) CreateTransaction(c fiber.Ctx) error {
	var req TransactionRequestSchema
	if err := c.Bind().Body(&req); err != nil {
		return fiber.ErrBadRequest
	}
	kind, err := domain.ParseTransactionKind(req.Type)
	if err != nil {
		return err
	}

	tran, err := session(c).RequestTransaction(c.Context(), kind, req.Amount)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(TransactionResponseSchema{
		Transaction: toTransactionSchema(*tran),
		Balance:     tran.Balance.String(),
	})
}

// RecentTransactions ?limit=N，未帶或 <= 0 時使用預設筆數
func (h *Handler) RecentTransactions(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	trans := session(c).RecentTransactions(limit)
	out := TransactionListSchema{Transactions: make([]TransactionSchema, 0, len(trans))}
	for _, t := range trans {
		out.Transactions = append(out.Transactions, toTransactionSchema(t))
	}
	return c.JSON(out)
}

// requireSession 依 header 中的 token 取得工作階段並放入 Locals
func (h *Handler) requireSession(c fiber.Ctx) error {
	core, err := h.sessions.Get(c.Context(), c.Get(TokenHeader))
	if err != nil {
		return err
	}
	c.Locals(sessionLocalKey, core)
	return c.Next()
}

func session(c fiber.Ctx) *usecase.CoreUseCase {
	return c.Locals(sessionLocalKey).(*usecase.CoreUseCase)
}

// ErrorHandler 將 domain 錯誤轉為 HTTP 狀態碼，回應 {"error": msg}
func ErrorHandler(c fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		logger.Error("http request failed", err, logger.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnknownTransactionKind):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrMissingFields):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrInsufficientFunds):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrNoActiveSession):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func requestLogger(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = statusFor(err)
	}
	logger.Info("http request", logger.Fields{
		"method":     c.Method(),
		"path":       c.Path(),
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return err
}
