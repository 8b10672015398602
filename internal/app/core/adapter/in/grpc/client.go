package grpc

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client BankingService 的客戶端，登入後自動在 metadata 附上 token
type Client struct {
	conn  grpc.ClientConnInterface
	token string
	mu    sync.RWMutex
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Token 目前使用的 session token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken 沿用既有的 session (例如重新連線後)
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) SignUp(ctx context.Context, name, email, password string) (AccountView, error) {
	return c.authenticate(ctx, "SignUp", map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

func (c *Client) LogIn(ctx context.Context, email, password string) (AccountView, error) {
	return c.authenticate(ctx, "LogIn", map[string]any{
		"email":    email,
		"password": password,
	})
}

func (c *Client) LogOut(ctx context.Context) error {
	if _, err := c.invoke(ctx, "LogOut", nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) CurrentAccount(ctx context.Context) (AccountView, error) {
	out, err := c.invoke(ctx, "GetCurrentAccount", nil)
	if err != nil {
		return AccountView{}, err
	}
	return decodeAccount(out.GetFields()["account"].GetStructValue())
}

// RequestTransaction kind 為 "deposit" / "withdraw" / "transfer"
func (c *Client) RequestTransaction(ctx context.Context, kind, amount string) (TransactionView, error) {
	out, err := c.invoke(ctx, "RequestTransaction", map[string]any{
		"type":   kind,
		"amount": amount,
	})
	if err != nil {
		return TransactionView{}, err
	}
	return decodeTransaction(out.GetFields()["transaction"].GetStructValue())
}

func (c *Client) RecentTransactions(ctx context.Context, limit int) ([]TransactionView, error) {
	out, err := c.invoke(ctx, "RecentTransactions", map[string]any{"limit": limit})
	if err != nil {
		return nil, err
	}
	values := out.GetFields()["transactions"].GetListValue().GetValues()
	trans := make([]TransactionView, 0, len(values))
	for _, v := range values {
		t, err := decodeTransaction(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		trans = append(trans, t)
	}
	return trans, nil
}

func (c *Client) authenticate(ctx context.Context, method string, fields map[string]any) (AccountView, error) {
	out, err := c.invoke(ctx, method, fields)
	if err != nil {
		return AccountView{}, err
	}
	account, err := decodeAccount(out.GetFields()["account"].GetStructValue())
	if err != nil {
		return AccountView{}, err
	}
	c.SetToken(out.GetFields()["token"].GetStringValue())
	return account, nil
}

func (c *Client) invoke(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	if token := c.Token(); token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, TokenMetadataKey, token)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}
