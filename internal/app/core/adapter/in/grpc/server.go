package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/domain"
	"github.com/JoeShih716/zenith-ledger/internal/app/core/usecase"
)

const (
	// ServiceName gRPC 服務全名
	ServiceName = "zenith.ledger.v1.BankingService"
	// TokenMetadataKey 攜帶 session token 的 metadata key
	TokenMetadataKey = "x-session-token"
)

// BankingServiceServer 服務端介面，訊息一律使用 google.protobuf.Struct
type BankingServiceServer interface {
	SignUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LogIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LogOut(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCurrentAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RequestTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecentTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type methodFunc func(BankingServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc 手寫的服務描述，等同 protoc 產生的 _ServiceDesc
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BankingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: unary("SignUp", BankingServiceServer.SignUp)},
		{MethodName: "LogIn", Handler: unary("LogIn", BankingServiceServer.LogIn)},
		{MethodName: "LogOut", Handler: unary("LogOut", BankingServiceServer.LogOut)},
		{MethodName: "GetCurrentAccount", Handler: unary("GetCurrentAccount", BankingServiceServer.GetCurrentAccount)},
		{MethodName: "RequestTransaction", Handler: unary("RequestTransaction", BankingServiceServer.RequestTransaction)},
		{MethodName: "RecentTransactions", Handler: unary("RecentTransactions", BankingServiceServer.RecentTransactions)},
	},
	Streams: []grpc.StreamDesc{},
}

// Register 將服務註冊到 grpc.Server
func Register(s grpc.ServiceRegistrar, srv BankingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary(method string, call methodFunc) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BankingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BankingServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type GrpcServer struct {
	sessions *usecase.SessionManager
}

func NewGrpcServer(sessions *usecase.SessionManager) *GrpcServer {
	return &GrpcServer{
		sessions: sessions,
	}
}

// SignUp 開戶並建立新的 session，回傳 token
func (s *GrpcServer) SignUp(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token, core := s.sessions.Open()
	account, err := core.SignUp(ctx, stringField(req, "name"), stringField(req, "email"), stringField(req, "password"))
	if err != nil {
		s.sessions.Discard(token)
		return nil, toStatus(err)
	}
	return build(map[string]any{
		"token":   token,
		"account": accountFields(account),
	})
}

// LogIn 登入並建立新的 session，回傳 token
func (s *GrpcServer) LogIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token, core := s.sessions.Open()
	account, err := core.LogIn(ctx, stringField(req, "email"), stringField(req, "password"))
	if err != nil {
		s.sessions.Discard(token)
		return nil, toStatus(err)
	}
	return build(map[string]any{
		"token":   token,
		"account": accountFields(account),
	})
}

func (s *GrpcServer) LogOut(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.sessions.Close(ctx, tokenFrom(ctx)); err != nil {
		return nil, toStatus(err)
	}
	return &structpb.Struct{}, nil
}

func (s *GrpcServer) GetCurrentAccount(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	core, err := s.sessions.Get(ctx, tokenFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	account := core.GetCurrentAccount()
	if account == nil {
		return nil, toStatus(domain.ErrNoActiveSession)
	}
	return build(map[string]any{"account": accountFields(account)})
}

// RequestTransaction 欄位: type ("deposit" / "withdraw" / "transfer")、amount (字串或數字)
func (s *GrpcServer) RequestTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	core, err := s.sessions.Get(ctx, tokenFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	kind, err := domain.ParseTransactionKind(stringField(req, "type"))
	if err != nil {
		return nil, toStatus(err)
	}
	tran, err := core.RequestTransaction(ctx, kind, stringField(req, "amount"))
	if err != nil {
		return nil, toStatus(err)
	}
	return build(map[string]any{
		"transaction": transactionFields(*tran),
		"balance":     tran.Balance.String(),
	})
}

// RecentTransactions 欄位: limit (選填，<= 0 使用預設 10 筆)
func (s *GrpcServer) RecentTransactions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	core, err := s.sessions.Get(ctx, tokenFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	trans := core.RecentTransactions(numberField(req, "limit"))
	return build(map[string]any{"transactions": transactionList(trans)})
}

func tokenFrom(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(TokenMetadataKey); len(v) > 0 {
		return v[0]
	}
	return ""
}

func build(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStatus 將 domain 錯誤對應到 gRPC status code
func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnknownTransactionKind),
		errors.Is(err, domain.ErrMissingFields):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrInsufficientFunds):
		code = codes.FailedPrecondition
	case errors.Is(err, domain.ErrDuplicateEmail):
		code = codes.AlreadyExists
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrNoActiveSession):
		code = codes.Unauthenticated
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

var _ BankingServiceServer = (*GrpcServer)(nil)
