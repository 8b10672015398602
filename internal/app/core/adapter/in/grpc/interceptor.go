package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/zenith-ledger/internal/logger"
)

// LoggingInterceptor 記錄每個 unary 呼叫的方法、耗時與結果
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := logger.Fields{
			"method":     info.FullMethod,
			"durationMs": time.Since(start).Milliseconds(),
			"code":       status.Code(err).String(),
		}
		if status.Code(err) == codes.Internal {
			logger.Error("grpc request failed", err, fields)
		} else {
			logger.Info("grpc request", fields)
		}
		return resp, err
	}
}
