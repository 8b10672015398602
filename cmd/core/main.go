package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/zenith-ledger/internal/app/core/adapter/in/grpc"
	http_adapter "github.com/JoeShih716/zenith-ledger/internal/app/core/adapter/in/http"
	"github.com/JoeShih716/zenith-ledger/internal/app/core/adapter/out/credential"
	memory_adapter "github.com/JoeShih716/zenith-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/zenith-ledger/internal/app/core/adapter/out/mysql"
	postgres_adapter "github.com/JoeShih716/zenith-ledger/internal/app/core/adapter/out/postgres"
	"github.com/JoeShih716/zenith-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/zenith-ledger/internal/config"
	"github.com/JoeShih716/zenith-ledger/internal/logger"
	"github.com/JoeShih716/zenith-ledger/pkg/mysql"
	"github.com/JoeShih716/zenith-ledger/pkg/postgres"
	"github.com/JoeShih716/zenith-ledger/pkg/wal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 載入設定
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	startingBalance, err := cfg.StartingBalanceDecimal()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. 初始化 PersistenceStore
	store, closeStore, err := newPersistenceStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to init %s store: %v", cfg.Store, err)
	}
	defer closeStore()
	logger.Info("persistence store ready", logger.Fields{"store": cfg.Store})

	// 3. 初始化 UseCase
	accountStore := usecase.NewAccountStore(store, credential.NewBcryptHasher(cfg.BcryptCost),
		usecase.WithStartingBalance(startingBalance),
	)
	sessions := usecase.NewSessionManager(accountStore, usecase.WithIdleTimeout(cfg.SessionIdleTimeout))
	go sessions.RunSweeper(ctx, time.Minute, func(removed int, err error) {
		if err != nil {
			logger.Error("session sweep failed", err, logger.Fields{"removed": removed})
			return
		}
		if removed > 0 {
			logger.Info("idle sessions expired", logger.Fields{"removed": removed})
		}
	})

	// 4. 啟動 gRPC Server (Driving Adapter)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.LoggingInterceptor()))
	grpc_adapter.Register(grpcServer, grpc_adapter.NewGrpcServer(sessions))
	reflection.Register(grpcServer)

	go func() {
		logger.Info("starting grpc server", logger.Fields{"addr": cfg.GRPCAddr})
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Fatalf("failed to serve grpc: %v", err)
		}
	}()

	// 5. 啟動 HTTP Server
	app := http_adapter.NewApp(sessions)
	go func() {
		logger.Info("starting http server", logger.Fields{"addr": cfg.HTTPAddr})
		if err := app.Listen(cfg.HTTPAddr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Fatalf("failed to serve http: %v", err)
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", err, nil)
	}
	grpcServer.GracefulStop()
	logger.Info("server exited", nil)
}

// newPersistenceStore 依設定建立 PersistenceStore，回傳關閉函式
func newPersistenceStore(ctx context.Context, cfg config.Config) (usecase.PersistenceStore, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		store, err := memory_adapter.NewMutexStore(nil)
		return store, func() {}, err

	case config.StoreWAL:
		walFile, err := wal.Open(cfg.WALPath)
		if err != nil {
			return nil, nil, err
		}
		store, err := memory_adapter.NewMutexStore(walFile)
		if err != nil {
			_ = walFile.Close()
			return nil, nil, err
		}
		// 啟動時壓縮 WAL，只保留每個 key 的最新值
		if err := store.Compact(); err != nil {
			_ = walFile.Close()
			return nil, nil, err
		}
		logger.Info("wal recovered", logger.Fields{"path": cfg.WALPath, "keys": store.Len()})
		return store, func() { _ = walFile.Close() }, nil

	case config.StoreMySQL:
		client, err := mysql.NewClient(ctx, cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		store := mysql_adapter.NewKVStore(client)
		if err := store.Migrate(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, func() { _ = client.Close() }, nil

	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres.DatabaseURL, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		store := postgres_adapter.NewKVStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	default:
		return nil, nil, errors.New("unknown store " + string(cfg.Store))
	}
}
