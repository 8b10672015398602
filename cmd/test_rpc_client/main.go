package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	grpc_adapter "github.com/JoeShih716/zenith-ledger/internal/app/core/adapter/in/grpc"
	grpcpool "github.com/JoeShih716/zenith-ledger/pkg/grpc"
)

func main() {
	target := flag.String("target", "localhost:50051", "gRPC server address")
	totalCount := flag.Int("n", 10000, "number of deposit requests")
	concurrency := flag.Int("c", 100, "concurrent requests")
	flag.Parse()

	pool := grpcpool.NewPool()
	defer pool.Close()

	conn, err := pool.GetConnection(*target)
	if err != nil {
		log.Fatalf("did not connect: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	// 1. 開戶 (每次執行使用新的 email)
	client := grpc_adapter.NewClient(conn)
	email := fmt.Sprintf("demo-%s@example.com", uuid.NewString()[:8])
	account, err := client.SignUp(ctx, "Demo User", email, "demo-password")
	if err != nil {
		log.Fatalf("sign up failed: %v", err)
	}
	fmt.Printf("Signed up %s, balance %s\n", account.Email, account.DisplayBalance)

	// 2. 單筆示範
	if _, err := client.RequestTransaction(ctx, "withdraw", "25000"); err != nil {
		log.Fatalf("withdraw failed: %v", err)
	}
	if _, err := client.RequestTransaction(ctx, "withdraw", "1000000"); err != nil {
		fmt.Printf("Expected rejection: %v\n", err)
	}

	// 3. 併發存款壓測
	var wg sync.WaitGroup
	var failed atomic.Int64
	sem := make(chan struct{}, *concurrency)
	startTime := time.Now()

	for i := 0; i < *totalCount; i++ {
		sem <- struct{}{}
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := client.RequestTransaction(ctx, "deposit", "1"); err != nil {
				failed.Add(1)
				if idx%1000 == 0 {
					log.Printf("Deposit %d failed: %v", idx, err)
				}
			}
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("Completed %d requests in %v (%d failed)\n", *totalCount, elapsed, failed.Load())
	fmt.Printf("TPS: %.2f\n", float64(*totalCount)/elapsed.Seconds())

	// 4. 最終狀態
	current, err := client.CurrentAccount(ctx)
	if err != nil {
		log.Fatalf("get account failed: %v", err)
	}
	recent, err := client.RecentTransactions(ctx, 5)
	if err != nil {
		log.Fatalf("recent transactions failed: %v", err)
	}
	fmt.Printf("Final balance %s\n", current.DisplayBalance)
	for _, t := range recent {
		fmt.Printf("  %s %-8s %s\n", t.Date, t.Type, t.Display)
	}

	if err := client.LogOut(ctx); err != nil {
		log.Printf("log out failed: %v", err)
	}
}
