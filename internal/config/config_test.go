package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LEDGER_STORE", "DATABASE_URL", "GRPC_ADDR", "HTTP_ADDR", "WAL_PATH", "MYSQL_PASSWORD"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("missing.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != StoreMemory || cfg.GRPCAddr != ":50051" || cfg.HTTPAddr != ":8080" || cfg.WALPath != "wal.log" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	bal, err := cfg.StartingBalanceDecimal()
	if err != nil || bal.String() != "100000" {
		t.Fatalf("starting balance=%s err=%v", bal, err)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Fatalf("session idle timeout=%v", cfg.SessionIdleTimeout)
	}
	if cfg.MySQL.Port != 3306 || cfg.MySQL.MaxOpenConns == 0 {
		t.Fatalf("mysql defaults missing: %+v", cfg.MySQL)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	yml := `
store: wal
wal_path: data/ledger.wal
starting_balance: "500.25"
bcrypt_cost: 4
session_idle_timeout: 5m
mysql:
  host: db
  conn_max_lifetime: 30m
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != StoreWAL || cfg.WALPath != "data/ledger.wal" || cfg.BcryptCost != 4 {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
	if cfg.SessionIdleTimeout != 5*time.Minute {
		t.Fatalf("session idle timeout=%v", cfg.SessionIdleTimeout)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("env override not applied: %s", cfg.HTTPAddr)
	}
	if cfg.MySQL.Host != "db" || cfg.MySQL.ConnMaxLifetime != 30*time.Minute || cfg.MySQL.Port != 3306 {
		t.Fatalf("mysql config: %+v", cfg.MySQL)
	}
	if bal, _ := cfg.StartingBalanceDecimal(); bal.String() != "500.25" {
		t.Fatalf("starting balance=%s", bal)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("LEDGER_STORE", "redis")
	if _, err := Load("missing.yaml"); err == nil {
		t.Fatal("expected error for unknown store")
	}

	t.Setenv("LEDGER_STORE", "postgres")
	if _, err := Load("missing.yaml"); err == nil {
		t.Fatal("expected error for postgres without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/zenith")
	cfg, err := Load("missing.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Postgres.DatabaseURL != "postgres://localhost/zenith" {
		t.Fatalf("database url=%q", cfg.Postgres.DatabaseURL)
	}
}
