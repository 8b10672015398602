package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/zenith-ledger/pkg/mysql"
)

// StoreKind 選擇 PersistenceStore 的實作
type StoreKind string

const (
	StoreMemory   StoreKind = "memory"   // 純記憶體，重啟即消失
	StoreWAL      StoreKind = "wal"      // 記憶體 + WAL，重啟後回放
	StoreMySQL    StoreKind = "mysql"    // gorm + MySQL
	StorePostgres StoreKind = "postgres" // pgx + PostgreSQL
)

const (
	defaultGRPCAddr        = ":50051"
	defaultHTTPAddr        = ":8080"
	defaultWALPath         = "wal.log"
	defaultStartingBalance = "100000"
	defaultSessionIdle     = 30 * time.Minute
)

type PostgresConfig struct {
	DatabaseURL string `yaml:"database_url"`
	MaxConns    int32  `yaml:"max_conns"`
}

// Config 服務設定
type Config struct {
	Store           StoreKind `yaml:"store"`
	GRPCAddr        string    `yaml:"grpc_addr"`
	HTTPAddr        string    `yaml:"http_addr"`
	WALPath         string    `yaml:"wal_path"`
	StartingBalance string    `yaml:"starting_balance"`
	BcryptCost      int       `yaml:"bcrypt_cost"`
	// SessionIdleTimeout 工作階段閒置逾時，負值表示不逾時
	SessionIdleTimeout time.Duration  `yaml:"session_idle_timeout"`
	MySQL              mysql.Config   `yaml:"mysql"`
	Postgres           PostgresConfig `yaml:"postgres"`
}

// Load 讀取設定
// 順序: 程式預設值 -> yaml 檔 (不存在則略過) -> .env / 環境變數
//
// 參數:
//
//	path: yaml 檔路徑，例如 "config/config.yaml"
func Load(path string) (Config, error) {
	cfg := Config{
		MySQL: mysql.DefaultConfig(),
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	// .env 不存在時直接使用系統環境變數
	_ = godotenv.Load()
	applyEnv(&cfg)

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := env("LEDGER_STORE"); v != "" {
		cfg.Store = StoreKind(strings.ToLower(v))
	}
	if v := env("DATABASE_URL"); v != "" {
		cfg.Postgres.DatabaseURL = v
	}
	if v := env("GRPC_ADDR"); v != "" {
		cfg.GRPCAddr = v
	}
	if v := env("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := env("WAL_PATH"); v != "" {
		cfg.WALPath = v
	}
	if v := env("MYSQL_PASSWORD"); v != "" {
		cfg.MySQL.Password = v
	}
}

// applyDefaults 補全 yaml 沒寫的欄位
func applyDefaults(cfg *Config) {
	if cfg.Store == "" {
		cfg.Store = StoreMemory
	}
	if cfg.GRPCAddr == "" {
		cfg.GRPCAddr = defaultGRPCAddr
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}
	if cfg.WALPath == "" {
		cfg.WALPath = defaultWALPath
	}
	if cfg.StartingBalance == "" {
		cfg.StartingBalance = defaultStartingBalance
	}
	if cfg.SessionIdleTimeout == 0 {
		cfg.SessionIdleTimeout = defaultSessionIdle
	}
	if cfg.MySQL.MaxOpenConns == 0 {
		cfg.MySQL.MaxOpenConns = 100
	}
	if cfg.MySQL.MaxIdleConns == 0 {
		cfg.MySQL.MaxIdleConns = 10
	}
}

// Validate 檢查設定組合是否可用
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreWAL, StoreMySQL:
	case StorePostgres:
		if c.Postgres.DatabaseURL == "" {
			return errors.New("config: postgres store requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	if _, err := c.StartingBalanceDecimal(); err != nil {
		return err
	}
	return nil
}

// StartingBalanceDecimal 回傳新開戶初始餘額
func (c Config) StartingBalanceDecimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.StartingBalance)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("config: invalid starting_balance %q", c.StartingBalance)
	}
	return d, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
