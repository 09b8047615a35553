package db

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

// TestBuildDSN はTCP / Cloud SQLソケットそれぞれのDSN生成と優先順位を検証します。
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{
			name: "tcp connection",
			cfg: Config{
				User: "leaderboard", Password: "secret", Name: "marketdata",
				Host: "localhost", Port: "3306",
			},
			expected: "leaderboard:secret@tcp(localhost:3306)/marketdata?charset=utf8mb4&parseTime=true&loc=Local",
		},
		{
			name: "cloud sql unix socket",
			cfg: Config{
				User: "leaderboard", Password: "secret", Name: "marketdata",
				InstanceName: "project:region:instance",
			},
			expected: "leaderboard:secret@unix(/cloudsql/project:region:instance)/marketdata?charset=utf8mb4&parseTime=true&loc=Local",
		},
		{
			// InstanceName と Host/Port の両方がある場合はソケット優先
			name: "instance name takes precedence over host",
			cfg: Config{
				User: "leaderboard", Password: "secret", Name: "marketdata",
				Host: "localhost", Port: "3306",
				InstanceName: "project:region:instance",
			},
			expected: "leaderboard:secret@unix(/cloudsql/project:region:instance)/marketdata?charset=utf8mb4&parseTime=true&loc=Local",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if dsn := BuildDSN(tt.cfg); dsn != tt.expected {
				t.Errorf("expected DSN %q, got %q", tt.expected, dsn)
			}
		})
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// リトライの待機を挟むため parallel にはしない

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	// リトライ間隔3秒 × 2回分を許容するタイムアウト
	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	if err == nil {
		t.Fatal("expected error after timeout, got nil")
	}
	if attempts == 0 {
		t.Error("expected at least one connection attempt")
	}
}

// TestLoadConfigFromEnv は環境変数からデータベース設定が正しく読み込まれることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	// 環境変数を書き換えるので parallel にはしない
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("INSTANCE_CONNECTION_NAME", "")

	cfg := LoadConfigFromEnv()

	if cfg.User != "envuser" || cfg.Password != "envpass" || cfg.Name != "envdb" {
		t.Errorf("unexpected credentials: %+v", cfg)
	}
	if cfg.Host != "envhost" || cfg.Port != "3307" {
		t.Errorf("unexpected endpoint: host=%q port=%q", cfg.Host, cfg.Port)
	}
	if cfg.InstanceName != "" {
		t.Errorf("expected empty InstanceName, got %q", cfg.InstanceName)
	}
}
