package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	assetadapters "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/adapters"
	rankingadapters "github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/adapters"
	userent "github.com/howie79794-sys/sweep-the-board/internal/feature/users/domain/entity"
)

// Config は MySQL 接続設定です。InstanceName が設定されている場合は
// Cloud SQL の Unix ソケット接続を優先します。
type Config struct {
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string
}

// LoadConfigFromEnv は環境変数から接続設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
	}
}

// BuildDSN は設定から MySQL の DSN を組み立てます。
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// ConnectWithRetry は接続に成功するまで 3 秒間隔でリトライします。
// opener はテストで差し替え可能です。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(dsn string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB は環境変数の設定で MySQL に接続します。RUN_MIGRATIONS=true の
// 場合はマイグレーションも実行します。
func OpenDB() *gorm.DB {
	dsn := BuildDSN(LoadConfigFromEnv())

	db, err := ConnectWithRetry(dsn, 60*time.Second, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gmysql.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		log.Fatal(err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（User, Asset, MarketRecord, Ranking）
		if err := db.AutoMigrate(
			&userent.User{},
			&assetadapters.AssetModel{},
			&assetadapters.MarketRecordModel{},
			&rankingadapters.RankingModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
