package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// SQLClient 永続ストレージ用のSQL接続クライアント (sqlite3 / postgres)
type SQLClient struct {
	DB     *sqlx.DB
	Driver string
}

// NewSQLClient 新しいSQLクライアントを作成し、接続確認とスキーマ初期化を行う
func NewSQLClient(driver, dsn string) (*SQLClient, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("未対応のデータベースドライバです: %s", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("データベースの接続先が設定されていません")
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続の初期化に失敗: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite は単一コネクションで直列化する (":memory:" はコネクションごとに別DBになるため)
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("データベースへの接続に失敗: %w", err)
	}

	client := &SQLClient{DB: db, Driver: driver}
	if err := client.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return client, nil
}

// NewSQLClientWithRetry 起動直後にDBが未準備の場合に備えてリトライ付きで接続する
func NewSQLClientWithRetry(driver, dsn string, attempts int, interval time.Duration) (*SQLClient, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		client, err := NewSQLClient(driver, dsn)
		if err == nil {
			return client, nil
		}
		lastErr = err
		log.Printf("⚠️ データベース接続失敗 (%d/%d): %v", i, attempts, err)
		if i < attempts {
			time.Sleep(interval)
		}
	}
	return nil, fmt.Errorf("%d回の接続試行に失敗: %w", attempts, lastErr)
}

// Migrate キーバリュー用テーブルを作成する
func (c *SQLClient) Migrate(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS kv_store (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	)`
	if _, err := c.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return nil
}

// Rebind は ? 形式のプレースホルダをドライバのバインド形式に書き換える
func (c *SQLClient) Rebind(query string) string {
	return c.DB.Rebind(query)
}

// Close データベース接続を閉じる
func (c *SQLClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (c *SQLClient) HealthCheck() error {
	if c.DB == nil {
		return fmt.Errorf("データベースクライアントが初期化されていません")
	}
	return c.DB.Ping()
}
