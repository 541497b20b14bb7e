package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/infrastructure/database"
)

// SQLKeyValueStore kv_store テーブルを使った永続キーバリューストア
// namespace ごとに独立したストアとして振る舞う
type SQLKeyValueStore struct {
	client    *database.SQLClient
	namespace string
}

// NewSQLKeyValueStore 新しいSQLKeyValueStoreインスタンスを作成
func NewSQLKeyValueStore(client *database.SQLClient, namespace string) *SQLKeyValueStore {
	return &SQLKeyValueStore{
		client:    client,
		namespace: namespace,
	}
}

func (r *SQLKeyValueStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	query := r.client.Rebind(`SELECT value FROM kv_store WHERE namespace = ? AND key = ?`)

	var value string
	err := r.client.DB.GetContext(ctx, &value, query, r.namespace, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("キー %s の取得に失敗: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLKeyValueStore) SetItem(ctx context.Context, key, value string) error {
	query := r.client.Rebind(`INSERT INTO kv_store (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value`)

	if _, err := r.client.DB.ExecContext(ctx, query, r.namespace, key, value); err != nil {
		return fmt.Errorf("キー %s の保存に失敗: %w", key, err)
	}
	return nil
}

func (r *SQLKeyValueStore) RemoveItem(ctx context.Context, key string) error {
	query := r.client.Rebind(`DELETE FROM kv_store WHERE namespace = ? AND key = ?`)

	if _, err := r.client.DB.ExecContext(ctx, query, r.namespace, key); err != nil {
		return fmt.Errorf("キー %s の削除に失敗: %w", key, err)
	}
	return nil
}

func (r *SQLKeyValueStore) Keys(ctx context.Context) ([]string, error) {
	query := r.client.Rebind(`SELECT key FROM kv_store WHERE namespace = ? ORDER BY key`)

	keys := []string{}
	if err := r.client.DB.SelectContext(ctx, &keys, query, r.namespace); err != nil {
		return nil, fmt.Errorf("キー一覧の取得に失敗: %w", err)
	}
	return keys, nil
}

var _ repository.KeyValueStore = (*SQLKeyValueStore)(nil)
