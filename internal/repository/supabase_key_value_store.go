package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/infrastructure/database"
)

const supabaseKeyValueTable = "kv_store"

// supabaseKeyValueRow は kv_store テーブルの行
type supabaseKeyValueRow struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// SupabaseKeyValueStore Supabase (PostgREST) の kv_store テーブルを使った永続キーバリューストア
// テーブル定義は SQLClient.Migrate と同じ
type SupabaseKeyValueStore struct {
	client    *database.SupabaseClient
	namespace string
}

// NewSupabaseKeyValueStore 新しいSupabaseKeyValueStoreインスタンスを作成
func NewSupabaseKeyValueStore(client *database.SupabaseClient, namespace string) *SupabaseKeyValueStore {
	return &SupabaseKeyValueStore{
		client:    client,
		namespace: namespace,
	}
}

func (r *SupabaseKeyValueStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	data, _, err := r.client.GetClient().From(supabaseKeyValueTable).
		Select("value", "", false).
		Eq("namespace", r.namespace).
		Eq("key", key).
		Execute()
	if err != nil {
		return "", false, fmt.Errorf("キー %s の取得に失敗: %w", key, err)
	}

	var rows []supabaseKeyValueRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", false, fmt.Errorf("キー %s のJSONアンマーシャル失敗: %w", key, err)
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Value, true, nil
}

func (r *SupabaseKeyValueStore) SetItem(ctx context.Context, key, value string) error {
	row := supabaseKeyValueRow{Namespace: r.namespace, Key: key, Value: value}
	_, _, err := r.client.GetClient().From(supabaseKeyValueTable).
		Insert(row, true, "namespace,key", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("キー %s の保存に失敗: %w", key, err)
	}
	return nil
}

func (r *SupabaseKeyValueStore) RemoveItem(ctx context.Context, key string) error {
	_, _, err := r.client.GetClient().From(supabaseKeyValueTable).
		Delete("", "").
		Eq("namespace", r.namespace).
		Eq("key", key).
		Execute()
	if err != nil {
		return fmt.Errorf("キー %s の削除に失敗: %w", key, err)
	}
	return nil
}

func (r *SupabaseKeyValueStore) Keys(ctx context.Context) ([]string, error) {
	data, _, err := r.client.GetClient().From(supabaseKeyValueTable).
		Select("key", "", false).
		Eq("namespace", r.namespace).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("キー一覧の取得に失敗: %w", err)
	}

	var rows []supabaseKeyValueRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("キー一覧のJSONアンマーシャル失敗: %w", err)
	}
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, row.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

var _ repository.KeyValueStore = (*SupabaseKeyValueStore)(nil)
