package repository

import "context"

// KeyValueStore はブラウザの Web Storage 相当のキーバリューストア
// セッションスコープの一時ストレージと永続ストレージの両方がこのインターフェースを満たす
type KeyValueStore interface {
	// GetItem はキーの値を返す。存在しない場合 ok=false
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem は存在しないキーに対しても成功する
	RemoveItem(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
