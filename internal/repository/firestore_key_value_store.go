package repository

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"TripPlanner-App/internal/domain/repository"
)

const firestoreKeyValueCollection = "kvStore"

// firestoreKeyValue は kvStore コレクションのドキュメント
type firestoreKeyValue struct {
	Namespace string `firestore:"namespace"`
	Key       string `firestore:"key"`
	Value     string `firestore:"value"`
}

// FirestoreKeyValueStore Firestoreを使った永続キーバリューストア
type FirestoreKeyValueStore struct {
	client    *firestore.Client
	namespace string
}

// NewFirestoreKeyValueStore 新しいFirestoreKeyValueStoreインスタンスを作成
func NewFirestoreKeyValueStore(client *firestore.Client, namespace string) *FirestoreKeyValueStore {
	return &FirestoreKeyValueStore{
		client:    client,
		namespace: namespace,
	}
}

// firestoreDocID はドキュメントIDを "<namespace>|<key>" 形式で作る
// "/" を含むキーでもサブコレクション扱いにならないようエスケープする
func firestoreDocID(namespace, key string) string {
	return url.PathEscape(namespace) + "|" + url.PathEscape(key)
}

func (r *FirestoreKeyValueStore) doc(key string) *firestore.DocumentRef {
	return r.client.Collection(firestoreKeyValueCollection).Doc(firestoreDocID(r.namespace, key))
}

func (r *FirestoreKeyValueStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	snap, err := r.doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("キー %s の取得に失敗: %w", key, err)
	}

	var item firestoreKeyValue
	if err := snap.DataTo(&item); err != nil {
		return "", false, fmt.Errorf("キー %s のデータ変換に失敗: %w", key, err)
	}
	return item.Value, true, nil
}

func (r *FirestoreKeyValueStore) SetItem(ctx context.Context, key, value string) error {
	item := firestoreKeyValue{Namespace: r.namespace, Key: key, Value: value}
	if _, err := r.doc(key).Set(ctx, item); err != nil {
		return fmt.Errorf("キー %s の保存に失敗: %w", key, err)
	}
	return nil
}

func (r *FirestoreKeyValueStore) RemoveItem(ctx context.Context, key string) error {
	if _, err := r.doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("キー %s の削除に失敗: %w", key, err)
	}
	return nil
}

func (r *FirestoreKeyValueStore) Keys(ctx context.Context) ([]string, error) {
	docs, err := r.client.Collection(firestoreKeyValueCollection).
		Where("namespace", "==", r.namespace).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("キー一覧の取得に失敗: %w", err)
	}

	keys := make([]string, 0, len(docs))
	for _, snap := range docs {
		var item firestoreKeyValue
		if err := snap.DataTo(&item); err != nil {
			return nil, fmt.Errorf("キーの読み取りに失敗: %w", err)
		}
		keys = append(keys, item.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

var _ repository.KeyValueStore = (*FirestoreKeyValueStore)(nil)
