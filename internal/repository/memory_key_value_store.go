package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// DefaultSessionQuotaBytes ブラウザの sessionStorage と同程度の上限 (5MB)
const DefaultSessionQuotaBytes = 5 * 1024 * 1024

// MemoryKeyValueStore プロセス内メモリに保持するセッションスコープのストレージ
type MemoryKeyValueStore struct {
	mu         sync.RWMutex
	items      map[string]string
	usedBytes  int
	quotaBytes int
}

// NewMemoryKeyValueStore 新しいメモリストアを作成する。quotaBytes <= 0 の場合は上限なし
func NewMemoryKeyValueStore(quotaBytes int) *MemoryKeyValueStore {
	return &MemoryKeyValueStore{
		items:      make(map[string]string),
		quotaBytes: quotaBytes,
	}
}

func (s *MemoryKeyValueStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryKeyValueStore) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.usedBytes + len(key) + len(value)
	if old, ok := s.items[key]; ok {
		used -= len(key) + len(old)
	}
	if s.quotaBytes > 0 && used > s.quotaBytes {
		return fmt.Errorf("キー %s の書き込みに失敗 (%d/%d bytes): %w", key, used, s.quotaBytes, model.ErrQuotaExceeded)
	}

	s.items[key] = value
	s.usedBytes = used
	return nil
}

func (s *MemoryKeyValueStore) RemoveItem(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.items[key]; ok {
		s.usedBytes -= len(key) + len(old)
		delete(s.items, key)
	}
	return nil
}

// Keys は全キーを辞書順で返す
func (s *MemoryKeyValueStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// UsedBytes は現在の使用量を返す
func (s *MemoryKeyValueStore) UsedBytes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usedBytes
}

var _ repository.KeyValueStore = (*MemoryKeyValueStore)(nil)
