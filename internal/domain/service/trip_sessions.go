package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"

	"TripPlanner-App/internal/domain/event"
	"TripPlanner-App/internal/domain/repository"
)

const (
	DefaultMaxSessions    = 10000
	DefaultSessionIdleTTL = 2 * time.Hour
)

// SessionLimits 保持するセッションの上限
// MaxSessions を超えると最も長く使われていないセッションから破棄する
type SessionLimits struct {
	MaxSessions int
	IdleTTL     time.Duration
}

type sessionEntry struct {
	store    *TripSessionStore
	lastSeen time.Time
}

// TripSessions はクライアントセッションIDごとの TripSessionStore を保持する
// ブラウザのタブごとの sessionStorage に相当する
type TripSessions struct {
	mu         sync.Mutex
	cache      *lru.Cache
	entries    map[string]*sessionEntry
	idleTTL    time.Duration
	newStorage func() repository.KeyValueStore
	events     *event.Events
	now        func() time.Time
}

// NewTripSessions は新しいTripSessionsを作成する。newStorage はセッションごとに呼ばれる
// limits の各値が0以下の場合はデフォルト値を使う
func NewTripSessions(newStorage func() repository.KeyValueStore, events *event.Events, limits SessionLimits) *TripSessions {
	if limits.MaxSessions <= 0 {
		limits.MaxSessions = DefaultMaxSessions
	}
	if limits.IdleTTL <= 0 {
		limits.IdleTTL = DefaultSessionIdleTTL
	}

	s := &TripSessions{
		cache:      lru.New(limits.MaxSessions),
		entries:    make(map[string]*sessionEntry),
		idleTTL:    limits.IdleTTL,
		newStorage: newStorage,
		events:     events,
		now:        time.Now,
	}
	s.cache.OnEvicted = func(key lru.Key, _ interface{}) {
		delete(s.entries, key.(string))
	}
	return s
}

// Get はセッションIDのストアを返す。初回は空のストレージで作成する
func (s *TripSessions) Get(sessionID string) *TripSessionStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(sessionID); ok {
		entry := v.(*sessionEntry)
		entry.lastSeen = s.now()
		return entry.store
	}

	entry := &sessionEntry{
		store:    NewTripSessionStore(s.newStorage(), s.events),
		lastSeen: s.now(),
	}
	s.entries[sessionID] = entry
	s.cache.Add(sessionID, entry)
	return entry.store
}

// Drop はセッションを破棄する
func (s *TripSessions) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(sessionID)
}

// Len は保持しているセッション数を返す
func (s *TripSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// EvictIdle は IdleTTL を超えて使われていないセッションを破棄し、破棄した件数を返す
func (s *TripSessions) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, entry := range s.entries {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			s.cache.Remove(id)
			evicted++
		}
	}
	if evicted > 0 {
		log.Printf("🧹 アイドル状態のセッションを破棄: %d件 (残り %d件)", evicted, s.cache.Len())
	}
	return evicted
}

// RunJanitor は ctx がキャンセルされるまで interval ごとに EvictIdle を実行する
func (s *TripSessions) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.EvictIdle()
		}
	}
}
