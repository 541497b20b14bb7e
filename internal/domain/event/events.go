package event

import (
	"sync"

	"TripPlanner-App/internal/domain/model"
)

// Topic は型付きペイロードを購読者へ同期的に配送する
type Topic[T any] struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]func(T)
	order    []int
}

// Subscribe はハンドラを登録し、登録解除用の関数を返す
func (t *Topic[T]) Subscribe(handler func(T)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handlers == nil {
		t.handlers = make(map[int]func(T))
	}
	id := t.nextID
	t.nextID++
	t.handlers[id] = handler
	t.order = append(t.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.handlers, id)
			for i, v := range t.order {
				if v == id {
					t.order = append(t.order[:i:i], t.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish は登録順に全ハンドラを呼び出す
// ハンドラ内から Subscribe / unsubscribe を呼んでもデッドロックしない
func (t *Topic[T]) Publish(payload T) {
	t.mu.RLock()
	handlers := make([]func(T), 0, len(t.order))
	for _, id := range t.order {
		handlers = append(handlers, t.handlers[id])
	}
	t.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

// TripActivated 新しいトリップがアクティブになった
type TripActivated struct {
	Identity string
	Trip     *model.TripRecord
}

// RouteCalculated 経路が保存された
type RouteCalculated struct {
	Identity string
	Route    *model.RouteSummary
}

// PlaceAdded スポットがトリップに追加された
type PlaceAdded struct {
	Identity string
	Place    model.TripPlace
}

// PlacesUpdated プレイスキャッシュが更新された。Replaced は全置換の場合 true
type PlacesUpdated struct {
	Identity string
	Places   []model.PlaceResult
	Replaced bool
}

// TripSaved 保存済みトリップが作成・更新された
type TripSaved struct {
	Snapshot *model.SavedTripSnapshot
	Updated  bool
}

// TripDeleted 保存済みトリップが削除された
type TripDeleted struct {
	ID string
}

// Events はトリップ状態の遷移ごとのトピック
type Events struct {
	TripActivated   Topic[TripActivated]
	RouteCalculated Topic[RouteCalculated]
	PlaceAdded      Topic[PlaceAdded]
	PlacesUpdated   Topic[PlacesUpdated]
	TripSaved       Topic[TripSaved]
	TripDeleted     Topic[TripDeleted]
}

// NewEvents は空のイベント集合を作成する
func NewEvents() *Events {
	return &Events{}
}
