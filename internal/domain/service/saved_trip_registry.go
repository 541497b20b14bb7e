package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"TripPlanner-App/internal/domain/event"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// SavedTripsKey 永続ストレージ上の保存済みトリップ一覧のキー
const SavedTripsKey = "savedTrips"

// SavedTripRegistry はユーザーが名前を付けて保存したトリップの一覧を管理する
// セッションのトリップ区画とは独立しており、操作対象のセッションは呼び出し側が渡す
type SavedTripRegistry interface {
	// Save はアクティブなトリップ一式を新しいスナップショットとして末尾に追加する
	Save(ctx context.Context, session *TripSessionStore, name, description string) (*model.SavedTripSnapshot, error)

	// Update は既存スナップショットの内容をアクティブなトリップで置き換える (ID と保存日時は維持)
	Update(ctx context.Context, session *TripSessionStore, id, name, description string) (*model.SavedTripSnapshot, error)

	// List は保存順の一覧を返す
	List(ctx context.Context) ([]model.SavedTripSnapshot, error)

	// Get は指定IDのスナップショットを返す。ない場合は nil
	Get(ctx context.Context, id string) (*model.SavedTripSnapshot, error)

	// Delete は指定IDのスナップショットを削除する。存在しないIDでも成功とする
	Delete(ctx context.Context, id string) error

	// LoadIntoActive はスナップショットのコピーをセッションのアクティブなトリップとして展開する
	LoadIntoActive(ctx context.Context, session *TripSessionStore, id string) (*model.SavedTripSnapshot, error)
}

type savedTripRegistry struct {
	storage repository.KeyValueStore
	events  *event.Events
	now     func() time.Time
	newID   func() string
}

// NewSavedTripRegistry は新しいSavedTripRegistryインスタンスを作成
func NewSavedTripRegistry(storage repository.KeyValueStore, events *event.Events) SavedTripRegistry {
	return &savedTripRegistry{
		storage: storage,
		events:  events,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
}

func (r *savedTripRegistry) Save(ctx context.Context, session *TripSessionStore, name, description string) (*model.SavedTripSnapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrInvalidTripName
	}

	current, err := session.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	snapshots, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := model.SavedTripSnapshot{
		ID:          r.newID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		SavedAt:     r.now(),
		Trip:        current.Trip,
		Route:       current.Route,
		Places:      current.Places,
	}
	snapshots = append(snapshots, snapshot)

	if err := r.write(ctx, snapshots); err != nil {
		return nil, err
	}

	log.Printf("💾 トリップを保存: %s (ID: %s)", snapshot.Name, snapshot.ID)
	if r.events != nil {
		r.events.TripSaved.Publish(event.TripSaved{Snapshot: &snapshot})
	}
	return &snapshot, nil
}

func (r *savedTripRegistry) Update(ctx context.Context, session *TripSessionStore, id, name, description string) (*model.SavedTripSnapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrInvalidTripName
	}

	snapshots, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfSnapshot(snapshots, id)
	if idx < 0 {
		return nil, fmt.Errorf("ID %s: %w", id, model.ErrSavedTripNotFound)
	}

	current, err := session.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	updated := snapshots[idx]
	updated.Name = name
	updated.Description = strings.TrimSpace(description)
	updated.Trip = current.Trip
	updated.Route = current.Route
	updated.Places = current.Places
	snapshots[idx] = updated

	if err := r.write(ctx, snapshots); err != nil {
		return nil, err
	}

	log.Printf("💾 保存済みトリップを更新: %s (ID: %s)", updated.Name, updated.ID)
	if r.events != nil {
		r.events.TripSaved.Publish(event.TripSaved{Snapshot: &updated, Updated: true})
	}
	return &updated, nil
}

func (r *savedTripRegistry) List(ctx context.Context) ([]model.SavedTripSnapshot, error) {
	data, ok, err := r.storage.GetItem(ctx, SavedTripsKey)
	if err != nil {
		return nil, fmt.Errorf("保存済みトリップの読み込みに失敗: %w", err)
	}
	if !ok || data == "" {
		return []model.SavedTripSnapshot{}, nil
	}

	var snapshots []model.SavedTripSnapshot
	if err := json.Unmarshal([]byte(data), &snapshots); err != nil {
		return nil, fmt.Errorf("保存済みトリップのJSONアンマーシャル失敗: %w", err)
	}
	if snapshots == nil {
		snapshots = []model.SavedTripSnapshot{}
	}
	return snapshots, nil
}

func (r *savedTripRegistry) Get(ctx context.Context, id string) (*model.SavedTripSnapshot, error) {
	snapshots, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfSnapshot(snapshots, id)
	if idx < 0 {
		return nil, nil
	}
	return &snapshots[idx], nil
}

func (r *savedTripRegistry) Delete(ctx context.Context, id string) error {
	snapshots, err := r.List(ctx)
	if err != nil {
		return err
	}
	idx := indexOfSnapshot(snapshots, id)
	if idx < 0 {
		return nil
	}

	snapshots = append(snapshots[:idx], snapshots[idx+1:]...)
	if err := r.write(ctx, snapshots); err != nil {
		return err
	}

	log.Printf("🗑️ 保存済みトリップを削除 (ID: %s)", id)
	if r.events != nil {
		r.events.TripDeleted.Publish(event.TripDeleted{ID: id})
	}
	return nil
}

func (r *savedTripRegistry) LoadIntoActive(ctx context.Context, session *TripSessionStore, id string) (*model.SavedTripSnapshot, error) {
	snapshot, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if snapshot == nil || snapshot.Trip == nil {
		return nil, fmt.Errorf("ID %s: %w", id, model.ErrSavedTripNotFound)
	}

	if err := session.ActivateSnapshot(ctx, snapshot.Trip.Clone(), snapshot.Route, snapshot.Places); err != nil {
		return nil, fmt.Errorf("保存済みトリップの展開に失敗: %w", err)
	}

	log.Printf("📂 保存済みトリップを展開: %s (ID: %s)", snapshot.Name, snapshot.ID)
	return snapshot, nil
}

func (r *savedTripRegistry) write(ctx context.Context, snapshots []model.SavedTripSnapshot) error {
	data, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("保存済みトリップのJSONマーシャル失敗: %w", err)
	}
	if err := r.storage.SetItem(ctx, SavedTripsKey, string(data)); err != nil {
		log.Printf("❌ 保存済みトリップの書き込みに失敗: %v", err)
		return fmt.Errorf("保存済みトリップの書き込みに失敗: %w", err)
	}
	return nil
}

func indexOfSnapshot(snapshots []model.SavedTripSnapshot, id string) int {
	for i, s := range snapshots {
		if s.ID == id {
			return i
		}
	}
	return -1
}
