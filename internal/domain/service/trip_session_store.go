package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"TripPlanner-App/internal/domain/event"
	"TripPlanner-App/internal/domain/helper"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// セッションストレージのキー
const (
	CurrentTripKey = "currentTripId"

	tripKeyPrefix    = "trip_"
	tripDataSuffix   = "_data"
	tripRouteSuffix  = "_route"
	tripPlacesSuffix = "_places"
	legacyTripKey    = "tripData"
	legacyRouteKey   = "routeData"
	legacyPlacesKey  = "placesData"
)

var legacyKeys = []string{legacyTripKey, legacyRouteKey, legacyPlacesKey}

// TripDataKey はトリップ本体のキー
func TripDataKey(identity string) string { return tripKeyPrefix + identity + tripDataSuffix }

// TripRouteKey は経路要約のキー
func TripRouteKey(identity string) string { return tripKeyPrefix + identity + tripRouteSuffix }

// TripPlacesKey はプレイスキャッシュのキー
func TripPlacesKey(identity string) string { return tripKeyPrefix + identity + tripPlacesSuffix }

// TripSessionStore は1クライアントセッション分のトリップ状態をトリップIDごとに区画化して保持する
// 呼び出し側 (プレゼンテーション層) がセッションごとにインスタンスを保持し、すべての操作に明示的に渡す
type TripSessionStore struct {
	storage repository.KeyValueStore
	events  *event.Events
}

// NewTripSessionStore は新しいTripSessionStoreを作成する。events は nil でもよい
func NewTripSessionStore(storage repository.KeyValueStore, events *event.Events) *TripSessionStore {
	return &TripSessionStore{
		storage: storage,
		events:  events,
	}
}

// ActiveIdentity は現在アクティブなトリップIDを返す。未設定の場合は空文字
func (s *TripSessionStore) ActiveIdentity(ctx context.Context) (string, error) {
	identity, ok, err := s.storage.GetItem(ctx, CurrentTripKey)
	if err != nil {
		return "", fmt.Errorf("アクティブなトリップIDの取得に失敗: %w", err)
	}
	if !ok {
		return "", nil
	}
	return identity, nil
}

// SetActiveTrip はプレイス参照からトリップIDを算出してトリップを保存し、そのIDをアクティブにする
func (s *TripSessionStore) SetActiveTrip(ctx context.Context, record *model.TripRecord) error {
	if record == nil {
		return fmt.Errorf("トリップが指定されていません")
	}

	identity := helper.ComputeIdentity(record.FromPlaceRef, record.ToPlaceRef)
	stored := record.Clone()
	stored.Identity = identity

	if err := s.writeJSON(ctx, TripDataKey(identity), stored); err != nil {
		log.Printf("❌ トリップの保存に失敗 (ID: %s): %v", identity, err)
		return err
	}
	if err := s.storage.SetItem(ctx, CurrentTripKey, identity); err != nil {
		log.Printf("❌ アクティブなトリップIDの保存に失敗 (ID: %s): %v", identity, err)
		return fmt.Errorf("アクティブなトリップIDの保存に失敗: %w", err)
	}
	record.Identity = identity

	log.Printf("✅ トリップをアクティブ化: %s (%s → %s)", identity, stored.From, stored.To)
	if s.events != nil {
		s.events.TripActivated.Publish(event.TripActivated{Identity: identity, Trip: stored.Clone()})
	}
	return nil
}

// GetActiveTrip はアクティブなトリップを返す。アクティブなIDがない、または本体がない場合は nil
func (s *TripSessionStore) GetActiveTrip(ctx context.Context) (*model.TripRecord, error) {
	identity, err := s.ActiveIdentity(ctx)
	if err != nil || identity == "" {
		return nil, err
	}

	var record model.TripRecord
	found, err := s.readJSON(ctx, TripDataKey(identity), &record)
	if err != nil || !found {
		return nil, err
	}
	return &record, nil
}

// UpdateActiveTrip はアクティブなトリップを上書きする。アクティブなトリップがなければ何も変更しない
func (s *TripSessionStore) UpdateActiveTrip(ctx context.Context, record *model.TripRecord) error {
	if record == nil {
		return fmt.Errorf("トリップが指定されていません")
	}
	identity, err := s.requireActive(ctx)
	if err != nil {
		return err
	}

	stored := record.Clone()
	stored.Identity = identity
	if err := s.writeJSON(ctx, TripDataKey(identity), stored); err != nil {
		log.Printf("❌ トリップの更新に失敗 (ID: %s): %v", identity, err)
		return err
	}
	return nil
}

// SetRouteSummary はアクティブなトリップの経路要約を上書きする
func (s *TripSessionStore) SetRouteSummary(ctx context.Context, summary *model.RouteSummary) error {
	if summary == nil {
		return fmt.Errorf("経路が指定されていません")
	}
	identity, err := s.requireActive(ctx)
	if err != nil {
		return err
	}

	if err := s.writeJSON(ctx, TripRouteKey(identity), summary); err != nil {
		log.Printf("❌ 経路の保存に失敗 (ID: %s): %v", identity, err)
		return err
	}
	if s.events != nil {
		route := *summary
		s.events.RouteCalculated.Publish(event.RouteCalculated{Identity: identity, Route: &route})
	}
	return nil
}

// GetRouteSummary はアクティブなトリップの経路要約を返す。ない場合は nil
func (s *TripSessionStore) GetRouteSummary(ctx context.Context) (*model.RouteSummary, error) {
	identity, err := s.ActiveIdentity(ctx)
	if err != nil || identity == "" {
		return nil, err
	}

	var summary model.RouteSummary
	found, err := s.readJSON(ctx, TripRouteKey(identity), &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

// SetPlacesCache はアクティブなトリップのプレイスキャッシュを置き換える
func (s *TripSessionStore) SetPlacesCache(ctx context.Context, places []model.PlaceResult) error {
	return s.storePlaces(ctx, places, true)
}

// MergePlacesCache は既存のプレイスキャッシュに検索結果を和集合として追加する
func (s *TripSessionStore) MergePlacesCache(ctx context.Context, places []model.PlaceResult) error {
	existing, err := s.GetPlacesCache(ctx)
	if err != nil {
		return err
	}
	return s.storePlaces(ctx, helper.MergePlaces(existing, places), false)
}

func (s *TripSessionStore) storePlaces(ctx context.Context, places []model.PlaceResult, replaced bool) error {
	identity, err := s.requireActive(ctx)
	if err != nil {
		return err
	}
	if places == nil {
		places = []model.PlaceResult{}
	}

	if err := s.writeJSON(ctx, TripPlacesKey(identity), places); err != nil {
		log.Printf("❌ プレイスキャッシュの保存に失敗 (ID: %s): %v", identity, err)
		return err
	}
	if s.events != nil {
		s.events.PlacesUpdated.Publish(event.PlacesUpdated{Identity: identity, Places: places, Replaced: replaced})
	}
	return nil
}

// GetPlacesCache はアクティブなトリップのプレイスキャッシュを返す。ない場合は nil
func (s *TripSessionStore) GetPlacesCache(ctx context.Context) ([]model.PlaceResult, error) {
	identity, err := s.ActiveIdentity(ctx)
	if err != nil || identity == "" {
		return nil, err
	}

	var places []model.PlaceResult
	found, err := s.readJSON(ctx, TripPlacesKey(identity), &places)
	if err != nil || !found {
		return nil, err
	}
	return places, nil
}

// AddPlaceToTrip はアクティブなトリップにスポットを追加する
// 表示名と住所が一致するスポットが既にあれば追加せず false を返す
// 読み込みと書き込みの間はロックしないため、同一セッションで同時に呼ばれると更新が失われうる
func (s *TripSessionStore) AddPlaceToTrip(ctx context.Context, place model.TripPlace) (bool, error) {
	record, err := s.GetActiveTrip(ctx)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, model.ErrNoActiveTrip
	}

	if !record.AddPlace(place) {
		log.Printf("ℹ️ 既に追加済みのスポットです: %s", place.DisplayName)
		return false, nil
	}
	if err := s.UpdateActiveTrip(ctx, record); err != nil {
		return false, err
	}

	if s.events != nil {
		s.events.PlaceAdded.Publish(event.PlaceAdded{Identity: record.Identity, Place: place})
	}
	return true, nil
}

// ActivateSnapshot は保存済み・共有トリップを新しいアクティブトリップとして展開する
// 経路とキャッシュの区画を先に書き込み、アクティブなトリップIDは最後に切り替える
// スナップショットに経路やキャッシュがない場合、そのトリップIDの既存データは削除する
func (s *TripSessionStore) ActivateSnapshot(ctx context.Context, record *model.TripRecord, route *model.RouteSummary, places []model.PlaceResult) error {
	if record == nil {
		return fmt.Errorf("トリップが指定されていません")
	}
	identity := helper.ComputeIdentity(record.FromPlaceRef, record.ToPlaceRef)

	if route != nil {
		if err := s.writeJSON(ctx, TripRouteKey(identity), route); err != nil {
			log.Printf("❌ 経路の保存に失敗 (ID: %s): %v", identity, err)
			return err
		}
	} else if err := s.storage.RemoveItem(ctx, TripRouteKey(identity)); err != nil {
		return fmt.Errorf("古い経路の削除に失敗: %w", err)
	}

	if places != nil {
		if err := s.writeJSON(ctx, TripPlacesKey(identity), places); err != nil {
			log.Printf("❌ プレイスキャッシュの保存に失敗 (ID: %s): %v", identity, err)
			return err
		}
	} else if err := s.storage.RemoveItem(ctx, TripPlacesKey(identity)); err != nil {
		return fmt.Errorf("古いプレイスキャッシュの削除に失敗: %w", err)
	}

	if err := s.SetActiveTrip(ctx, record); err != nil {
		return err
	}

	if s.events != nil {
		if route != nil {
			copied := *route
			s.events.RouteCalculated.Publish(event.RouteCalculated{Identity: identity, Route: &copied})
		}
		if places != nil {
			s.events.PlacesUpdated.Publish(event.PlacesUpdated{Identity: identity, Places: places, Replaced: true})
		}
	}
	return nil
}

// PurgeInactive はアクティブなトリップ以外の区画と旧形式のキーをすべて削除する
// アクティブなトリップがない場合はすべてのトリップ区画が対象になる
func (s *TripSessionStore) PurgeInactive(ctx context.Context) error {
	identity, err := s.ActiveIdentity(ctx)
	if err != nil {
		return err
	}

	keys, err := s.storage.Keys(ctx)
	if err != nil {
		return fmt.Errorf("キー一覧の取得に失敗: %w", err)
	}

	activePrefix := ""
	if identity != "" {
		activePrefix = tripKeyPrefix + identity + "_"
	}

	removed := 0
	for _, key := range keys {
		if !isTripPartitionKey(key) && !isLegacyKey(key) {
			continue
		}
		if activePrefix != "" && strings.HasPrefix(key, activePrefix) {
			continue
		}
		if err := s.storage.RemoveItem(ctx, key); err != nil {
			log.Printf("⚠️ キー %s の削除に失敗: %v", key, err)
			return fmt.Errorf("キー %s の削除に失敗: %w", key, err)
		}
		removed++
	}

	if removed > 0 {
		log.Printf("🧹 非アクティブなトリップデータを削除: %d件", removed)
	}
	return nil
}

// HasActiveTrip はアクティブなトリップが存在し、出発地・目的地の参照が両方あるか
func (s *TripSessionStore) HasActiveTrip(ctx context.Context) bool {
	record, err := s.GetActiveTrip(ctx)
	if err != nil {
		log.Printf("⚠️ アクティブなトリップの確認に失敗: %v", err)
		return false
	}
	return record != nil && record.HasPlaceRefs()
}

// Snapshot はアクティブなトリップ・経路・キャッシュをまとめて返す
func (s *TripSessionStore) Snapshot(ctx context.Context) (*model.SharedTrip, error) {
	record, err := s.GetActiveTrip(ctx)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, model.ErrNoActiveTrip
	}
	route, err := s.GetRouteSummary(ctx)
	if err != nil {
		return nil, err
	}
	places, err := s.GetPlacesCache(ctx)
	if err != nil {
		return nil, err
	}
	return &model.SharedTrip{Trip: record, Route: route, Places: places}, nil
}

func (s *TripSessionStore) requireActive(ctx context.Context) (string, error) {
	identity, err := s.ActiveIdentity(ctx)
	if err != nil {
		return "", err
	}
	if identity == "" {
		return "", model.ErrNoActiveTrip
	}
	return identity, nil
}

func (s *TripSessionStore) writeJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s のJSONマーシャル失敗: %w", key, err)
	}
	if err := s.storage.SetItem(ctx, key, string(data)); err != nil {
		return fmt.Errorf("%s の書き込みに失敗: %w", key, err)
	}
	return nil
}

func (s *TripSessionStore) readJSON(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := s.storage.GetItem(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%s の読み込みに失敗: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("%s のJSONアンマーシャル失敗: %w", key, err)
	}
	return true, nil
}

func isTripPartitionKey(key string) bool {
	if !strings.HasPrefix(key, tripKeyPrefix) {
		return false
	}
	return strings.HasSuffix(key, tripDataSuffix) ||
		strings.HasSuffix(key, tripRouteSuffix) ||
		strings.HasSuffix(key, tripPlacesSuffix)
}

func isLegacyKey(key string) bool {
	for _, k := range legacyKeys {
		if key == k {
			return true
		}
	}
	return false
}
