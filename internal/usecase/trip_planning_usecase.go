package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"TripPlanner-App/internal/domain/helper"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/domain/service"
)

type TripPlanningUseCase interface {
	// StartTrip は新しいトリップを開始し、古いトリップ区画を掃除して初期ルートを計算する
	StartTrip(ctx context.Context, session *service.TripSessionStore, req *model.StartTripRequest) (*model.TripRecord, *model.RouteSummary, error)

	// AddPlace はスポットをトリップに追加し、経由地として経路を再計算する
	AddPlace(ctx context.Context, session *service.TripSessionStore, place model.TripPlace) (*model.AddPlaceResult, error)

	// AddCachedPlace はプレイスキャッシュ内の検索結果をトリップに追加する
	AddCachedPlace(ctx context.Context, session *service.TripSessionStore, placeRef string) (*model.AddPlaceResult, error)

	// SearchCategories はカテゴリごとにルート周辺を検索し、キャッシュに追加する
	SearchCategories(ctx context.Context, session *service.TripSessionStore, categories []string) ([]model.PlaceResult, error)

	// CustomSearch は自由入力で検索し、キャッシュを置き換える
	CustomSearch(ctx context.Context, session *service.TripSessionStore, query string) ([]model.PlaceResult, error)

	// RecalculateRoute はアクティブなトリップの経路を再計算して保存する
	RecalculateRoute(ctx context.Context, session *service.TripSessionStore) (*model.RouteSummary, error)
}

// tripPlanningUseCaseImpl はTripPlanningUseCaseの実装
type tripPlanningUseCaseImpl struct {
	routeProvider     repository.RouteProvider
	placesProvider    repository.PlacesProvider
	placeSearchHelper *helper.PlaceSearchHelper
	now               func() time.Time
}

// NewTripPlanningUseCase は新しいTripPlanningUseCaseインスタンスを作成
func NewTripPlanningUseCase(routeProvider repository.RouteProvider, placesProvider repository.PlacesProvider) TripPlanningUseCase {
	return &tripPlanningUseCaseImpl{
		routeProvider:     routeProvider,
		placesProvider:    placesProvider,
		placeSearchHelper: helper.NewPlaceSearchHelper(placesProvider),
		now:               func() time.Time { return time.Now().UTC() },
	}
}

func (u *tripPlanningUseCaseImpl) StartTrip(ctx context.Context, session *service.TripSessionStore, req *model.StartTripRequest) (*model.TripRecord, *model.RouteSummary, error) {
	if req == nil || req.FromPlaceRef == "" || req.ToPlaceRef == "" {
		return nil, nil, fmt.Errorf("出発地と目的地は必須です")
	}
	log.Printf("🚀 トリップ開始: %s → %s", req.From, req.To)

	record := &model.TripRecord{
		From:         req.From,
		To:           req.To,
		FromPlaceRef: req.FromPlaceRef,
		ToPlaceRef:   req.ToPlaceRef,
		Places:       []model.TripPlace{},
	}

	// Step 1: アクティブ化
	if err := session.SetActiveTrip(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("トリップの開始に失敗: %w", err)
	}

	// Step 2: 以前のトリップ区画を掃除
	if err := session.PurgeInactive(ctx); err != nil {
		log.Printf("⚠️ 古いトリップデータの削除に失敗: %v", err)
	}

	// Step 3: 初期ルートを計算 (失敗してもトリップ開始自体は成功とする)
	route, err := u.RecalculateRoute(ctx, session)
	if err != nil {
		log.Printf("⚠️ 初期ルートの計算に失敗: %v", err)
		return record, nil, nil
	}
	return record, route, nil
}

func (u *tripPlanningUseCaseImpl) AddPlace(ctx context.Context, session *service.TripSessionStore, place model.TripPlace) (*model.AddPlaceResult, error) {
	if strings.TrimSpace(place.DisplayName) == "" {
		return nil, fmt.Errorf("スポット名は必須です")
	}
	if place.AddedAt.IsZero() {
		place.AddedAt = u.now()
	}

	added, err := session.AddPlaceToTrip(ctx, place)
	if err != nil {
		return nil, err
	}

	result := &model.AddPlaceResult{Added: added}
	if added {
		log.Printf("📍 スポットを追加: %s", place.DisplayName)
		route, err := u.RecalculateRoute(ctx, session)
		if err != nil {
			log.Printf("⚠️ スポット追加後のルート再計算に失敗: %v", err)
		}
		result.Route = route
	} else {
		result.Route, err = session.GetRouteSummary(ctx)
		if err != nil {
			return nil, err
		}
	}

	result.Trip, err = session.GetActiveTrip(ctx)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (u *tripPlanningUseCaseImpl) AddCachedPlace(ctx context.Context, session *service.TripSessionStore, placeRef string) (*model.AddPlaceResult, error) {
	if !session.HasActiveTrip(ctx) {
		return nil, model.ErrNoActiveTrip
	}
	cached, err := session.GetPlacesCache(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range cached {
		if p.PlaceRef == placeRef {
			return u.AddPlace(ctx, session, helper.PlaceResultToTripPlace(p))
		}
	}
	return nil, fmt.Errorf("スポットID %s: %w", placeRef, model.ErrPlaceNotCached)
}

func (u *tripPlanningUseCaseImpl) SearchCategories(ctx context.Context, session *service.TripSessionStore, categories []string) ([]model.PlaceResult, error) {
	if len(categories) == 0 {
		categories = model.GetAllCategories()
	}
	bias, err := u.searchBounds(ctx, session)
	if err != nil {
		return nil, err
	}

	log.Printf("🔍 カテゴリ検索開始: %v", categories)
	found := u.placeSearchHelper.SearchCategories(ctx, categories, bias)

	if err := session.MergePlacesCache(ctx, found); err != nil {
		return nil, fmt.Errorf("プレイスキャッシュの更新に失敗: %w", err)
	}
	log.Printf("✅ カテゴリ検索完了: %d件", len(found))
	return session.GetPlacesCache(ctx)
}

func (u *tripPlanningUseCaseImpl) CustomSearch(ctx context.Context, session *service.TripSessionStore, query string) ([]model.PlaceResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("検索クエリは必須です")
	}
	bias, err := u.searchBounds(ctx, session)
	if err != nil {
		return nil, err
	}

	log.Printf("🔍 自由入力検索: %s", query)
	places, err := u.placesProvider.SearchText(ctx, query, bias, helper.DefaultMaxResultsPerCategory)
	if err != nil {
		return nil, fmt.Errorf("スポット検索に失敗: %w", err)
	}
	places = helper.TagCategory(places, model.CustomSearchCategory)

	if err := session.SetPlacesCache(ctx, places); err != nil {
		return nil, fmt.Errorf("プレイスキャッシュの更新に失敗: %w", err)
	}
	return places, nil
}

func (u *tripPlanningUseCaseImpl) RecalculateRoute(ctx context.Context, session *service.TripSessionStore) (*model.RouteSummary, error) {
	record, err := session.GetActiveTrip(ctx)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, model.ErrNoActiveTrip
	}

	route, err := u.routeProvider.ComputeRoute(ctx, model.RouteRequest{
		OriginPlaceRef:      record.FromPlaceRef,
		DestinationPlaceRef: record.ToPlaceRef,
		Intermediates:       record.Waypoints(),
	})
	if err != nil {
		return nil, fmt.Errorf("ルート計算に失敗: %w", err)
	}

	if err := session.SetRouteSummary(ctx, route); err != nil {
		return nil, fmt.Errorf("ルートの保存に失敗: %w", err)
	}
	log.Printf("🗺️ ルート計算完了: %dm, %s秒", route.DistanceMeters, route.Duration)
	return route, nil
}

// searchBounds はアクティブなトリップのルート周辺の検索領域を返す。ルート未計算なら nil
func (u *tripPlanningUseCaseImpl) searchBounds(ctx context.Context, session *service.TripSessionStore) (*model.Bounds, error) {
	if !session.HasActiveTrip(ctx) {
		return nil, model.ErrNoActiveTrip
	}
	route, err := session.GetRouteSummary(ctx)
	if err != nil {
		return nil, err
	}
	bounds, err := helper.RouteSearchBounds(route, helper.DefaultSearchPadding)
	if err != nil {
		log.Printf("⚠️ 検索領域の算出に失敗、領域指定なしで検索します: %v", err)
		return nil, nil
	}
	return bounds, nil
}
