package helper

import (
	"context"
	"log"
	"sync"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// DefaultMaxResultsPerCategory カテゴリごとの最大取得件数
const DefaultMaxResultsPerCategory = 10

// PlaceSearchHelper はカテゴリ単位のスポット検索に関するヘルパー
type PlaceSearchHelper struct {
	placesProvider repository.PlacesProvider
	maxGoroutines  int
	maxResults     int
}

// NewPlaceSearchHelper は新しいPlaceSearchHelperインスタンスを作成する
func NewPlaceSearchHelper(provider repository.PlacesProvider) *PlaceSearchHelper {
	return &PlaceSearchHelper{
		placesProvider: provider,
		maxGoroutines:  4, // 同時実行数を制限
		maxResults:     DefaultMaxResultsPerCategory,
	}
}

// SearchCategory は1カテゴリ分を検索し、結果にカテゴリを付与して領域外を除外する
func (h *PlaceSearchHelper) SearchCategory(ctx context.Context, category string, bias *model.Bounds) ([]model.PlaceResult, error) {
	places, err := h.placesProvider.SearchText(ctx, model.GetCategoryQuery(category), bias, h.maxResults)
	if err != nil {
		return nil, err
	}
	return FilterWithinBounds(TagCategory(places, category), bias), nil
}

// SearchCategories は複数カテゴリを並行で検索し、カテゴリの指定順に連結して返す
// 失敗したカテゴリはログに残してスキップする
func (h *PlaceSearchHelper) SearchCategories(ctx context.Context, categories []string, bias *model.Bounds) []model.PlaceResult {
	results := make([][]model.PlaceResult, len(categories))

	semaphore := make(chan struct{}, h.maxGoroutines)
	var wg sync.WaitGroup

	for i, category := range categories {
		wg.Add(1)
		go func(idx int, cat string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			places, err := h.SearchCategory(ctx, cat, bias)
			if err != nil {
				log.Printf("⚠️ カテゴリ %s の検索に失敗、スキップします: %v", cat, err)
				return
			}
			results[idx] = places
		}(i, category)
	}
	wg.Wait()

	var all []model.PlaceResult
	for _, places := range results {
		all = MergePlaces(all, places)
	}
	return all
}
