package helper

import (
	"TripPlanner-App/internal/domain/model"
)

// MergePlaces は既存のキャッシュに新しい検索結果を和集合として追加する
// 既存の順序を保ち、新規分は末尾に追加する
func MergePlaces(existing, incoming []model.PlaceResult) []model.PlaceResult {
	merged := make([]model.PlaceResult, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, list := range [][]model.PlaceResult{existing, incoming} {
		for _, p := range list {
			key := p.CacheKey()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}

// TagCategory は検索結果すべてにカテゴリを付与する
func TagCategory(places []model.PlaceResult, category string) []model.PlaceResult {
	tagged := make([]model.PlaceResult, len(places))
	for i, p := range places {
		p.Category = category
		tagged[i] = p
	}
	return tagged
}

// FilterWithinBounds は領域外のスポットを除外する。位置情報のないスポットは残す
func FilterWithinBounds(places []model.PlaceResult, bounds *model.Bounds) []model.PlaceResult {
	if bounds == nil {
		return places
	}
	bound := BoundsToBound(bounds)

	var filtered []model.PlaceResult
	for _, p := range places {
		if p.Location != nil && !bound.Contains(LatLngToPoint(*p.Location)) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// PlaceResultToTripPlace は検索結果をトリップに追加する形式へ変換する
func PlaceResultToTripPlace(p model.PlaceResult) model.TripPlace {
	place := model.TripPlace{
		DisplayName:      p.DisplayName,
		FormattedAddress: p.FormattedAddress,
		Category:         p.Category,
	}
	if p.Location != nil {
		loc := *p.Location
		place.Location = &loc
	}
	return place
}
