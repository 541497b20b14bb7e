package repository

import (
	"context"

	"TripPlanner-App/internal/domain/model"
)

// PlacesProvider は外部のプレイス検索サービス
type PlacesProvider interface {
	// SearchText はテキストクエリでスポットを検索する。bias が nil の場合は領域指定なし
	SearchText(ctx context.Context, query string, bias *model.Bounds, maxResults int) ([]model.PlaceResult, error)
}
