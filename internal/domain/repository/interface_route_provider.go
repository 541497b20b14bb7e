package repository

import (
	"TripPlanner-App/internal/domain/model"
	"context"
)

// RouteProvider は外部の経路計算サービス
type RouteProvider interface {
	// ComputeRoute は出発地から目的地まで、経由地を順に通る経路を計算する
	ComputeRoute(ctx context.Context, req model.RouteRequest) (*model.RouteSummary, error)
}
