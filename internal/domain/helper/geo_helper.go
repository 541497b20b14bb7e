package helper

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"

	"TripPlanner-App/internal/domain/model"
)

// DefaultSearchPadding 検索領域の余白 (度、約5.5km)
const DefaultSearchPadding = 0.05

// LatLngToPoint model.LatLng を orb.Point ([lng, lat]) に変換
func LatLngToPoint(ll model.LatLng) orb.Point {
	return orb.Point{ll.Lng, ll.Lat}
}

// PointToLatLng orb.Point を model.LatLng に変換
func PointToLatLng(p orb.Point) model.LatLng {
	return model.LatLng{Lat: p.Lat(), Lng: p.Lon()}
}

// DecodeRoutePath はエンコード済みポリラインを座標列に復元する
func DecodeRoutePath(encoded string) (orb.LineString, error) {
	if encoded == "" {
		return nil, nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("ポリラインのデコードに失敗: %w", err)
	}

	// polyline は [lat, lng] 順
	path := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		path = append(path, orb.Point{c[1], c[0]})
	}
	return path, nil
}

// RouteSearchBounds ルートのポリラインと経由地を覆う矩形を padding 度だけ広げて返す
// 座標が1つもない場合は nil を返す
func RouteSearchBounds(route *model.RouteSummary, padding float64) (*model.Bounds, error) {
	if route == nil {
		return nil, nil
	}

	path, err := DecodeRoutePath(route.Polyline.EncodedPolyline)
	if err != nil {
		return nil, err
	}

	points := orb.MultiPoint(path)
	for _, wp := range route.Waypoints {
		points = append(points, LatLngToPoint(wp))
	}
	if len(points) == 0 {
		return nil, nil
	}

	bound := points.Bound().Pad(padding)
	return BoundToBounds(bound), nil
}

// BoundToBounds orb.Bound を検索用の model.Bounds に変換
func BoundToBounds(b orb.Bound) *model.Bounds {
	return &model.Bounds{
		Low:  PointToLatLng(b.Min),
		High: PointToLatLng(b.Max),
	}
}

// BoundsToBound model.Bounds を orb.Bound に変換
func BoundsToBound(b *model.Bounds) orb.Bound {
	return orb.Bound{
		Min: LatLngToPoint(b.Low),
		Max: LatLngToPoint(b.High),
	}
}
