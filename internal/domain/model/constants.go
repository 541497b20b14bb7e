package model

// CategoryConstants はルート沿いのスポット検索で使用するカテゴリの定数
const (
	CategoryRestaurant = "restaurant"
	CategoryCafe       = "cafe"
	CategoryGasStation = "gas_station"
	CategoryLodging    = "lodging"
	CategoryAttraction = "tourist_attraction"
	CategoryPark       = "park"
	CategoryMuseum     = "museum"
	CategoryEVCharging = "electric_vehicle_charging_station"
)

// CategoryQueryMap はカテゴリIDからテキスト検索クエリへのマッピング
var CategoryQueryMap = map[string]string{
	CategoryRestaurant: "restaurants",
	CategoryCafe:       "coffee shops",
	CategoryGasStation: "gas stations",
	CategoryLodging:    "hotels",
	CategoryAttraction: "tourist attractions",
	CategoryPark:       "parks",
	CategoryMuseum:     "museums",
	CategoryEVCharging: "EV charging stations",
}

// GetCategoryQuery はカテゴリIDから検索クエリを取得する
func GetCategoryQuery(category string) string {
	if q, ok := CategoryQueryMap[category]; ok {
		return q
	}
	return category // 未知のカテゴリはそのままクエリとして使う
}

// GetAllCategories は全カテゴリの一覧を取得する
func GetAllCategories() []string {
	return []string{
		CategoryRestaurant,
		CategoryCafe,
		CategoryGasStation,
		CategoryLodging,
		CategoryAttraction,
		CategoryPark,
		CategoryMuseum,
		CategoryEVCharging,
	}
}
