package helper

import (
	"MapMarker-App/internal/domain/model"
	"math"
)

const (
	earthRadiusKm = 6371.0
	// tileSize はWebメルカトルのタイル1枚のピクセル数
	tileSize = 256.0
)

// IsValidCoordinates は緯度経度が有限かつ範囲内かを判定する（境界値は有効）
func IsValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// FilterValidEntities は座標が不正なエンティティを除外する
func FilterValidEntities(entities []*model.MapEntity) []*model.MapEntity {
	valid := make([]*model.MapEntity, 0, len(entities))
	for _, e := range entities {
		if e == nil {
			continue
		}
		if IsValidCoordinates(e.Coordinates.Lat, e.Coordinates.Lng) {
			valid = append(valid, e)
		}
	}
	return valid
}

// FilterByViewport は表示範囲内のエンティティのみを抽出する
// bounds が nil の場合はそのまま返す。日付変更線をまたぐ範囲には対応しない
func FilterByViewport(entities []*model.MapEntity, bounds *model.ViewportBounds) []*model.MapEntity {
	if bounds == nil {
		return entities
	}
	bound := bounds.ToOrbBound()
	var filtered []*model.MapEntity
	for _, e := range entities {
		if bound.Contains(e.Coordinates.ToOrbPoint()) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// HaversineDistance は2地点間の距離を計算する (km)
func HaversineDistance(p1, p2 model.GeoPoint) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// CalculateDistance は2地点間の距離を計算する (m)
func CalculateDistance(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineDistance(
		model.GeoPoint{Lat: lat1, Lng: lng1},
		model.GeoPoint{Lat: lat2, Lng: lng2},
	) * 1000
}

// PixelsPerDegree はズームレベルにおける1度あたりのピクセル数
func PixelsPerDegree(zoom int) float64 {
	return tileSize * math.Pow(2, float64(zoom)) / 360
}

// PixelDistance はズームレベルにおける画面上のおおよその距離 (px)
// 経度方向の補正は p1 の緯度のみを使うため、引数の順序で値がわずかに変わる
func PixelDistance(p1, p2 model.GeoPoint, zoom int) float64 {
	ppd := PixelsPerDegree(zoom)
	dLatPx := math.Abs(p1.Lat-p2.Lat) * ppd
	dLngPx := math.Abs(p1.Lng-p2.Lng) * ppd * math.Cos(p1.Lat*math.Pi/180)
	return math.Sqrt(dLatPx*dLatPx + dLngPx*dLngPx)
}

// FilterByCategory は指定されたカテゴリのエンティティのみを抽出する
// カテゴリが空の場合はそのまま返す
func FilterByCategory(entities []*model.MapEntity, categories []string) []*model.MapEntity {
	if len(categories) == 0 {
		return entities
	}
	catSet := make(map[string]struct{})
	for _, c := range categories {
		catSet[c] = struct{}{}
	}
	var filtered []*model.MapEntity
	for _, e := range entities {
		if e == nil {
			continue
		}
		if _, ok := catSet[e.Category]; ok {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
