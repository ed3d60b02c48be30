package repository

import (
	"MapMarker-App/internal/domain/model"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
)

// GeoJSONPoint PostGIS POINT 型の JSON 表現
type GeoJSONPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// ParseGeoJSONPoint ST_AsGeoJSON の結果を model.GeoPoint に変換
func ParseGeoJSONPoint(raw string) (model.GeoPoint, error) {
	var g GeoJSONPoint
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return model.GeoPoint{}, fmt.Errorf("location JSONパースエラー: %w", err)
	}
	if g.Type != "Point" || len(g.Coordinates) < 2 {
		return model.GeoPoint{}, fmt.Errorf("POINT形式ではありません: %s", raw)
	}
	// orb.Point として解析（GeoJSONでは [lng, lat]）
	return model.GeoPointFromOrb(orb.Point{g.Coordinates[0], g.Coordinates[1]}), nil
}

// boundsToEnvelope 表示範囲を ST_MakeEnvelope の引数順 (xmin, ymin, xmax, ymax) に変換
func boundsToEnvelope(bounds *model.ViewportBounds) []interface{} {
	b := bounds.ToOrbBound()
	return []interface{}{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}
}
