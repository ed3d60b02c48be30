package model

import (
	"github.com/paulmach/orb"
)

// EntityKind 地図上に表示するスポットの種別
type EntityKind string

const (
	EntityKindRestaurant EntityKind = "restaurant"
	EntityKindParking    EntityKind = "parking"
	EntityKindToilet     EntityKind = "toilet"
)

// GeoPoint 緯度経度の組
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat" firestore:"lat"`
	Lng float64 `json:"lng" yaml:"lng" firestore:"lng"`
}

// ToOrbPoint orb.Point ([lng, lat]) に変換
func (p GeoPoint) ToOrbPoint() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// GeoPointFromOrb orb.Point から GeoPoint を作成
func GeoPointFromOrb(point orb.Point) GeoPoint {
	return GeoPoint{Lat: point.Lat(), Lng: point.Lon()}
}

// MapEntity 地図に表示するスポット（飲食店・駐車場・トイレなど）
// エンジンは入力エンティティを変更しない
type MapEntity struct {
	ID          string     `json:"id" db:"id"`                               // ユニークなスポットID
	Name        string     `json:"name" db:"name"`                           // スポット名
	Kind        EntityKind `json:"kind,omitempty" db:"kind"`                 // 種別
	Category    string     `json:"category,omitempty" db:"category"`         // 料理ジャンル・施設カテゴリ
	District    string     `json:"district,omitempty" db:"district"`         // 地区名
	Coordinates GeoPoint   `json:"coordinates" db:"coordinates"`             // 位置情報
	Rating      *float64   `json:"rating,omitempty" db:"rating"`             // 評価値 (0-5, NULLABLE)
	ReviewCount *int       `json:"review_count,omitempty" db:"review_count"` // レビュー件数 (NULLABLE)
	PriceRange  *string    `json:"price_range,omitempty" db:"price_range"`   // 価格帯 (NULLABLE)
}

// GetRating 評価値が存在する場合は値を、存在しない場合は0を返す
func (e *MapEntity) GetRating() float64 {
	if e.Rating != nil {
		return *e.Rating
	}
	return 0
}

// GetReviewCount レビュー件数が存在する場合は値を、存在しない場合は0を返す
func (e *MapEntity) GetReviewCount() int {
	if e.ReviewCount != nil {
		return *e.ReviewCount
	}
	return 0
}

// GetPriceRange 価格帯が存在する場合は値を、存在しない場合は空文字列を返す
func (e *MapEntity) GetPriceRange() string {
	if e.PriceRange != nil {
		return *e.PriceRange
	}
	return ""
}

// ViewportBounds 現在の地図表示範囲
type ViewportBounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
	Zoom  int     `json:"zoom"` // 0 (世界全体) 〜 21 (建物レベル)
}

// ToOrbBound orb.Bound に変換
func (b *ViewportBounds) ToOrbBound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.West, b.South},
		Max: orb.Point{b.East, b.North},
	}
}
