package model

import (
	"encoding/json"
	"time"
)

// OptimizedMarker 最適化後に描画対象となるマーカー
type OptimizedMarker struct {
	ID          string     `json:"id"`
	Entity      *MapEntity `json:"entity"`
	Priority    float64    `json:"priority"`
	IsVisible   bool       `json:"is_visible"`
	Clustered   bool       `json:"clustered"`
	ClusterSize *int       `json:"cluster_size,omitempty"`
}

// ClusterBounds クラスタ構成メンバーの外接矩形
type ClusterBounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// ClusterData 近接するスポットをまとめたクラスタ
type ClusterData struct {
	ID       string        `json:"id"`
	Count    int           `json:"count"`
	Members  []*MapEntity  `json:"members"`
	Centroid GeoPoint      `json:"centroid"`
	Bounds   ClusterBounds `json:"bounds"`
}

// PerformanceStats 直近の最適化処理の統計
type PerformanceStats struct {
	TotalMarkers       int           `json:"total_markers"`
	VisibleMarkers     int           `json:"visible_markers"`
	ClusteredMarkers   int           `json:"clustered_markers"`
	ClusterCount       int           `json:"cluster_count"`
	AverageClusterSize float64       `json:"average_cluster_size"`
	RenderTime         time.Duration `json:"-"`
	LastUpdate         time.Time     `json:"last_update"`
}

// RenderTimeMillis 処理時間をミリ秒で返す
func (s PerformanceStats) RenderTimeMillis() float64 {
	return float64(s.RenderTime) / float64(time.Millisecond)
}

// MarshalJSON render_time をミリ秒で出力する
func (s PerformanceStats) MarshalJSON() ([]byte, error) {
	type alias PerformanceStats
	return json.Marshal(struct {
		alias
		RenderTimeMs float64 `json:"render_time_ms"`
	}{
		alias:        alias(s),
		RenderTimeMs: s.RenderTimeMillis(),
	})
}

// OptimizationResult 1回の最適化パスの出力
type OptimizationResult struct {
	Markers     []OptimizedMarker `json:"markers"`
	Clusters    []ClusterData     `json:"clusters"`
	Stats       PerformanceStats  `json:"performance_stats"`
	Virtualized bool              `json:"virtualized"`
}
