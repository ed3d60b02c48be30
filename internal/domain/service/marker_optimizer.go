package service

import (
	"MapMarker-App/internal/domain/helper"
	"MapMarker-App/internal/domain/model"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// MarkerOptimizer は地図マーカーの検証・表示範囲絞り込み・優先度付け・クラスタリングを行う
// 毎回入力から再計算し、呼び出しをまたいで保持するのは直近の統計のみ
type MarkerOptimizer struct {
	mu    sync.RWMutex
	stats model.PerformanceStats
	now   func() time.Time
}

// NewMarkerOptimizer は新しいMarkerOptimizerインスタンスを作成
func NewMarkerOptimizer() *MarkerOptimizer {
	return &MarkerOptimizer{now: time.Now}
}

// Optimize はエンティティ一覧から描画用のマーカーとクラスタを計算する
// 不正な座標のエンティティは除外され、件数は TotalMarkers にのみ含まれる
func (o *MarkerOptimizer) Optimize(entities []*model.MapEntity, bounds *model.ViewportBounds, cfg model.OptimizationConfig) *model.OptimizationResult {
	start := o.now()

	valid := helper.FilterValidEntities(entities)
	inView := helper.FilterByViewport(valid, bounds)
	visible := LimitVisible(inView, cfg.MaxVisibleMarkers)

	markers := visible
	clusters := make([]model.ClusterData, 0)
	if cfg.EnableClustering && len(visible) > 0 {
		markers, clusters = applyClustering(visible, cfg, clusterZoom(bounds))
	}

	stats := buildStats(len(entities), len(visible), clusters)
	stats.LastUpdate = o.now()
	stats.RenderTime = stats.LastUpdate.Sub(start)
	o.setStats(stats)

	if cfg.DebugMode {
		log.Printf("🗺️ マーカー最適化: 入力%d件 → 有効%d件 → 範囲内%d件 → 表示%d件 (マーカー%d, クラスタ%d), %.2fms [%s]",
			len(entities), len(valid), len(inView), len(visible), len(markers), len(clusters), stats.RenderTimeMillis(),
			summarizeKinds(visible))
	}

	return &model.OptimizationResult{
		Markers:     markers,
		Clusters:    clusters,
		Stats:       stats,
		Virtualized: len(entities) > cfg.VirtualizationThreshold,
	}
}

// Stats は直近の最適化の統計を返す
func (o *MarkerOptimizer) Stats() model.PerformanceStats {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.stats
}

// ResetOptimization は統計をゼロに戻す。次回の Optimize で上書きされる
func (o *MarkerOptimizer) ResetOptimization() {
	o.setStats(model.PerformanceStats{})
}

func (o *MarkerOptimizer) setStats(stats model.PerformanceStats) {
	o.mu.Lock()
	o.stats = stats
	o.mu.Unlock()
}

// clusterZoom は表示範囲のズーム、範囲がなければデフォルトのズームを返す
func clusterZoom(bounds *model.ViewportBounds) int {
	if bounds == nil {
		return model.DefaultClusterZoom
	}
	return bounds.Zoom
}

// applyClustering は表示マーカーをクラスタリングし、最小件数に満たないクラスタは単独マーカーに戻す
func applyClustering(visible []model.OptimizedMarker, cfg model.OptimizationConfig, zoom int) ([]model.OptimizedMarker, []model.ClusterData) {
	entities := make([]*model.MapEntity, len(visible))
	for i, m := range visible {
		entities[i] = m.Entity
	}

	clusters := make([]model.ClusterData, 0)
	clustered := make(map[*model.MapEntity]struct{})
	for _, c := range GenerateClusters(entities, cfg.ClusteringDistance, zoom) {
		if c.Count < cfg.ClusteringMinCount {
			continue
		}
		clusters = append(clusters, c)
		for _, member := range c.Members {
			clustered[member] = struct{}{}
		}
	}

	standalone := make([]model.OptimizedMarker, 0, len(visible)-len(clustered))
	for _, m := range visible {
		if _, ok := clustered[m.Entity]; ok {
			continue
		}
		standalone = append(standalone, m)
	}
	return standalone, clusters
}

// buildStats はクラスタ結果から統計を集計する
func buildStats(total, visible int, clusters []model.ClusterData) model.PerformanceStats {
	clusteredMarkers := 0
	for _, c := range clusters {
		clusteredMarkers += c.Count
	}
	average := 0.0
	if len(clusters) > 0 {
		average = float64(clusteredMarkers) / float64(len(clusters))
	}
	return model.PerformanceStats{
		TotalMarkers:       total,
		VisibleMarkers:     visible,
		ClusteredMarkers:   clusteredMarkers,
		ClusterCount:       len(clusters),
		AverageClusterSize: average,
	}
}

// summarizeKinds は表示マーカーの種別ごとの件数を「飲食店:3 駐車場:1」の形式で返す
// 種別が未指定または未定義のものは「その他」にまとめる
func summarizeKinds(visible []model.OptimizedMarker) string {
	counts := make(map[model.EntityKind]int)
	others := 0
	for _, m := range visible {
		if _, ok := model.EntityKindNameMap[m.Entity.Kind]; ok {
			counts[m.Entity.Kind]++
		} else {
			others++
		}
	}

	var parts []string
	for _, kind := range model.GetAllEntityKinds() {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", model.GetEntityKindJapaneseName(kind), n))
		}
	}
	if others > 0 {
		parts = append(parts, fmt.Sprintf("その他:%d", others))
	}
	return strings.Join(parts, " ")
}
