package service

import (
	"MapMarker-App/internal/domain/model"
	"math"
	"sort"
)

const (
	ratingWeight        = 10.0
	reviewCountDivisor  = 10.0
	maxReviewCountScore = 50.0
)

// CalculatePriority はエンティティの表示優先度を計算する
// priority = (rating*10 + min(reviewCount/10, 50)) * 価格帯倍率
func CalculatePriority(entity *model.MapEntity) float64 {
	if entity == nil {
		return 0
	}
	rating := math.Max(entity.GetRating(), 0)
	reviews := math.Max(float64(entity.GetReviewCount()), 0)

	priority := rating*ratingWeight + math.Min(reviews/reviewCountDivisor, maxReviewCountScore)
	priority *= model.GetPriceMultiplier(entity.GetPriceRange())

	if math.IsNaN(priority) || priority < 0 {
		return 0
	}
	return priority
}

// RankEntities は優先度を計算し、優先度の高い順に並べたマーカーを返す
// 同じ優先度の場合は入力順を保つ
func RankEntities(entities []*model.MapEntity) []model.OptimizedMarker {
	markers := make([]model.OptimizedMarker, 0, len(entities))
	for _, e := range entities {
		markers = append(markers, model.OptimizedMarker{
			ID:        e.ID,
			Entity:    e,
			Priority:  CalculatePriority(e),
			IsVisible: true,
			Clustered: false,
		})
	}
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Priority > markers[j].Priority
	})
	return markers
}

// LimitVisible は優先度順に並べて最大表示件数で切り詰める
// maxVisible が0以下の場合は何も表示しない
func LimitVisible(entities []*model.MapEntity, maxVisible int) []model.OptimizedMarker {
	if maxVisible <= 0 {
		return []model.OptimizedMarker{}
	}
	ranked := RankEntities(entities)
	if len(ranked) > maxVisible {
		ranked = ranked[:maxVisible]
	}
	return ranked
}
