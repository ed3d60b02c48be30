package service

import (
	"MapMarker-App/internal/domain/helper"
	"MapMarker-App/internal/domain/model"
	"fmt"

	"github.com/paulmach/orb"
)

// AdjustedClusterDistance はズームレベルに応じたクラスタ判定距離 (px) を返す
// ズーム21で0（クラスタリングしない）、ズーム0で基準距離そのものになる
func AdjustedClusterDistance(clusterDistance float64, zoom int) float64 {
	return clusterDistance * float64(model.MaxZoom-zoom) / float64(model.MaxZoom)
}

// GenerateClusters は貪欲法で近接するエンティティをクラスタにまとめる
// 未処理のエンティティを入力順にシードとし、シードから閾値未満の未処理エンティティを取り込む。
// メンバー1件のクラスタも返すので、最小件数での絞り込みは呼び出し側で行う
func GenerateClusters(entities []*model.MapEntity, clusterDistance float64, zoom int) []model.ClusterData {
	clusters := make([]model.ClusterData, 0)
	if len(entities) == 0 {
		return clusters
	}

	threshold := AdjustedClusterDistance(clusterDistance, zoom)
	processed := make([]bool, len(entities))

	for i, seed := range entities {
		if processed[i] || seed == nil {
			continue
		}
		processed[i] = true
		members := []*model.MapEntity{seed}

		// i より前は全て処理済みなので後方のみ走査すればよい
		for j := i + 1; j < len(entities); j++ {
			candidate := entities[j]
			if processed[j] || candidate == nil {
				continue
			}
			if helper.PixelDistance(seed.Coordinates, candidate.Coordinates, zoom) < threshold {
				members = append(members, candidate)
				processed[j] = true
			}
		}

		clusters = append(clusters, buildCluster(seed, members))
	}

	return clusters
}

// GenerateClustersWithDefaults はデフォルトの距離とズームでクラスタを生成する
func GenerateClustersWithDefaults(entities []*model.MapEntity) []model.ClusterData {
	return GenerateClusters(entities, model.DefaultClusteringDistance, model.DefaultClusterZoom)
}

// buildCluster はメンバーから重心と外接矩形を計算してクラスタを構築する
func buildCluster(seed *model.MapEntity, members []*model.MapEntity) model.ClusterData {
	points := make(orb.MultiPoint, 0, len(members))
	var sumLat, sumLng float64
	for _, m := range members {
		sumLat += m.Coordinates.Lat
		sumLng += m.Coordinates.Lng
		points = append(points, m.Coordinates.ToOrbPoint())
	}
	count := len(members)
	bound := points.Bound()

	return model.ClusterData{
		ID:      fmt.Sprintf("cluster-%s-%d", seed.ID, count),
		Count:   count,
		Members: members,
		Centroid: model.GeoPoint{
			Lat: sumLat / float64(count),
			Lng: sumLng / float64(count),
		},
		Bounds: model.ClusterBounds{
			North: bound.Top(),
			South: bound.Bottom(),
			East:  bound.Right(),
			West:  bound.Left(),
		},
	}
}
