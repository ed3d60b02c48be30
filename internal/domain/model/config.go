package model

// 最適化設定のデフォルト値
const (
	DefaultMaxVisibleMarkers       = 500
	DefaultClusteringDistance      = 50.0
	DefaultClusteringMinCount      = 2
	DefaultVirtualizationThreshold = 1000
	DefaultClusterZoom             = 10
	MaxZoom                        = 21
)

// OptimizationConfig マーカー最適化の設定
// 値として扱い、変更したい場合は新しい値を作って次の呼び出しに渡す
type OptimizationConfig struct {
	MaxVisibleMarkers       int     `json:"max_visible_markers" yaml:"max_visible_markers"`
	ClusteringDistance      float64 `json:"clustering_distance" yaml:"clustering_distance"`
	ClusteringMinCount      int     `json:"clustering_min_count" yaml:"clustering_min_count"`
	EnableClustering        bool    `json:"enable_clustering" yaml:"enable_clustering"`
	VirtualizationThreshold int     `json:"virtualization_threshold" yaml:"virtualization_threshold"`
	DebugMode               bool    `json:"debug_mode" yaml:"debug_mode"`
}

// DefaultOptimizationConfig デフォルト設定を返す
func DefaultOptimizationConfig() OptimizationConfig {
	return OptimizationConfig{
		MaxVisibleMarkers:       DefaultMaxVisibleMarkers,
		ClusteringDistance:      DefaultClusteringDistance,
		ClusteringMinCount:      DefaultClusteringMinCount,
		EnableClustering:        true,
		VirtualizationThreshold: DefaultVirtualizationThreshold,
	}
}

// OptimizationConfigPatch リクエストで部分的に上書きする設定
// nil のフィールドはベース設定の値を使う
type OptimizationConfigPatch struct {
	MaxVisibleMarkers       *int     `json:"max_visible_markers"`
	ClusteringDistance      *float64 `json:"clustering_distance"`
	ClusteringMinCount      *int     `json:"clustering_min_count"`
	EnableClustering        *bool    `json:"enable_clustering"`
	VirtualizationThreshold *int     `json:"virtualization_threshold"`
	DebugMode               *bool    `json:"debug_mode"`
}

// ApplyTo ベース設定に上書きを適用した新しい設定を返す
func (p *OptimizationConfigPatch) ApplyTo(base OptimizationConfig) OptimizationConfig {
	if p == nil {
		return base
	}
	cfg := base
	if p.MaxVisibleMarkers != nil {
		cfg.MaxVisibleMarkers = *p.MaxVisibleMarkers
	}
	if p.ClusteringDistance != nil {
		cfg.ClusteringDistance = *p.ClusteringDistance
	}
	if p.ClusteringMinCount != nil {
		cfg.ClusteringMinCount = *p.ClusteringMinCount
	}
	if p.EnableClustering != nil {
		cfg.EnableClustering = *p.EnableClustering
	}
	if p.VirtualizationThreshold != nil {
		cfg.VirtualizationThreshold = *p.VirtualizationThreshold
	}
	if p.DebugMode != nil {
		cfg.DebugMode = *p.DebugMode
	}
	return cfg
}
