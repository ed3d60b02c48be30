package config

import (
	"MapMarker-App/internal/domain/model"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// markerConfigFile YAMLファイルの構造
type markerConfigFile struct {
	Optimization model.OptimizationConfig `yaml:"optimization"`
}

// LoadOptimizationConfig はYAMLファイルからマーカー最適化設定を読み込む
// ファイルが存在しない場合はデフォルト設定を返す。記載のない項目はデフォルト値のまま
func LoadOptimizationConfig(path string) (model.OptimizationConfig, error) {
	defaults := model.DefaultOptimizationConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("reading marker config file: %w", err)
	}

	file := markerConfigFile{Optimization: defaults}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return defaults, fmt.Errorf("parsing marker config YAML: %w", err)
	}

	if err := ValidateOptimizationConfig(file.Optimization); err != nil {
		return defaults, err
	}
	return file.Optimization, nil
}

// ValidateOptimizationConfig は設定値の範囲を検証する
func ValidateOptimizationConfig(cfg model.OptimizationConfig) error {
	if cfg.MaxVisibleMarkers < 0 {
		return fmt.Errorf("optimization.max_visible_markers must be >= 0")
	}
	if cfg.ClusteringDistance < 0 {
		return fmt.Errorf("optimization.clustering_distance must be >= 0")
	}
	if cfg.ClusteringMinCount < 1 {
		return fmt.Errorf("optimization.clustering_min_count must be >= 1")
	}
	if cfg.VirtualizationThreshold < 0 {
		return fmt.Errorf("optimization.virtualization_threshold must be >= 0")
	}
	return nil
}
