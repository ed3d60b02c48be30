package config

import (
	"MapMarker-App/internal/domain/model"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "markers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadOptimizationConfig(t *testing.T) {
	t.Run("ファイルがなければデフォルト", func(t *testing.T) {
		cfg, err := LoadOptimizationConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, model.DefaultOptimizationConfig(), cfg)
	})

	t.Run("一部の項目のみ上書き", func(t *testing.T) {
		path := writeConfig(t, `
optimization:
  max_visible_markers: 200
  enable_clustering: false
  debug_mode: true
`)
		cfg, err := LoadOptimizationConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 200, cfg.MaxVisibleMarkers)
		assert.False(t, cfg.EnableClustering)
		assert.True(t, cfg.DebugMode)
		assert.Equal(t, model.DefaultClusteringDistance, cfg.ClusteringDistance)
		assert.Equal(t, model.DefaultClusteringMinCount, cfg.ClusteringMinCount)
	})

	t.Run("不正なYAML", func(t *testing.T) {
		path := writeConfig(t, "optimization: [unclosed")
		_, err := LoadOptimizationConfig(path)
		assert.Error(t, err)
	})

	t.Run("範囲外の値", func(t *testing.T) {
		path := writeConfig(t, `
optimization:
  clustering_min_count: 0
`)
		_, err := LoadOptimizationConfig(path)
		assert.ErrorContains(t, err, "clustering_min_count")
	})
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENTITY_SOURCE", "supabase")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("OFFLINE_SNAPSHOT_LIMIT", "abc")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, EntitySourceSupabase, cfg.EntitySource)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 100, cfg.OfflineSnapshotLimit)
}
