package usecase

import (
	"MapMarker-App/internal/domain/model"
	"MapMarker-App/internal/domain/repository"
	"MapMarker-App/internal/domain/service"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntitiesRepository struct {
	mu       sync.Mutex
	entities []*model.MapEntity
	all      []*model.MapEntity
	err      error
	calls    int
	allCalls int
	lastCats []string
}

// FindAll は all が設定されていればそれを、なければ entities を返す
func (f *fakeEntitiesRepository) FindAll(ctx context.Context) ([]*model.MapEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allCalls++
	if f.err != nil {
		return nil, f.err
	}
	if f.all != nil {
		return f.all, nil
	}
	return f.entities, nil
}

func (f *fakeEntitiesRepository) FindInBounds(ctx context.Context, bounds *model.ViewportBounds) ([]*model.MapEntity, error) {
	return f.FindByCategories(ctx, nil, bounds)
}

func (f *fakeEntitiesRepository) FindByCategories(ctx context.Context, categories []string, bounds *model.ViewportBounds) ([]*model.MapEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastCats = categories
	if f.err != nil {
		return nil, f.err
	}
	return f.entities, nil
}

type fakeOfflineCache struct {
	mu       sync.Mutex
	snapshot *model.OfflineSnapshot
	saveErr  error
	saved    []*model.OfflineSnapshot
}

func (f *fakeOfflineCache) SaveSnapshot(ctx context.Context, snapshot *model.OfflineSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, snapshot)
	return nil
}

func (f *fakeOfflineCache) LoadLatest(ctx context.Context) (*model.OfflineSnapshot, error) {
	if f.snapshot == nil {
		return nil, repository.ErrSnapshotNotFound
	}
	return f.snapshot, nil
}

func (f *fakeOfflineCache) savedSnapshots() []*model.OfflineSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.OfflineSnapshot(nil), f.saved...)
}

func rated(id string, lat, lng, rating float64) *model.MapEntity {
	return &model.MapEntity{
		ID:          id,
		Name:        "店舗" + id,
		Category:    "ラーメン",
		District:    "左京区",
		Coordinates: model.GeoPoint{Lat: lat, Lng: lng},
		Rating:      &rating,
	}
}

var fixedNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestUseCase(repo repository.EntitiesRepository, cache repository.OfflineCacheRepository) *markerUseCaseImpl {
	u := newMarkerUseCase(service.NewMarkerOptimizer(), repo, cache, model.DefaultOptimizationConfig(), 100)
	u.now = func() time.Time { return fixedNow }
	return u
}

func TestMarkerUseCase_OptimizeMarkers(t *testing.T) {
	ctx := context.Background()

	t.Run("リクエストのスポットを使う", func(t *testing.T) {
		repo := &fakeEntitiesRepository{}
		u := newTestUseCase(repo, nil)

		resp, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{
			Entities: []*model.MapEntity{rated("a", 35.0, 135.0, 4.0), rated("b", 43.0, 141.0, 3.0)},
		})
		require.NoError(t, err)
		assert.Equal(t, model.EntitySourceRequest, resp.Source)
		assert.NotEmpty(t, resp.ComputationID)
		assert.Len(t, resp.Markers, 2)
		assert.Equal(t, 0, repo.calls)
	})

	t.Run("空リストは空の結果", func(t *testing.T) {
		u := newTestUseCase(nil, nil)
		resp, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{Entities: []*model.MapEntity{}})
		require.NoError(t, err)
		assert.Empty(t, resp.Markers)
		assert.Empty(t, resp.Clusters)
	})

	t.Run("データベースから取得して設定を部分上書き", func(t *testing.T) {
		repo := &fakeEntitiesRepository{entities: []*model.MapEntity{
			rated("a", 35.0, 135.0, 3.0),
			rated("b", 35.5, 135.5, 5.0),
			rated("c", 36.0, 136.0, 4.0),
		}}
		u := newTestUseCase(repo, nil)
		limit := 2
		disabled := false

		resp, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{
			Categories: []string{"ラーメン"},
			Config:     &model.OptimizationConfigPatch{MaxVisibleMarkers: &limit, EnableClustering: &disabled},
		})
		require.NoError(t, err)
		assert.Equal(t, model.EntitySourceDatabase, resp.Source)
		assert.Equal(t, []string{"ラーメン"}, repo.lastCats)
		require.Len(t, resp.Markers, 2)
		assert.Equal(t, "b", resp.Markers[0].ID)
		assert.Equal(t, "c", resp.Markers[1].ID)
	})

	t.Run("同じ入力は前回の結果を返す", func(t *testing.T) {
		repo := &fakeEntitiesRepository{entities: []*model.MapEntity{rated("a", 35.0, 135.0, 3.0)}}
		u := newTestUseCase(repo, nil)
		bounds := &model.ViewportBounds{North: 36, South: 34, East: 136, West: 134, Zoom: 12}

		first, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{Bounds: bounds})
		require.NoError(t, err)
		// 値が同じで参照が異なる入力
		sameBounds := *bounds
		repo.entities = []*model.MapEntity{rated("a", 35.0, 135.0, 3.0)}
		second, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{Bounds: &sameBounds})
		require.NoError(t, err)
		assert.Same(t, first, second)

		sameBounds.Zoom = 13
		third, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{Bounds: &sameBounds})
		require.NoError(t, err)
		assert.NotSame(t, first, third)
	})

	t.Run("取得失敗時はオフラインキャッシュを使う", func(t *testing.T) {
		repo := &fakeEntitiesRepository{err: repository.ErrEntitySourceUnavailable}
		cache := &fakeOfflineCache{snapshot: &model.OfflineSnapshot{
			Entities: []model.OfflineEntity{
				{ID: "cached", Name: "キャッシュ店", Coordinates: model.GeoPoint{Lat: 35.0, Lng: 135.0}, Category: "ラーメン", Rating: 4.0},
			},
			SavedAt: fixedNow.Add(-2 * time.Hour),
		}}
		u := newTestUseCase(repo, cache)

		resp, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{})
		require.NoError(t, err)
		assert.Equal(t, model.EntitySourceOfflineCache, resp.Source)
		require.Len(t, resp.Markers, 1)
		assert.Equal(t, "cached", resp.Markers[0].ID)

		u.pending.Wait()
		assert.Empty(t, cache.savedSnapshots(), "キャッシュ由来の結果は書き戻さない")
	})

	t.Run("期限切れのキャッシュは使わない", func(t *testing.T) {
		repo := &fakeEntitiesRepository{err: errors.New("connection refused")}
		cache := &fakeOfflineCache{snapshot: &model.OfflineSnapshot{
			Entities: []model.OfflineEntity{{ID: "old", Coordinates: model.GeoPoint{Lat: 35.0, Lng: 135.0}}},
			SavedAt:  fixedNow.Add(-25 * time.Hour),
		}}
		u := newTestUseCase(repo, cache)

		_, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
	})

	t.Run("取得元もキャッシュもない", func(t *testing.T) {
		u := newTestUseCase(nil, nil)
		_, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrEntitySourceUnavailable)
	})

	t.Run("結果をオフラインキャッシュに非同期で保存", func(t *testing.T) {
		repo := &fakeEntitiesRepository{entities: []*model.MapEntity{
			rated("low", 35.0, 135.0, 2.0),
			rated("high", 35.1, 135.1, 4.5),
		}}
		cache := &fakeOfflineCache{}
		u := newTestUseCase(repo, cache)

		_, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{})
		require.NoError(t, err)
		u.pending.Wait()

		saved := cache.savedSnapshots()
		require.Len(t, saved, 1)
		assert.Equal(t, fixedNow, saved[0].SavedAt)
		require.Len(t, saved[0].Entities, 2)
		assert.Equal(t, "high", saved[0].Entities[0].ID)
	})

	t.Run("スナップショットは絞り込み前の全スポットから作る", func(t *testing.T) {
		repo := &fakeEntitiesRepository{
			entities: []*model.MapEntity{rated("a", 35.0, 135.0, 3.0)},
			all: []*model.MapEntity{
				rated("a", 35.0, 135.0, 3.0),
				rated("b", 43.0, 141.3, 4.8),
				rated("c", 34.7, 135.5, 4.0),
			},
		}
		cache := &fakeOfflineCache{}
		u := newTestUseCase(repo, cache)

		resp, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{Categories: []string{"ラーメン"}})
		require.NoError(t, err)
		assert.Len(t, resp.Markers, 1)
		u.pending.Wait()

		saved := cache.savedSnapshots()
		require.Len(t, saved, 1)
		require.Len(t, saved[0].Entities, 3)
		assert.Equal(t, "b", saved[0].Entities[0].ID)
	})

	t.Run("リクエスト指定のスポットはキャッシュに保存しない", func(t *testing.T) {
		repo := &fakeEntitiesRepository{err: repository.ErrEntitySourceUnavailable}
		cache := &fakeOfflineCache{}
		u := newTestUseCase(repo, cache)

		resp, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{
			Entities: []*model.MapEntity{rated("client-injected", 35.0, 135.0, 5.0)},
		})
		require.NoError(t, err)
		assert.Equal(t, model.EntitySourceRequest, resp.Source)
		u.pending.Wait()
		assert.Empty(t, cache.savedSnapshots())
		assert.Equal(t, 0, repo.allCalls)

		// 取得元が落ちていてもクライアントの入力がフォールバックとして返らない
		_, err = u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
	})

	t.Run("キャッシュ保存の失敗は結果に影響しない", func(t *testing.T) {
		repo := &fakeEntitiesRepository{entities: []*model.MapEntity{rated("a", 35.0, 135.0, 2.0)}}
		cache := &fakeOfflineCache{saveErr: errors.New("quota exceeded")}
		u := newTestUseCase(repo, cache)

		resp, err := u.OptimizeMarkers(ctx, &model.OptimizeMarkersRequest{})
		require.NoError(t, err)
		assert.Len(t, resp.Markers, 1)
		u.pending.Wait()
	})
}

func TestMarkerUseCase_Stats(t *testing.T) {
	ctx := context.Background()
	u := newTestUseCase(nil, nil)
	req := &model.OptimizeMarkersRequest{Entities: []*model.MapEntity{rated("a", 35.0, 135.0, 4.0)}}

	_, err := u.OptimizeMarkers(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, u.GetStats().TotalMarkers)

	u.ResetStats()
	assert.Equal(t, model.PerformanceStats{}, u.GetStats())

	// リセット後は同じ入力でも再計算する
	_, err = u.OptimizeMarkers(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, u.GetStats().TotalMarkers)
}

func TestBuildOfflineSnapshot(t *testing.T) {
	entities := []*model.MapEntity{
		rated("c", 35.0, 135.0, 3.0),
		rated("a", 35.0, 135.0, 5.0),
		nil,
		rated("invalid", 120.0, 135.0, 5.0),
		rated("b", 35.0, 135.0, 4.0),
	}

	snapshot := BuildOfflineSnapshot(entities, 2, fixedNow)

	require.Len(t, snapshot.Entities, 2)
	assert.Equal(t, "a", snapshot.Entities[0].ID)
	assert.Equal(t, "b", snapshot.Entities[1].ID)
	assert.Equal(t, "左京区", snapshot.Entities[0].District)
	assert.Equal(t, 5.0, snapshot.Entities[0].Rating)
	assert.Equal(t, fixedNow, snapshot.SavedAt)
}

func TestHashOptimizationInput(t *testing.T) {
	cfg := model.DefaultOptimizationConfig()
	entities := []*model.MapEntity{rated("a", 35.0, 135.0, 4.0)}

	h1 := hashOptimizationInput(entities, nil, cfg)
	h2 := hashOptimizationInput([]*model.MapEntity{rated("a", 35.0, 135.0, 4.0)}, nil, cfg)
	assert.Equal(t, h1, h2)

	cfg.DebugMode = true
	assert.NotEqual(t, h1, hashOptimizationInput(entities, nil, cfg))

	assert.NotEqual(t, h1, hashOptimizationInput(entities, &model.ViewportBounds{}, model.DefaultOptimizationConfig()))
	assert.NotEqual(t, h1, hashOptimizationInput([]*model.MapEntity{rated("a", 35.0, 135.0, 4.1)}, nil, model.DefaultOptimizationConfig()))
}
