package usecase

import (
	"MapMarker-App/internal/domain/helper"
	"MapMarker-App/internal/domain/model"
	"MapMarker-App/internal/domain/repository"
	"MapMarker-App/internal/domain/service"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const offlineSnapshotWriteTimeout = 10 * time.Second

type MarkerUseCase interface {
	// OptimizeMarkers はスポットを取得・最適化し、描画用のマーカーとクラスタを返す
	OptimizeMarkers(ctx context.Context, req *model.OptimizeMarkersRequest) (*model.OptimizeMarkersResponse, error)

	// GetStats は直近の最適化の統計を返す
	GetStats() model.PerformanceStats

	// ResetStats は統計をリセットする。次回の最適化で再計算される
	ResetStats()
}

// markerUseCaseImpl はMarkerUseCaseの実装
type markerUseCaseImpl struct {
	optimizer     *service.MarkerOptimizer
	entitiesRepo  repository.EntitiesRepository
	offlineCache  repository.OfflineCacheRepository
	baseConfig    model.OptimizationConfig
	snapshotLimit int
	now           func() time.Time

	mu       sync.Mutex
	hasLast  bool
	lastHash uint64
	last     *model.OptimizeMarkersResponse

	// バックグラウンドのスナップショット書き込み（テストで待ち合わせに使う）
	pending sync.WaitGroup
}

// NewMarkerUseCase は新しいMarkerUseCaseインスタンスを作成
// entitiesRepo と offlineCache は nil でもよい
func NewMarkerUseCase(
	optimizer *service.MarkerOptimizer,
	entitiesRepo repository.EntitiesRepository,
	offlineCache repository.OfflineCacheRepository,
	baseConfig model.OptimizationConfig,
	snapshotLimit int,
) MarkerUseCase {
	return newMarkerUseCase(optimizer, entitiesRepo, offlineCache, baseConfig, snapshotLimit)
}

func newMarkerUseCase(
	optimizer *service.MarkerOptimizer,
	entitiesRepo repository.EntitiesRepository,
	offlineCache repository.OfflineCacheRepository,
	baseConfig model.OptimizationConfig,
	snapshotLimit int,
) *markerUseCaseImpl {
	return &markerUseCaseImpl{
		optimizer:     optimizer,
		entitiesRepo:  entitiesRepo,
		offlineCache:  offlineCache,
		baseConfig:    baseConfig,
		snapshotLimit: snapshotLimit,
		now:           time.Now,
	}
}

// OptimizeMarkers はスポットを取得・最適化し、描画用のマーカーとクラスタを返す
func (u *markerUseCaseImpl) OptimizeMarkers(ctx context.Context, req *model.OptimizeMarkersRequest) (*model.OptimizeMarkersResponse, error) {
	entities, source, err := u.resolveEntities(ctx, req)
	if err != nil {
		return nil, err
	}

	cfg := req.Config.ApplyTo(u.baseConfig)
	hash := hashOptimizationInput(entities, req.Bounds, cfg)

	u.mu.Lock()
	if u.hasLast && u.lastHash == hash && u.last.Source == source {
		cached := u.last
		u.mu.Unlock()
		if cfg.DebugMode {
			log.Printf("♻️ 入力が前回と同じため再計算をスキップ (ID: %s)", cached.ComputationID)
		}
		return cached, nil
	}
	u.mu.Unlock()

	computationID := uuid.New().String()
	if cfg.DebugMode {
		log.Printf("🚀 マーカー最適化開始 (ID: %s, 取得元: %s, %d件)", computationID, source, len(entities))
	}

	result := u.optimizer.Optimize(entities, req.Bounds, cfg)
	response := &model.OptimizeMarkersResponse{
		ComputationID:      computationID,
		Source:             source,
		OptimizationResult: result,
	}

	u.mu.Lock()
	u.hasLast = true
	u.lastHash = hash
	u.last = response
	u.mu.Unlock()

	// クライアント指定のスポットはキャッシュしない
	if source == model.EntitySourceDatabase {
		u.saveSnapshotAsync()
	}

	return response, nil
}

// GetStats は直近の最適化の統計を返す
func (u *markerUseCaseImpl) GetStats() model.PerformanceStats {
	return u.optimizer.Stats()
}

// ResetStats は統計と前回結果のキャッシュを破棄する
func (u *markerUseCaseImpl) ResetStats() {
	u.mu.Lock()
	u.hasLast = false
	u.last = nil
	u.mu.Unlock()
	u.optimizer.ResetOptimization()
}

// resolveEntities はリクエスト → データベース → オフラインキャッシュの順にスポットを取得する
func (u *markerUseCaseImpl) resolveEntities(ctx context.Context, req *model.OptimizeMarkersRequest) ([]*model.MapEntity, string, error) {
	if req.Entities != nil {
		return helper.FilterByCategory(req.Entities, req.Categories), model.EntitySourceRequest, nil
	}

	var sourceErr error
	if u.entitiesRepo != nil {
		entities, err := u.entitiesRepo.FindByCategories(ctx, req.Categories, req.Bounds)
		if err == nil {
			return entities, model.EntitySourceDatabase, nil
		}
		sourceErr = err
		log.Printf("⚠️ スポット取得に失敗、オフラインキャッシュを使用: %v", err)
	} else {
		sourceErr = repository.ErrEntitySourceUnavailable
	}

	entities, err := u.loadOfflineEntities(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("スポットを取得できません: %w", errors.Join(sourceErr, err))
	}
	return helper.FilterByCategory(entities, req.Categories), model.EntitySourceOfflineCache, nil
}

// loadOfflineEntities は有効期限内のオフラインスナップショットを読み込む
func (u *markerUseCaseImpl) loadOfflineEntities(ctx context.Context) ([]*model.MapEntity, error) {
	if u.offlineCache == nil {
		return nil, repository.ErrSnapshotNotFound
	}
	snapshot, err := u.offlineCache.LoadLatest(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.IsStale(u.now(), model.OfflineSnapshotMaxAge) {
		return nil, fmt.Errorf("%w: %s に保存されたスナップショットは有効期限切れです",
			repository.ErrSnapshotNotFound, snapshot.SavedAt.Format(time.RFC3339))
	}
	log.Printf("📦 オフラインスナップショットを使用 (%d件, 保存: %s)", len(snapshot.Entities), snapshot.SavedAt.Format(time.RFC3339))
	return snapshot.ToMapEntities(), nil
}

// saveSnapshotAsync は全スポットを取得し、優先度順のスナップショットをバックグラウンドで保存する
// 表示範囲やカテゴリに依存しないよう FindAll の結果を使う。失敗はログに残すのみ
func (u *markerUseCaseImpl) saveSnapshotAsync() {
	if u.offlineCache == nil || u.entitiesRepo == nil {
		return
	}
	savedAt := u.now()

	u.pending.Add(1)
	go func() {
		defer u.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), offlineSnapshotWriteTimeout)
		defer cancel()

		entities, err := u.entitiesRepo.FindAll(ctx)
		if err != nil {
			log.Printf("⚠️ スナップショット用のスポット取得に失敗: %v", err)
			return
		}
		if len(entities) == 0 {
			return
		}

		snapshot := BuildOfflineSnapshot(entities, u.snapshotLimit, savedAt)
		if err := u.offlineCache.SaveSnapshot(ctx, snapshot); err != nil {
			log.Printf("⚠️ オフラインスナップショットの保存に失敗: %v", err)
		}
	}()
}

// BuildOfflineSnapshot は有効なスポットを優先度順に並べ、上位 limit 件をオフライン用に射影する
func BuildOfflineSnapshot(entities []*model.MapEntity, limit int, savedAt time.Time) *model.OfflineSnapshot {
	ranked := service.LimitVisible(helper.FilterValidEntities(entities), limit)

	offline := make([]model.OfflineEntity, 0, len(ranked))
	for _, m := range ranked {
		offline = append(offline, model.OfflineEntity{
			ID:          m.Entity.ID,
			Name:        m.Entity.Name,
			Coordinates: m.Entity.Coordinates,
			Category:    m.Entity.Category,
			District:    m.Entity.District,
			Rating:      m.Entity.GetRating(),
		})
	}
	return &model.OfflineSnapshot{
		Entities: offline,
		SavedAt:  savedAt,
	}
}
