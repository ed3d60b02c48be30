package repository

import (
	"MapMarker-App/internal/domain/model"
	"MapMarker-App/internal/domain/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const offlineSnapshotKey = "markers:offline:latest"

// RedisOfflineCacheRepository Redisを使用したオフライン表示用キャッシュリポジトリ
type RedisOfflineCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisOfflineCacheRepository 新しいRedisOfflineCacheRepositoryインスタンスを作成
func NewRedisOfflineCacheRepository(client *redis.Client, ttl time.Duration) repository.OfflineCacheRepository {
	return &RedisOfflineCacheRepository{
		client: client,
		ttl:    ttl,
	}
}

// SaveSnapshot は最新スナップショットをJSONで上書き保存する
func (r *RedisOfflineCacheRepository) SaveSnapshot(ctx context.Context, snapshot *model.OfflineSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("オフラインスナップショットのJSON変換に失敗: %w", err)
	}

	if err := r.client.Set(ctx, offlineSnapshotKey, payload, r.ttl).Err(); err != nil {
		log.Printf("❌ Redis Set error for offline snapshot: %v", err)
		return fmt.Errorf("オフラインスナップショットの保存に失敗しました: %w", err)
	}

	log.Printf("✅ Offline snapshot saved to Redis (%d entities)", len(snapshot.Entities))
	return nil
}

// LoadLatest は最新スナップショットを取得する
func (r *RedisOfflineCacheRepository) LoadLatest(ctx context.Context) (*model.OfflineSnapshot, error) {
	payload, err := r.client.Get(ctx, offlineSnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("オフラインスナップショットの取得に失敗しました: %w", err)
	}

	var snapshot model.OfflineSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("オフラインスナップショットのJSONパースに失敗: %w", err)
	}
	return &snapshot, nil
}
