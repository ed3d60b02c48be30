package repository

import (
	"MapMarker-App/internal/domain/model"
	"MapMarker-App/internal/infrastructure/cache"
	"MapMarker-App/internal/infrastructure/firestore"
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *model.OfflineSnapshot {
	return &model.OfflineSnapshot{
		Entities: []model.OfflineEntity{
			{ID: "r-1", Name: "先斗町の割烹", Coordinates: model.GeoPoint{Lat: 35.0055, Lng: 135.7712}, Category: "和食", District: "中京区", Rating: 4.6},
			{ID: "r-2", Name: "祇園のうどん", Coordinates: model.GeoPoint{Lat: 35.0037, Lng: 135.7751}, Category: "うどん", District: "東山区", Rating: 4.1},
		},
		SavedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestRedisOfflineCacheRepository(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDRが設定されていません。統合テストをスキップします。")
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	ctx := context.Background()
	client, err := cache.NewRedisClient(ctx, addr, db)
	require.NoError(t, err)
	defer client.Close()

	repo := NewRedisOfflineCacheRepository(client, time.Minute)
	snapshot := testSnapshot()
	require.NoError(t, repo.SaveSnapshot(ctx, snapshot))

	loaded, err := repo.LoadLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Entities, loaded.Entities)
	assert.True(t, snapshot.SavedAt.Equal(loaded.SavedAt))
}

func TestFirestoreOfflineCacheRepository(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_IDが設定されていません。統合テストをスキップします。")
	}

	ctx := context.Background()
	fsClient, err := firestore.NewFirestoreClient(ctx, projectID, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	require.NoError(t, err)
	defer fsClient.Close()

	repo := NewFirestoreOfflineCacheRepository(fsClient.GetClient(), model.OfflineSnapshotMaxAge)
	snapshot := testSnapshot()
	require.NoError(t, repo.SaveSnapshot(ctx, snapshot))

	loaded, err := repo.LoadLatest(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Entities, len(snapshot.Entities))
	assert.False(t, loaded.IsStale(time.Now(), model.OfflineSnapshotMaxAge))
}
