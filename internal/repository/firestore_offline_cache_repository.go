package repository

import (
	"MapMarker-App/internal/domain/model"
	"MapMarker-App/internal/domain/repository"
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
)

const offlineSnapshotCollection = "offlineMarkerSnapshots"

// FirestoreOfflineCacheRepository Firestoreを使用したオフライン表示用キャッシュリポジトリ
type FirestoreOfflineCacheRepository struct {
	client *firestore.Client
	ttl    time.Duration
}

// NewFirestoreOfflineCacheRepository 新しいFirestoreOfflineCacheRepositoryインスタンスを作成
func NewFirestoreOfflineCacheRepository(client *firestore.Client, ttl time.Duration) repository.OfflineCacheRepository {
	return &FirestoreOfflineCacheRepository{
		client: client,
		ttl:    ttl,
	}
}

// SaveSnapshot はスナップショットを保存時刻(ミリ秒)をドキュメントIDとして保存する
func (r *FirestoreOfflineCacheRepository) SaveSnapshot(ctx context.Context, snapshot *model.OfflineSnapshot) error {
	docID := strconv.FormatInt(snapshot.SavedAt.UnixMilli(), 10)

	_, err := r.client.Collection(offlineSnapshotCollection).Doc(docID).Set(ctx, snapshot.ToFirestoreOfflineSnapshot(r.ttl))
	if err != nil {
		log.Printf("❌ Failed to save offline snapshot %s: %v", docID, err)
		return fmt.Errorf("オフラインスナップショットの保存に失敗しました: %w", err)
	}

	log.Printf("✅ Offline snapshot saved: %s (%d entities, expires in %v)", docID, len(snapshot.Entities), r.ttl)
	return nil
}

// LoadLatest は最も新しいスナップショットを取得する
func (r *FirestoreOfflineCacheRepository) LoadLatest(ctx context.Context) (*model.OfflineSnapshot, error) {
	docs, err := r.client.Collection(offlineSnapshotCollection).
		OrderBy("savedAt", firestore.Desc).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("オフラインスナップショットの取得に失敗しました: %w", err)
	}
	if len(docs) == 0 {
		return nil, repository.ErrSnapshotNotFound
	}

	var data model.FirestoreOfflineSnapshot
	if err := docs[0].DataTo(&data); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	log.Printf("✅ Offline snapshot retrieved: %s", docs[0].Ref.ID)
	return data.ToOfflineSnapshot(), nil
}
