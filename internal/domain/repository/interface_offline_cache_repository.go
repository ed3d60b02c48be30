package repository

import (
	"MapMarker-App/internal/domain/model"
	"context"
	"errors"
)

// ErrSnapshotNotFound はオフラインスナップショットが保存されていない場合のエラー
var ErrSnapshotNotFound = errors.New("オフラインスナップショットが見つかりません")

// OfflineCacheRepository はオフライン表示用スナップショットの保存・取得を担う
type OfflineCacheRepository interface {
	SaveSnapshot(ctx context.Context, snapshot *model.OfflineSnapshot) error
	LoadLatest(ctx context.Context) (*model.OfflineSnapshot, error)
}
