package repository

import (
	"MapMarker-App/internal/domain/model"
	"context"
	"errors"
)

// ErrEntitySourceUnavailable はスポットの取得元に接続できない場合のエラー
var ErrEntitySourceUnavailable = errors.New("スポットの取得元に接続できません")

// EntitiesRepository は地図に表示するスポットの取得を担うリポジトリインターフェース
type EntitiesRepository interface {
	FindAll(ctx context.Context) ([]*model.MapEntity, error)
	FindInBounds(ctx context.Context, bounds *model.ViewportBounds) ([]*model.MapEntity, error)
	// bounds が nil の場合は範囲で絞り込まない
	FindByCategories(ctx context.Context, categories []string, bounds *model.ViewportBounds) ([]*model.MapEntity, error)
}
