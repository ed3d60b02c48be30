package model

// 最適化に使ったスポットの取得元
const (
	EntitySourceRequest      = "request"
	EntitySourceDatabase     = "database"
	EntitySourceOfflineCache = "offline_cache"
)

// OptimizeMarkersRequest マーカー最適化APIのリクエスト
type OptimizeMarkersRequest struct {
	Entities   []*MapEntity             `json:"entities"`   // 省略時はデータベースから取得
	Bounds     *ViewportBounds          `json:"bounds"`     // 省略時は範囲で絞り込まない
	Config     *OptimizationConfigPatch `json:"config"`     // 省略した項目はサーバーの設定値
	Categories []string                 `json:"categories"` // カテゴリで絞り込む場合に指定
}

// OptimizeMarkersResponse マーカー最適化APIのレスポンス
type OptimizeMarkersResponse struct {
	ComputationID string `json:"computation_id"`
	Source        string `json:"source"`
	*OptimizationResult
}
