package handler

import (
	"MapMarker-App/internal/domain/helper"
	"MapMarker-App/internal/domain/model"
	"MapMarker-App/internal/domain/repository"
	"MapMarker-App/internal/usecase"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// MarkerHandler はマーカー最適化APIのハンドラー
type MarkerHandler struct {
	markerUseCase usecase.MarkerUseCase
}

// NewMarkerHandler は新しいMarkerHandlerインスタンスを作成
func NewMarkerHandler(markerUseCase usecase.MarkerUseCase) *MarkerHandler {
	return &MarkerHandler{
		markerUseCase: markerUseCase,
	}
}

// PostOptimizeMarkers は表示用のマーカーとクラスタを計算するエンドポイント
// POST /markers/optimize
func (h *MarkerHandler) PostOptimizeMarkers(c *gin.Context) {
	var req model.OptimizeMarkersRequest

	// リクエストボディのバインド
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	// バリデーション
	if err := h.validateRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "バリデーションエラー",
			"details": err.Error(),
		})
		return
	}

	// UseCase呼び出し
	response, err := h.markerUseCase.OptimizeMarkers(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrEntitySourceUnavailable) || errors.Is(err, repository.ErrSnapshotNotFound) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "スポット情報を取得できません",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "マーカーの最適化に失敗しました",
			"details": err.Error(),
		})
		return
	}

	// 成功レスポンス
	c.JSON(http.StatusOK, response)
}

// validateRequest はリクエストの詳細バリデーションを行う
// スポットの座標不正は除外対象なのでここでは検証しない
func (h *MarkerHandler) validateRequest(req *model.OptimizeMarkersRequest) error {
	if b := req.Bounds; b != nil {
		if !helper.IsValidCoordinates(b.North, b.East) || !helper.IsValidCoordinates(b.South, b.West) {
			return &ValidationError{Field: "bounds", Message: "緯度は-90から90、経度は-180から180の範囲で指定してください"}
		}
		if b.South > b.North {
			return &ValidationError{Field: "bounds.south", Message: "southはnorth以下で指定してください"}
		}
		if b.Zoom < 0 || b.Zoom > model.MaxZoom {
			return &ValidationError{Field: "bounds.zoom", Message: "zoomは0から21の範囲で指定してください"}
		}
	}

	for i, e := range req.Entities {
		if err := validateEntity(i, e); err != nil {
			return err
		}
	}

	if cfg := req.Config; cfg != nil {
		if cfg.ClusteringDistance != nil && *cfg.ClusteringDistance < 0 {
			return &ValidationError{Field: "config.clustering_distance", Message: "clustering_distanceは0以上で指定してください"}
		}
		if cfg.ClusteringMinCount != nil && *cfg.ClusteringMinCount < 1 {
			return &ValidationError{Field: "config.clustering_min_count", Message: "clustering_min_countは1以上で指定してください"}
		}
	}

	return nil
}

// validateEntity は種別と価格帯が定義済みの値かを検証する（未指定は可）
func validateEntity(index int, e *model.MapEntity) error {
	if e == nil {
		return nil
	}
	if e.Kind != "" && !slices.Contains(model.GetAllEntityKinds(), e.Kind) {
		return &ValidationError{
			Field:   fmt.Sprintf("entities[%d].kind", index),
			Message: fmt.Sprintf("未定義の種別です: %s", e.Kind),
		}
	}
	if e.PriceRange != nil && !slices.Contains(model.GetAllPriceRanges(), *e.PriceRange) {
		return &ValidationError{
			Field:   fmt.Sprintf("entities[%d].price_range", index),
			Message: fmt.Sprintf("価格帯は %s のいずれかで指定してください", strings.Join(model.GetAllPriceRanges(), ", ")),
		}
	}
	return nil
}

// GetStats は直近の最適化の統計を返すエンドポイント
// GET /markers/stats
func (h *MarkerHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.markerUseCase.GetStats())
}

// PostResetStats は統計をリセットするエンドポイント
// POST /markers/stats/reset
func (h *MarkerHandler) PostResetStats(c *gin.Context) {
	h.markerUseCase.ResetStats()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// GetDistance は2地点間の距離(m)を返すエンドポイント
// GET /markers/distance?lat1=&lng1=&lat2=&lng2=
func (h *MarkerHandler) GetDistance(c *gin.Context) {
	names := []string{"lat1", "lng1", "lat2", "lng2"}
	values := make([]float64, len(names))
	for i, name := range names {
		v, err := strconv.ParseFloat(c.Query(name), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "バリデーションエラー",
				"details": (&ValidationError{Field: name, Message: "数値で指定してください"}).Error(),
			})
			return
		}
		values[i] = v
	}

	if !helper.IsValidCoordinates(values[0], values[1]) || !helper.IsValidCoordinates(values[2], values[3]) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "バリデーションエラー",
			"details": (&ValidationError{Field: "coordinates", Message: "緯度は-90から90、経度は-180から180の範囲で指定してください"}).Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"distance_meters": helper.CalculateDistance(values[0], values[1], values[2], values[3]),
	})
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
