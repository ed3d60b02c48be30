package usecase

import (
	"MapMarker-App/internal/domain/model"
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// inputHasher は最適化入力の構造的ハッシュを計算する
// 参照が異なっても値が同じ入力は同じハッシュになる
type inputHasher struct {
	digest *xxhash.Digest
	buf    [8]byte
}

func newInputHasher() *inputHasher {
	return &inputHasher{digest: xxhash.New()}
}

func (h *inputHasher) writeString(s string) {
	h.writeInt(int64(len(s)))
	h.digest.WriteString(s)
}

func (h *inputHasher) writeFloat(v float64) {
	binary.LittleEndian.PutUint64(h.buf[:], math.Float64bits(v))
	h.digest.Write(h.buf[:])
}

func (h *inputHasher) writeInt(v int64) {
	binary.LittleEndian.PutUint64(h.buf[:], uint64(v))
	h.digest.Write(h.buf[:])
}

func (h *inputHasher) writeBool(v bool) {
	if v {
		h.digest.Write([]byte{1})
	} else {
		h.digest.Write([]byte{0})
	}
}

func (h *inputHasher) writeEntity(e *model.MapEntity) {
	h.writeBool(e != nil)
	if e == nil {
		return
	}
	h.writeString(e.ID)
	h.writeString(e.Name)
	h.writeString(string(e.Kind))
	h.writeString(e.Category)
	h.writeString(e.District)
	h.writeFloat(e.Coordinates.Lat)
	h.writeFloat(e.Coordinates.Lng)
	h.writeBool(e.Rating != nil)
	h.writeFloat(e.GetRating())
	h.writeBool(e.ReviewCount != nil)
	h.writeInt(int64(e.GetReviewCount()))
	h.writeBool(e.PriceRange != nil)
	h.writeString(e.GetPriceRange())
}

// hashOptimizationInput はエンティティ・表示範囲・設定から構造的ハッシュを計算する
func hashOptimizationInput(entities []*model.MapEntity, bounds *model.ViewportBounds, cfg model.OptimizationConfig) uint64 {
	h := newInputHasher()

	h.writeInt(int64(len(entities)))
	for _, e := range entities {
		h.writeEntity(e)
	}

	h.writeBool(bounds != nil)
	if bounds != nil {
		h.writeFloat(bounds.North)
		h.writeFloat(bounds.South)
		h.writeFloat(bounds.East)
		h.writeFloat(bounds.West)
		h.writeInt(int64(bounds.Zoom))
	}

	h.writeInt(int64(cfg.MaxVisibleMarkers))
	h.writeFloat(cfg.ClusteringDistance)
	h.writeInt(int64(cfg.ClusteringMinCount))
	h.writeBool(cfg.EnableClustering)
	h.writeInt(int64(cfg.VirtualizationThreshold))
	h.writeBool(cfg.DebugMode)

	return h.digest.Sum64()
}
