package repository

import (
	"MapMarker-App/internal/domain/model"
	"MapMarker-App/internal/domain/repository"
	"MapMarker-App/internal/infrastructure/database"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/supabase-community/postgrest-go"
)

// supabaseEntitiesTable はPostgRESTで公開している緯度経度列つきのビュー
const supabaseEntitiesTable = "map_entities_view"

type SupabaseEntitiesRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseEntitiesRepository(client *database.SupabaseClient) repository.EntitiesRepository {
	return &SupabaseEntitiesRepository{
		client: client,
	}
}

// supabaseEntityRow map_entities_view の1行
type supabaseEntityRow struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Category    string   `json:"category"`
	District    string   `json:"district"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"review_count"`
	PriceRange  *string  `json:"price_range"`
}

func (row *supabaseEntityRow) toMapEntity() *model.MapEntity {
	return &model.MapEntity{
		ID:          row.ID,
		Name:        row.Name,
		Kind:        model.EntityKind(row.Kind),
		Category:    row.Category,
		District:    row.District,
		Coordinates: model.GeoPoint{Lat: row.Lat, Lng: row.Lng},
		Rating:      row.Rating,
		ReviewCount: row.ReviewCount,
		PriceRange:  row.PriceRange,
	}
}

func (r *SupabaseEntitiesRepository) FindAll(ctx context.Context) ([]*model.MapEntity, error) {
	return r.execute(r.selectAll())
}

func (r *SupabaseEntitiesRepository) FindInBounds(ctx context.Context, bounds *model.ViewportBounds) ([]*model.MapEntity, error) {
	return r.execute(withBounds(r.selectAll(), bounds))
}

func (r *SupabaseEntitiesRepository) FindByCategories(ctx context.Context, categories []string, bounds *model.ViewportBounds) ([]*model.MapEntity, error) {
	query := withBounds(r.selectAll(), bounds)
	if len(categories) > 0 {
		query = query.In("category", categories)
	}
	return r.execute(query)
}

func (r *SupabaseEntitiesRepository) selectAll() *postgrest.FilterBuilder {
	return r.client.GetClient().From(supabaseEntitiesTable).Select("*", "exact", false)
}

// withBounds 表示範囲で絞り込む（境界値を含む）
func withBounds(query *postgrest.FilterBuilder, bounds *model.ViewportBounds) *postgrest.FilterBuilder {
	if bounds == nil {
		return query
	}
	return query.
		Gte("lat", formatCoordinate(bounds.South)).
		Lte("lat", formatCoordinate(bounds.North)).
		Gte("lng", formatCoordinate(bounds.West)).
		Lte("lng", formatCoordinate(bounds.East))
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *SupabaseEntitiesRepository) execute(query *postgrest.FilterBuilder) ([]*model.MapEntity, error) {
	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("スポットデータの取得失敗: %w: %w", repository.ErrEntitySourceUnavailable, err)
	}

	var rows []supabaseEntityRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("スポットデータのJSONアンマーシャル失敗: %w", err)
	}

	entities := make([]*model.MapEntity, 0, len(rows))
	for i := range rows {
		entities = append(entities, rows[i].toMapEntity())
	}
	return entities, nil
}
