package repository

import (
	"MapMarker-App/internal/domain/model"
	"MapMarker-App/internal/domain/repository"
	"MapMarker-App/internal/infrastructure/database"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type PostgresEntitiesRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresEntitiesRepository(client *database.PostgreSQLClient) repository.EntitiesRepository {
	return &PostgresEntitiesRepository{
		client: client,
	}
}

const entityColumns = `
	e.id, e.name, e.kind, e.category, e.district,
	ST_AsGeoJSON(e.location) AS location,
	e.rating, e.review_count, e.price_range`

// EntityResult map_entities の1行を受け取るための構造体
type EntityResult struct {
	ID          string
	Name        string
	Kind        sql.NullString
	Category    sql.NullString
	District    sql.NullString
	Location    string
	Rating      sql.NullFloat64
	ReviewCount sql.NullInt64
	PriceRange  sql.NullString
}

// ToMapEntity EntityResultをmodel.MapEntityに変換
func (er *EntityResult) ToMapEntity() (*model.MapEntity, error) {
	coordinates, err := ParseGeoJSONPoint(er.Location)
	if err != nil {
		return nil, err
	}

	entity := &model.MapEntity{
		ID:          er.ID,
		Name:        er.Name,
		Kind:        model.EntityKind(er.Kind.String),
		Category:    er.Category.String,
		District:    er.District.String,
		Coordinates: coordinates,
	}
	if er.Rating.Valid {
		rating := er.Rating.Float64
		entity.Rating = &rating
	}
	if er.ReviewCount.Valid {
		reviews := int(er.ReviewCount.Int64)
		entity.ReviewCount = &reviews
	}
	if er.PriceRange.Valid {
		priceRange := er.PriceRange.String
		entity.PriceRange = &priceRange
	}
	return entity, nil
}

func (r *PostgresEntitiesRepository) FindAll(ctx context.Context) ([]*model.MapEntity, error) {
	query := `SELECT ` + entityColumns + ` FROM map_entities e`
	return r.query(ctx, query)
}

func (r *PostgresEntitiesRepository) FindInBounds(ctx context.Context, bounds *model.ViewportBounds) ([]*model.MapEntity, error) {
	if bounds == nil {
		return r.FindAll(ctx)
	}
	query := `SELECT ` + entityColumns + `
		FROM map_entities e
		WHERE e.location && ST_MakeEnvelope($1, $2, $3, $4, 4326)`
	return r.query(ctx, query, boundsToEnvelope(bounds)...)
}

func (r *PostgresEntitiesRepository) FindByCategories(ctx context.Context, categories []string, bounds *model.ViewportBounds) ([]*model.MapEntity, error) {
	if len(categories) == 0 {
		return r.FindInBounds(ctx, bounds)
	}

	var conditions []string
	args := []interface{}{pq.Array(categories)}
	conditions = append(conditions, "e.category = ANY($1)")
	if bounds != nil {
		conditions = append(conditions, "e.location && ST_MakeEnvelope($2, $3, $4, $5, 4326)")
		args = append(args, boundsToEnvelope(bounds)...)
	}

	query := `SELECT ` + entityColumns + `
		FROM map_entities e
		WHERE ` + strings.Join(conditions, " AND ")
	return r.query(ctx, query, args...)
}

// query はクエリを実行して結果をスキャンする
func (r *PostgresEntitiesRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.MapEntity, error) {
	rows, err := r.client.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("スポット検索失敗: %w: %w", repository.ErrEntitySourceUnavailable, err)
	}
	defer rows.Close()

	var entities []*model.MapEntity
	for rows.Next() {
		var result EntityResult
		err := rows.Scan(&result.ID, &result.Name, &result.Kind, &result.Category, &result.District,
			&result.Location, &result.Rating, &result.ReviewCount, &result.PriceRange)
		if err != nil {
			return nil, fmt.Errorf("スポットデータスキャンエラー: %w", err)
		}

		entity, err := result.ToMapEntity()
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スポットデータ読み込みエラー: %w", err)
	}

	return entities, nil
}
