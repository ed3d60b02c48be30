package main

import (
	"MapMarker-App/internal/config"
	"MapMarker-App/internal/domain/model"
	"MapMarker-App/internal/domain/repository"
	"MapMarker-App/internal/domain/service"
	"MapMarker-App/internal/handler"
	"MapMarker-App/internal/infrastructure/cache"
	"MapMarker-App/internal/infrastructure/database"
	"MapMarker-App/internal/infrastructure/firestore"
	repoimpl "MapMarker-App/internal/repository"
	"MapMarker-App/internal/usecase"
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	dbMaxRetries       = 3
	dbRetryInterval    = 2 * time.Second
	offlineSnapshotTTL = model.OfflineSnapshotMaxAge
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .envファイルが見つかりません。システム環境変数を使用します")
	}

	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	optimizationConfig, err := config.LoadOptimizationConfig(cfg.MarkerConfigPath)
	if err != nil {
		log.Fatalf("❌ マーカー設定の読み込みに失敗: %v", err)
	}
	log.Printf("✅ マーカー設定を読み込みました (max_visible=%d, clustering=%t)",
		optimizationConfig.MaxVisibleMarkers, optimizationConfig.EnableClustering)

	ctx := context.Background()

	entitiesRepo, closeEntities := initEntitiesRepository(cfg)
	defer closeEntities()

	offlineCache, closeCache := initOfflineCache(ctx, cfg)
	defer closeCache()

	optimizer := service.NewMarkerOptimizer()
	markerUseCase := usecase.NewMarkerUseCase(optimizer, entitiesRepo, offlineCache, optimizationConfig, cfg.OfflineSnapshotLimit)
	markerHandler := handler.NewMarkerHandler(markerUseCase)

	r := handler.NewRouter(markerHandler)

	log.Printf("🚀 MapMarker-App server starting on :%s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ サーバー起動失敗: %v", err)
	}
}

// initEntitiesRepository は設定に応じたスポット取得元を初期化する
// 接続できない場合はnilを返し、リクエスト指定とオフラインキャッシュのみで動作する
func initEntitiesRepository(cfg *config.Config) (repository.EntitiesRepository, func()) {
	noop := func() {}
	if cfg.SupabaseURL == "" {
		log.Println("⚠️ SUPABASE_URLが未設定のため、データベースからのスポット取得は無効です")
		return nil, noop
	}

	switch cfg.EntitySource {
	case config.EntitySourceSupabase:
		log.Println("📦 Supabaseクライアントを初期化中...")
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			log.Printf("⚠️ Supabaseクライアント初期化失敗: %v", err)
			return nil, noop
		}
		if err := client.HealthCheck(); err != nil {
			log.Printf("⚠️ Supabaseヘルスチェック失敗: %v", err)
		}
		log.Println("✅ Supabase接続完了")
		return repoimpl.NewSupabaseEntitiesRepository(client), noop

	default:
		log.Println("📦 PostgreSQLに接続中...")
		client, err := database.NewPostgreSQLClientWithRetry(cfg.SupabaseURL, cfg.SupabaseDBPassword, dbMaxRetries, dbRetryInterval)
		if err != nil {
			log.Printf("⚠️ PostgreSQL接続失敗: %v", err)
			return nil, noop
		}
		log.Println("✅ PostgreSQL接続完了")
		return repoimpl.NewPostgresEntitiesRepository(client), func() {
			if err := client.Close(); err != nil {
				log.Printf("⚠️ PostgreSQL切断時にエラー: %v", err)
			}
		}
	}
}

// initOfflineCache は設定に応じたオフラインキャッシュを初期化する
func initOfflineCache(ctx context.Context, cfg *config.Config) (repository.OfflineCacheRepository, func()) {
	noop := func() {}

	switch cfg.OfflineCacheBackend {
	case config.OfflineCacheFirestore:
		client, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("⚠️ Firestoreクライアント初期化失敗、オフラインキャッシュは無効です: %v", err)
			return nil, noop
		}
		return repoimpl.NewFirestoreOfflineCacheRepository(client.GetClient(), offlineSnapshotTTL), func() {
			if err := client.Close(); err != nil {
				log.Printf("⚠️ Firestore切断時にエラー: %v", err)
			}
		}

	case config.OfflineCacheRedis:
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Printf("⚠️ Redis接続失敗、オフラインキャッシュは無効です: %v", err)
			return nil, noop
		}
		return repoimpl.NewRedisOfflineCacheRepository(client, offlineSnapshotTTL), func() {
			if err := client.Close(); err != nil {
				log.Printf("⚠️ Redis切断時にエラー: %v", err)
			}
		}

	default:
		log.Println("ℹ️ オフラインキャッシュは無効です")
		return nil, noop
	}
}
