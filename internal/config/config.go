package config

import (
	"os"
	"strconv"
)

// エンティティ取得元
const (
	EntitySourcePostgres = "postgres"
	EntitySourceSupabase = "supabase"
)

// オフラインキャッシュの保存先
const (
	OfflineCacheFirestore = "firestore"
	OfflineCacheRedis     = "redis"
	OfflineCacheNone      = "none"
)

// Config アプリケーション設定
type Config struct {
	Port                 string
	EntitySource         string
	SupabaseURL          string
	SupabaseAnonKey      string
	SupabaseDBPassword   string
	OfflineCacheBackend  string
	FirestoreProjectID   string
	GoogleCredentials    string
	RedisAddr            string
	RedisDB              int
	MarkerConfigPath     string
	OfflineSnapshotLimit int
	GinMode              string
}

// Load 環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Port:                 getEnv("PORT", "8080"),
		EntitySource:         getEnv("ENTITY_SOURCE", EntitySourcePostgres),
		SupabaseURL:          os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:      os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseDBPassword:   os.Getenv("SUPABASE_DB_PASSWORD"),
		OfflineCacheBackend:  getEnv("OFFLINE_CACHE_BACKEND", OfflineCacheNone),
		FirestoreProjectID:   os.Getenv("FIRESTORE_PROJECT_ID"),
		GoogleCredentials:    os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		MarkerConfigPath:     getEnv("MARKER_CONFIG_PATH", "config/markers.yaml"),
		OfflineSnapshotLimit: getEnvInt("OFFLINE_SNAPSHOT_LIMIT", 100),
		GinMode:              os.Getenv("GIN_MODE"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
