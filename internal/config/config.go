package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"TripPlanner-App/internal/domain/service"
	"TripPlanner-App/internal/infrastructure/database"
	tripfirestore "TripPlanner-App/internal/infrastructure/firestore"
	"TripPlanner-App/internal/infrastructure/maps"
	"TripPlanner-App/internal/repository"
)

// Config はサーバーの設定値
type Config struct {
	Port              string
	GoogleMapsAPIKey  string
	TravelMode        string
	DatabaseDriver    string
	DatabaseURL       string
	SessionQuotaBytes int
	MaxSessions       int
	SessionIdleTTL    time.Duration
	PublicBaseURL     string

	// DATABASE_DRIVER=firestore
	GoogleCloudProject    string
	GoogleCredentialsFile string

	// DATABASE_DRIVER=supabase
	SupabaseURL     string
	SupabaseAnonKey string
}

// Load は .env と環境変数から設定を読み込む
// .env がない場合は環境変数のみを使用する
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .envファイルが見つかりません。システム環境変数を使用します")
	}
	return FromEnv()
}

// FromEnv は環境変数から設定を組み立てる
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		TravelMode:        getEnv("TRAVEL_MODE", maps.DefaultTravelMode),
		DatabaseDriver:    getEnv("DATABASE_DRIVER", database.DriverSQLite),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SessionQuotaBytes: repository.DefaultSessionQuotaBytes,
		MaxSessions:       service.DefaultMaxSessions,
		SessionIdleTTL:    service.DefaultSessionIdleTTL,
		PublicBaseURL:     os.Getenv("PUBLIC_BASE_URL"),

		GoogleCloudProject:    os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GoogleCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		SupabaseURL:           os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:       os.Getenv("SUPABASE_ANON_KEY"),
	}

	if raw := os.Getenv("SESSION_QUOTA_BYTES"); raw != "" {
		quota, err := strconv.Atoi(raw)
		if err != nil || quota <= 0 {
			return nil, fmt.Errorf("SESSION_QUOTA_BYTES が不正です: %q", raw)
		}
		cfg.SessionQuotaBytes = quota
	}
	if raw := os.Getenv("SESSION_MAX"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("SESSION_MAX が不正です: %q", raw)
		}
		cfg.MaxSessions = limit
	}
	if raw := os.Getenv("SESSION_IDLE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("SESSION_IDLE_TTL が不正です: %q", raw)
		}
		cfg.SessionIdleTTL = ttl
	}

	switch cfg.DatabaseDriver {
	case database.DriverSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = DefaultSQLitePath()
		}
	case database.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_DRIVER=postgres の場合は DATABASE_URL が必要です")
		}
	case tripfirestore.DriverFirestore:
		if cfg.GoogleCloudProject == "" {
			return nil, fmt.Errorf("DATABASE_DRIVER=firestore の場合は GOOGLE_CLOUD_PROJECT が必要です")
		}
	case database.DriverSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
			return nil, fmt.Errorf("DATABASE_DRIVER=supabase の場合は SUPABASE_URL と SUPABASE_ANON_KEY が必要です")
		}
	default:
		return nil, fmt.Errorf("未対応の DATABASE_DRIVER: %s", cfg.DatabaseDriver)
	}

	return cfg, nil
}

// DefaultSQLitePath はSQLiteファイルの既定の保存先 (~/.tripplanner/trips.db)
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "trips.db"
	}
	return filepath.Join(home, ".tripplanner", "trips.db")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
