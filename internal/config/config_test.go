package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "GOOGLE_MAPS_API_KEY", "TRAVEL_MODE", "DATABASE_DRIVER", "DATABASE_URL", "SESSION_QUOTA_BYTES", "SESSION_MAX", "SESSION_IDLE_TTL", "PUBLIC_BASE_URL",
		"GOOGLE_CLOUD_PROJECT", "GOOGLE_APPLICATION_CREDENTIALS", "SUPABASE_URL", "SUPABASE_ANON_KEY"} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "DRIVE", cfg.TravelMode)
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, DefaultSQLitePath(), cfg.DatabaseURL)
	assert.Equal(t, 5*1024*1024, cfg.SessionQuotaBytes)
	assert.Equal(t, 10000, cfg.MaxSessions)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
	assert.Empty(t, cfg.PublicBaseURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TRAVEL_MODE", "WALK")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/trips?sslmode=disable")
	t.Setenv("SESSION_QUOTA_BYTES", "2048")
	t.Setenv("SESSION_MAX", "500")
	t.Setenv("SESSION_IDLE_TTL", "45m")
	t.Setenv("PUBLIC_BASE_URL", "https://trips.example.com")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "WALK", cfg.TravelMode)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "postgres://localhost/trips?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, 2048, cfg.SessionQuotaBytes)
	assert.Equal(t, 500, cfg.MaxSessions)
	assert.Equal(t, 45*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, "https://trips.example.com", cfg.PublicBaseURL)
}

func TestFromEnv_HostedDrivers(t *testing.T) {
	t.Run("firestore", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_DRIVER", "firestore")
		t.Setenv("GOOGLE_CLOUD_PROJECT", "tripplanner-prod")
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/key.json")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "firestore", cfg.DatabaseDriver)
		assert.Equal(t, "tripplanner-prod", cfg.GoogleCloudProject)
		assert.Equal(t, "/secrets/key.json", cfg.GoogleCredentialsFile)
	})

	t.Run("supabase", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_DRIVER", "supabase")
		t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
		t.Setenv("SUPABASE_ANON_KEY", "anon")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "supabase", cfg.DatabaseDriver)
		assert.Equal(t, "https://abc.supabase.co", cfg.SupabaseURL)
		assert.Equal(t, "anon", cfg.SupabaseAnonKey)
	})
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "不正なクォータ", env: map[string]string{"SESSION_QUOTA_BYTES": "abc"}},
		{name: "負のクォータ", env: map[string]string{"SESSION_QUOTA_BYTES": "-1"}},
		{name: "postgresでURLなし", env: map[string]string{"DATABASE_DRIVER": "postgres"}},
		{name: "不正なセッション上限", env: map[string]string{"SESSION_MAX": "0"}},
		{name: "不正なアイドル時間", env: map[string]string{"SESSION_IDLE_TTL": "forever"}},
		{name: "firestoreでプロジェクトなし", env: map[string]string{"DATABASE_DRIVER": "firestore"}},
		{name: "supabaseでキーなし", env: map[string]string{"DATABASE_DRIVER": "supabase", "SUPABASE_URL": "https://abc.supabase.co"}},
		{name: "未対応のドライバー", env: map[string]string{"DATABASE_DRIVER": "mysql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
