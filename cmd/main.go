package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"TripPlanner-App/internal/config"
	"TripPlanner-App/internal/domain/event"
	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/domain/service"
	"TripPlanner-App/internal/handler"
	"TripPlanner-App/internal/infrastructure/database"
	tripfirestore "TripPlanner-App/internal/infrastructure/firestore"
	"TripPlanner-App/internal/infrastructure/maps"
	kvstore "TripPlanner-App/internal/repository"
	"TripPlanner-App/internal/usecase"
)

// 保存済みトリップを置く永続ストレージの名前空間
const localStorageNamespace = "local_storage"

const sessionJanitorInterval = time.Minute

func main() {
	rootCmd := &cobra.Command{
		Use:   "tripplanner",
		Short: "ロードトリップ計画APIサーバー",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(shareCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var (
		port   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "APIサーバーを起動",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if dbPath != "" {
				cfg.DatabaseURL = dbPath
			}
			return runServer(cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "待ち受けポート (PORT より優先)")
	cmd.Flags().StringVar(&dbPath, "db", "", "データベースの接続先 (DATABASE_URL より優先)")
	return cmd
}

func runServer(cfg *config.Config) error {
	if cfg.GoogleMapsAPIKey == "" {
		log.Println("⚠️ GOOGLE_MAPS_API_KEY が設定されていません。経路計算とスポット検索は失敗します")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. 永続ストレージの初期化
	localStorage, closeStorage, err := openLocalStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	// 2. イベントとセッションの初期化
	events := event.NewEvents()
	subscribeLogging(events)

	quota := cfg.SessionQuotaBytes
	sessions := service.NewTripSessions(func() repository.KeyValueStore {
		return kvstore.NewMemoryKeyValueStore(quota)
	}, events, service.SessionLimits{MaxSessions: cfg.MaxSessions, IdleTTL: cfg.SessionIdleTTL})
	go sessions.RunJanitor(ctx, sessionJanitorInterval)

	// 3. 外部APIクライアントとユースケース
	routeProvider := maps.NewGoogleRoutesProvider(cfg.GoogleMapsAPIKey, cfg.TravelMode)
	placesProvider := maps.NewGooglePlacesProvider(cfg.GoogleMapsAPIKey)
	planningUseCase := usecase.NewTripPlanningUseCase(routeProvider, placesProvider)
	registry := service.NewSavedTripRegistry(localStorage, events)
	shareCodec := service.NewShareCodec()

	// 4. ハンドラーとルーター
	router := handler.NewRouter(
		sessions,
		handler.NewTripHandler(planningUseCase, shareCodec, cfg.PublicBaseURL),
		handler.NewSavedTripsHandler(registry),
		handler.NewShareHandler(shareCodec),
	)

	fmt.Printf("🚀 TripPlanner-App server starting on :%s...\n", cfg.Port)
	return router.Run(":" + cfg.Port)
}

// openLocalStorage は DATABASE_DRIVER に応じた永続キーバリューストアを開く
func openLocalStorage(ctx context.Context, cfg *config.Config) (repository.KeyValueStore, func() error, error) {
	switch cfg.DatabaseDriver {
	case tripfirestore.DriverFirestore:
		fmt.Println("Initializing Firestore client...")
		client, err := tripfirestore.NewFirestoreClient(ctx, cfg.GoogleCloudProject, cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("Firestore初期化失敗: %w", err)
		}
		fmt.Println("✅ Firestore connection successful!")
		return kvstore.NewFirestoreKeyValueStore(client.GetClient(), localStorageNamespace), client.Close, nil

	case database.DriverSupabase:
		fmt.Println("Initializing Supabase client...")
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, nil, fmt.Errorf("Supabaseクライアント初期化失敗: %w", err)
		}
		if err := client.HealthCheck(); err != nil {
			return nil, nil, fmt.Errorf("Supabaseヘルスチェック失敗: %w", err)
		}
		fmt.Println("✅ Supabase connection successful!")
		return kvstore.NewSupabaseKeyValueStore(client, localStorageNamespace), func() error { return nil }, nil
	}

	if cfg.DatabaseDriver == database.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabaseURL), 0755); err != nil {
			return nil, nil, fmt.Errorf("DBディレクトリの作成に失敗: %w", err)
		}
	}
	fmt.Println("Initializing database client...")
	dbClient, err := database.NewSQLClientWithRetry(cfg.DatabaseDriver, cfg.DatabaseURL, 3, 2*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("データベース初期化失敗: %w", err)
	}
	if err := dbClient.HealthCheck(); err != nil {
		dbClient.Close()
		return nil, nil, fmt.Errorf("データベースヘルスチェック失敗: %w", err)
	}
	fmt.Println("✅ Database connection successful!")
	return kvstore.NewSQLKeyValueStore(dbClient, localStorageNamespace), dbClient.Close, nil
}

func subscribeLogging(events *event.Events) {
	events.TripSaved.Subscribe(func(e event.TripSaved) {
		if e.Updated {
			log.Printf("📝 保存済みトリップ更新イベント (ID: %s)", e.Snapshot.ID)
		}
	})
	events.PlaceAdded.Subscribe(func(e event.PlaceAdded) {
		log.Printf("📍 スポットを追加 (ID: %s): %s", e.Identity, e.Place.DisplayName)
	})
	events.TripDeleted.Subscribe(func(e event.TripDeleted) {
		log.Printf("🗑️ 保存済みトリップ削除イベント (ID: %s)", e.ID)
	})
}

func shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "共有トークンの操作",
	}
	cmd.AddCommand(shareDecodeCmd())
	return cmd
}

func shareDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [token]",
		Short: "共有トークンを復元してJSONで表示",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shared, err := service.NewShareCodec().Decode(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(shared)
		},
	}
}
