package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/tournament-engine/config"
	"github.com/Dosada05/tournament-engine/db"
	"github.com/Dosada05/tournament-engine/handlers"
	"github.com/Dosada05/tournament-engine/metrics"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/realtime"
	"github.com/Dosada05/tournament-engine/repositories"
	api "github.com/Dosada05/tournament-engine/routes"
	"github.com/Dosada05/tournament-engine/services"
	"github.com/Dosada05/tournament-engine/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(logger); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}
	logger.Info("presets loaded", slog.Int("count", len(presets)))

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	m := metrics.New()

	var archive *services.ArchiveService
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("initialize Cloudflare R2 uploader: %w", err)
		}
		archive = services.NewArchiveService(uploader, m, logger)
		logger.Info("Cloudflare R2 archive enabled", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("archive disabled, R2 settings incomplete")
	}

	hub := realtime.NewHub(logger)
	go hub.Run(ctx)
	logger.Info("WebSocket hub started")

	authService := services.NewAuthService(cfg.OrganizerPasswordHash, cfg.JWTSecretKey, cfg.JWTTTL)
	tournamentService := services.NewTournamentService(repo, hub, archive, presets, m, logger)

	snap, err := tournamentService.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	counts := make(map[string]int)
	for _, t := range snap.Tournaments {
		counts[string(t.Status)]++
	}
	m.SetTournamentCounts(counts)
	logger.Info("snapshot loaded", slog.Int("tournaments", len(snap.Tournaments)), slog.Int("containers", len(snap.Containers)))

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Dependencies{
		AuthService:        authService,
		AuthHandler:        handlers.NewAuthHandler(authService, logger),
		TournamentHandler:  handlers.NewTournamentHandler(tournamentService, logger),
		WebSocketHandler:   handlers.NewWebSocketHandler(hub, cfg.CORSAllowedOrigins, logger),
		MetricsHandler:     m.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             logger,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped")
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}

// openRepository uses Postgres when DATABASE_URL is set and keeps the
// snapshot in memory otherwise.
func openRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.SnapshotRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, snapshot kept in memory")
		return repositories.NewMemorySnapshotRepository(models.Snapshot{}), func() {}, nil
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	closeDB := func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}
	if err := db.Migrate(ctx, dbConn); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database connection established")
	return repositories.NewPostgresSnapshotRepository(dbConn), closeDB, nil
}
