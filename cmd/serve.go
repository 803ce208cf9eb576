package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tournament-recorder/brackets"
	"github.com/Dosada05/tournament-recorder/config"
	"github.com/Dosada05/tournament-recorder/db"
	"github.com/Dosada05/tournament-recorder/handlers"
	"github.com/Dosada05/tournament-recorder/metrics"
	"github.com/Dosada05/tournament-recorder/repositories"
	"github.com/Dosada05/tournament-recorder/routes"
	"github.com/Dosada05/tournament-recorder/services"
	"github.com/Dosada05/tournament-recorder/storage"
)

const shutdownTimeout = 15 * time.Second

// backend is the persistence gateway chosen by STORAGE_BACKEND.
type backend struct {
	players     repositories.PlayerRepository
	matches     repositories.MatchRepository
	tournaments repositories.TournamentRepository
	ping        handlers.Pinger
	close       func()
}

func runServe(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("storage", cfg.StorageBackend),
		slog.Bool("strict_match_validation", cfg.StrictMatchValidation),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	store, err := openBackend(ctx, cfg, m, logger)
	if err != nil {
		return err
	}
	defer store.close()

	// Архив снимков в R2 подключается только при полной конфигурации.
	var archiver services.SnapshotArchiver
	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Config.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, r2Config)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		archiver = storage.NewSnapshotArchiver(uploader, logger)
		logger.Info("snapshot archive enabled", slog.String("bucket", cfg.R2BucketName))
	}

	hub := brackets.NewHub(logger.With(slog.String("component", "live_hub")))

	opts := services.Options{
		QueryTimeout: cfg.DBQueryTimeout,
		Broadcaster:  hub,
		Metrics:      m,
		Logger:       logger,
	}
	playerService := services.NewPlayerService(store.players, opts)
	matchService := services.NewMatchService(store.matches, cfg.StrictMatchValidation, opts)
	tournamentService := services.NewTournamentService(store.tournaments, archiver, opts)

	routeOpts := routes.Options{
		Logger:           logger,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Metrics:          m,
	}
	if cfg.RateLimitEnabled {
		routeOpts.RateLimitRequests = cfg.RateLimitRequests
		routeOpts.RateLimitWindow = cfg.RateLimitWindow
	}

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		routeOpts,
		handlers.NewPlayerHandler(playerService),
		handlers.NewMatchHandler(matchService),
		handlers.NewTournamentHandler(tournamentService),
		handlers.NewHealthHandler(store.ping, cfg.StorageBackend, cfg.DBQueryTimeout),
		handlers.NewWebSocketHandler(hub, cfg.CORSAllowOrigins),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gCtx)
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("application exited")
	return nil
}

func openBackend(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*backend, error) {
	if cfg.StorageBackend == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		mem := repositories.NewMemoryStore()
		return &backend{
			players:     mem.Players(),
			matches:     mem.Matches(),
			tournaments: mem.Tournaments(),
			ping:        mem.Ping,
			close:       func() {},
		}, nil
	}

	dbConn, err := db.Connect(cfg.DBDriver, cfg.DatabaseURL, poolConfig(cfg), cfg.DBConnectTimeout)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established", slog.String("driver", cfg.DBDriver))

	if cfg.DBAutoSchema {
		schemaCtx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
		err := db.EnsureSchema(schemaCtx, dbConn)
		cancel()
		if err != nil {
			dbConn.Close()
			return nil, err
		}
		logger.Info("database schema ensured")
	}

	closers := []func(){}
	if m != nil {
		sched, err := metrics.StartDBStatsJob(dbConn, m, cfg.DBStatsInterval, logger)
		if err != nil {
			dbConn.Close()
			return nil, err
		}
		closers = append(closers, func() {
			if err := sched.Shutdown(); err != nil {
				logger.Error("failed to stop db stats job", slog.Any("error", err))
			}
		})
	}
	closers = append(closers, func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
			return
		}
		logger.Info("database connection closed")
	})

	return &backend{
		players:     repositories.NewPostgresPlayerRepository(dbConn),
		matches:     repositories.NewPostgresMatchRepository(dbConn),
		tournaments: repositories.NewPostgresTournamentRepository(dbConn),
		ping:        dbConn.PingContext,
		close: func() {
			for _, c := range closers {
				c()
			}
		},
	}, nil
}

func poolConfig(cfg *config.Config) db.PoolConfig {
	return db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}
}
