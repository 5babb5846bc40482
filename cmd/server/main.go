package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/todmy/report-checker/internal/api"
	"github.com/todmy/report-checker/internal/auth"
	"github.com/todmy/report-checker/internal/cache"
	"github.com/todmy/report-checker/internal/config"
	"github.com/todmy/report-checker/internal/contradiction"
	"github.com/todmy/report-checker/internal/logger"
	"github.com/todmy/report-checker/internal/rulepack"
	"github.com/todmy/report-checker/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mode := "development"
	if cfg.Production() {
		mode = "production"
	}
	logg, err := logger.New(mode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logg.Sync()

	if err := run(cfg, logg); err != nil {
		logg.Error("server stopped", "error", err)
		logg.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	engine := contradiction.New(
		contradiction.WithConfig(cfg.Engine),
		contradiction.WithLogger(logg.With("component", "engine")),
	)

	if cfg.RulesFile != "" {
		pack, err := rulepack.Load(cfg.RulesFile)
		if err != nil {
			return err
		}
		if err := pack.Apply(engine); err != nil {
			return err
		}
		logg.Info("rule pack loaded",
			"file", cfg.RulesFile,
			"name", pack.Name,
			"patterns", len(pack.Patterns),
			"oppositions", len(pack.Oppositions),
		)
	}

	var analyzer cache.Analyzer = engine
	if cfg.CacheSize > 0 {
		lru, err := cache.NewLRUCache(cfg.CacheSize)
		if err != nil {
			return fmt.Errorf("create cache: %w", err)
		}
		analyzer = cache.NewCachedAnalyzer(engine, lru)
	}

	serverCfg := api.Config{
		Engine:   engine,
		Analyzer: analyzer,
		Logger:   logg.With("component", "api"),
	}

	var clients auth.ClientRepository = auth.NewMemoryRepository()

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		if err := storage.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		serverCfg.Reports = storage.NewPostgresReportRepository(db)
		serverCfg.Findings = storage.NewPostgresFindingRepository(db)
		clients = auth.NewPostgresRepository(db)
		logg.Info("report storage enabled")
	} else {
		logg.Warn("DATABASE_URL not set, running without report storage")
	}

	if cfg.AuthEnabled {
		svc := auth.NewJWTService(auth.Config{SecretKey: cfg.JWTSecret}, clients)
		if err := seedClient(ctx, svc, cfg, logg); err != nil {
			return err
		}
		serverCfg.Auth = svc
	} else {
		logg.Warn("authentication disabled")
	}

	server := api.NewServer(serverCfg)

	logg.Info("starting report-checker server", "addr", cfg.Addr(), "env", cfg.Env)
	return server.Run(cfg.Addr())
}

// seedClient registers the bootstrap client unless it already exists
func seedClient(ctx context.Context, svc *auth.JWTService, cfg *config.Config, logg *logger.Logger) error {
	id, secret := cfg.BootstrapClientID, cfg.BootstrapClientSecret
	if id == "" || secret == "" {
		return nil
	}

	_, err := svc.RegisterClient(ctx, id, id, secret)
	switch err {
	case nil:
		logg.Info("bootstrap client registered", "client_id", id)
		return nil
	case auth.ErrClientExists:
		return nil
	default:
		return fmt.Errorf("register bootstrap client: %w", err)
	}
}
