package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/jonathan/job-match/internal/config"
	"github.com/jonathan/job-match/internal/db"
	"github.com/jonathan/job-match/internal/gap"
	"github.com/jonathan/job-match/internal/ranking"
	"github.com/jonathan/job-match/internal/schemas"
	"github.com/jonathan/job-match/internal/server"
	"github.com/jonathan/job-match/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the match engine, stored-profile rankings and the skills gap analyzer.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvCfg := server.Config{
		Port:           cfg.Server.Port,
		CORSOrigin:     cfg.Server.CORSOrigin,
		RateLimit:      ratelimit.NewConfig(cfg.RateLimit),
		JWT:            &cfg.JWT,
		EmployerEmails: cfg.EmployerEmails,
		Logger:         logger,
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		srvCfg.Store = database
	} else {
		logger.Warn("no database configured, stored-profile routes disabled")
	}

	rankerOpts := []ranking.Option{
		ranking.WithWeights(cfg.Weights),
		ranking.WithWorkers(cfg.Workers),
		ranking.WithLogger(logger),
	}
	if cfg.CacheEnabled() {
		client, err := newRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		rankerOpts = append(rankerOpts, ranking.WithCache(ranking.NewRedisCache(client, cfg.Redis.CacheTTL)))
		logger.Info("match cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.CacheTTL))
	}
	srvCfg.Ranker = ranking.NewRanker(rankerOpts...)

	analyzer, err := newAnalyzer(cfg.TaxonomyFile)
	if err != nil {
		return err
	}
	srvCfg.Analyzer = analyzer

	if dir := resolveSchemasDir(cfg.SchemasDir); dir != "" {
		srvCfg.Schemas = schemas.NewRegistry(dir)
	} else {
		logger.Warn("schemas directory not found, request bodies are checked by struct validation only",
			zap.String("schemas_dir", cfg.SchemasDir))
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

func newRedisClient(ctx context.Context, rc config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", rc.Addr, err)
	}
	return client, nil
}

// newAnalyzer uses the built-in taxonomy unless path names a replacement.
func newAnalyzer(path string) (*gap.Analyzer, error) {
	if path == "" {
		return gap.NewAnalyzer(nil), nil
	}
	taxonomy, err := gap.LoadTaxonomy(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	return gap.NewAnalyzer(taxonomy), nil
}
