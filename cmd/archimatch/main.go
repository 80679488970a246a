package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/archimatch/archimatch/internal/ai"
	"github.com/archimatch/archimatch/internal/config"
	"github.com/archimatch/archimatch/internal/embedcache"
	"github.com/archimatch/archimatch/internal/handler"
	"github.com/archimatch/archimatch/internal/job"
	"github.com/archimatch/archimatch/internal/middleware"
	"github.com/archimatch/archimatch/internal/notify"
	"github.com/archimatch/archimatch/internal/pkg/jwt"
	"github.com/archimatch/archimatch/internal/repo"
	"github.com/archimatch/archimatch/internal/schedule"
	"github.com/archimatch/archimatch/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "archimatch",
		Short: "archimatch backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run archimatch server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repo.ApplyMigrations(db, cfg.MigrationsDir); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, db)
		},
	}

	var tokenUser string
	var tokenRole string
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "mint a development token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			if tokenUser == "" {
				return fmt.Errorf("--user is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			token, err := jwt.GenerateToken(tokenUser, tokenRole, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id to embed in the token")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "client", "role to embed in the token")

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("notify", cfg.Notify.Type),
	)

	userRepo := repo.NewUserRepo(db)
	architectRepo := repo.NewArchitectRepo(db)
	matchRepo := repo.NewMatchRepo(db)
	cacheRepo := repo.NewEmbeddingCacheRepo(db)

	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = cfg.AI
	}
	aiProvider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	aiTimeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	embedder := ai.NewEmbedder(aiProvider, cfg.AI.EmbedModel)
	embedder = embedcache.WrapDBCacheToEmbedder(embedder, cacheRepo)
	embedder = embedcache.WrapLruCacheToEmbedder(embedder, cfg.AI.CacheSize, time.Duration(cfg.AI.CacheTTLMinutes)*time.Minute)
	expander := ai.NewExpander(ai.NewGenerator(aiProvider, cfg.AI.GenModel), aiTimeout)

	notifier, err := buildNotifier(cfg.Notify)
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}
	defer notifier.Close()

	matchingService := service.NewMatchingService(expander, embedder, architectRepo, matchRepo, cfg.Rank.TopK, aiTimeout)
	matchService := service.NewMatchService(matchRepo, architectRepo, userRepo, notifier)
	profileService := service.NewProfileService(architectRepo, embedder, aiTimeout)
	userService := service.NewUserService(userRepo)

	deps := handler.RouterDeps{
		Matches:       handler.NewMatchHandler(matchingService, matchService),
		Architects:    handler.NewArchitectHandler(profileService),
		Users:         handler.NewUserHandler(userService),
		Health:        handler.NewHealthHandler(db),
		JWTSecret:     []byte(cfg.JWTSecret),
		RankRateLimit: time.Duration(cfg.Rank.RateLimitSeconds) * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.AllowOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var scheduler *schedule.CronScheduler
	if cfg.Jobs.Enable {
		scheduler = schedule.NewCronScheduler()
		backfill := job.NewEmbeddingBackfillJob(profileService, cfg.Jobs.BatchSize)
		if err := scheduler.AddJob(backfill, cfg.Jobs.EmbedBackfillCron); err != nil {
			return fmt.Errorf("schedule backfill job: %w", err)
		}
		cleanup := job.NewEmbeddingCacheCleanupJob(cacheRepo, time.Duration(cfg.Jobs.CacheRetentionDays)*24*time.Hour)
		if err := scheduler.AddJob(cleanup, cfg.Jobs.CacheCleanupCron); err != nil {
			return fmt.Errorf("schedule cache cleanup job: %w", err)
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

func buildNotifier(cfg config.NotifyConfig) (notify.Notifier, error) {
	if cfg.Type == "nats" {
		return notify.NewNATSNotifier(cfg.NatsURL, cfg.SubjectPrefix)
	}
	return notify.NewLogNotifier(), nil
}
