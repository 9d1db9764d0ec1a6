package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forkful-app/backend/config"
	"github.com/forkful-app/backend/internal/api"
	"github.com/forkful-app/backend/internal/database"
	"github.com/forkful-app/backend/internal/logging"
	"github.com/forkful-app/backend/internal/middleware"
	"github.com/forkful-app/backend/internal/router"
	"github.com/forkful-app/backend/internal/server"
	"github.com/forkful-app/backend/internal/service"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "forkful-api",
		Short: "Forkful recipe-sharing backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-url", defaults.GetString("database.url"), "Postgres DSN (empty uses SQLite)")
	cmd.PersistentFlags().String("sqlite-path", defaults.GetString("database.sqlite_path"), "SQLite database path")
	cmd.PersistentFlags().String("redis-addr", defaults.GetString("redis.addr"), "Redis address (empty disables redis)")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("jwt-secret", "", "JWT signing secret (overrides env)")
	cmd.PersistentFlags().String("storage-backend", defaults.GetString("storage.backend"), "Image storage backend (local, s3)")
	cmd.PersistentFlags().String("uploads-dir", defaults.GetString("storage.uploads_dir"), "Local uploads directory")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.url", "database-url")
	bindFlag(cmd, "database.sqlite_path", "sqlite-path")
	bindFlag(cmd, "redis.addr", "redis-addr")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "auth.jwt_secret", "jwt-secret")
	bindFlag(cmd, "storage.backend", "storage-backend")
	bindFlag(cmd, "storage.uploads_dir", "uploads-dir")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.New(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(db); err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return err
	}
	if redisClient == nil {
		logger.Warn("redis disabled; token revocation and rate limiting are off")
	}

	var storage service.ImageStorage
	staticDir := ""
	if cfg.StorageBackend == "s3" {
		storage, err = service.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region)
	} else {
		var local *service.LocalStorage
		local, err = service.NewLocalStorage(cfg.UploadsDir)
		if local != nil {
			staticDir = local.Dir()
		}
		storage = local
	}
	if err != nil {
		return err
	}

	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret,
		time.Duration(cfg.TokenTTLMinutes)*time.Minute, logger)
	imageService := service.NewImageService(storage, logger)
	recipeService := service.NewRecipeService(db, imageService, logger)

	var rateLimiter *middleware.RateLimiter
	if redisClient != nil {
		rateLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     20,
			KeyPrefix: "ratelimit:auth",
		})
	}

	engine := router.SetupRouter(router.Options{
		AuthHandler:      api.NewAuthHandler(authService, rateLimiter),
		RecipeHandler:    api.NewRecipeHandler(recipeService, authService),
		UserHandler:      api.NewUserHandler(authService, recipeService),
		UploadHandler:    api.NewUploadHandler(imageService, authService),
		CORSOrigins:      cfg.CORSOrigins,
		StaticUploadsDir: staticDir,
	})

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(engine, cfg.HTTPAddress, logger).Start(signalCtx)
}
