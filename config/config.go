package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix = "FORKFUL"

	defaultHTTPAddress = "0.0.0.0:8080"
	defaultLogLevel    = "info"
	defaultUploadsDir  = "uploads"
	defaultTokenTTL    = 24 * 60 // minutes
)

// Config captures runtime configuration for the API server.
type Config struct {
	HTTPAddress string
	LogLevel    string

	// Database. DatabaseURL is a postgres DSN; when empty, SQLitePath is
	// used instead (local dev and tests).
	DatabaseURL string
	SQLitePath  string

	// Redis, optional. Empty address disables token revocation and rate
	// limiting.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	TokenTTLMinutes int

	// Image storage. Backend is "local" or "s3".
	StorageBackend string
	UploadsDir     string
	S3Bucket       string
	S3Region       string

	CORSOrigins []string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.address", defaultHTTPAddress)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("database.url", "")
	v.SetDefault("database.sqlite_path", "forkful.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.token_ttl_minutes", defaultTokenTTL)
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.uploads_dir", defaultUploadsDir)
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "")
	v.SetDefault("cors.origins", []string{"http://localhost:5173"})
}

// Load parses runtime configuration from viper.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPAddress:     v.GetString("http.address"),
		LogLevel:        v.GetString("log.level"),
		DatabaseURL:     v.GetString("database.url"),
		SQLitePath:      v.GetString("database.sqlite_path"),
		RedisAddr:       v.GetString("redis.addr"),
		RedisPassword:   v.GetString("redis.password"),
		RedisDB:         v.GetInt("redis.db"),
		JWTSecret:       v.GetString("auth.jwt_secret"),
		TokenTTLMinutes: v.GetInt("auth.token_ttl_minutes"),
		StorageBackend:  v.GetString("storage.backend"),
		UploadsDir:      v.GetString("storage.uploads_dir"),
		S3Bucket:        v.GetString("storage.s3_bucket"),
		S3Region:        v.GetString("storage.s3_region"),
		CORSOrigins:     v.GetStringSlice("cors.origins"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("auth.token_ttl_minutes must be positive")
	}
	switch c.StorageBackend {
	case "local":
		if strings.TrimSpace(c.UploadsDir) == "" {
			return fmt.Errorf("storage.uploads_dir is required for local storage")
		}
	case "s3":
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("storage.s3_bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	return nil
}
