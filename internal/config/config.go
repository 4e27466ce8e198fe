package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		Timezone           string   `mapstructure:"timezone"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Storage struct {
		Driver     string `mapstructure:"driver"` // postgres, sqlite or memory
		SQLitePath string `mapstructure:"sqlite_path"`
	} `mapstructure:"storage"`

	Database struct {
		Host         string        `mapstructure:"host"`
		Port         int           `mapstructure:"port"`
		User         string        `mapstructure:"user"`
		Password     string        `mapstructure:"password"`
		Name         string        `mapstructure:"name"`
		SSLMode      string        `mapstructure:"ssl_mode"`
		MaxConns     int32         `mapstructure:"max_conns"`
		QueryTimeout time.Duration `mapstructure:"query_timeout"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`

	Backup struct {
		Enabled   bool          `mapstructure:"enabled"`
		Endpoint  string        `mapstructure:"endpoint"`
		Region    string        `mapstructure:"region"`
		Bucket    string        `mapstructure:"bucket"`
		AccessKey string        `mapstructure:"access_key"`
		SecretKey string        `mapstructure:"secret_key"`
		Prefix    string        `mapstructure:"prefix"`
		Interval  time.Duration `mapstructure:"interval"`
	} `mapstructure:"backup"`

	Seed struct {
		AdminUsername string `mapstructure:"admin_username"`
		AdminPassword string `mapstructure:"admin_password"`
		AdminFullName string `mapstructure:"admin_full_name"`
	} `mapstructure:"seed"`
}

// DSN returns the Postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name, c.Database.SSLMode)
}

// Load reads configs/config.yaml plus the environment and exits on error
func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	cfg, err := LoadFrom("configs/config.yaml")
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}
	return cfg
}

// LoadFrom reads the optional YAML file at path and applies defaults and
// environment overrides.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	// Auto bind environment variables (SERVER_PORT, REDIS_ADDR, ...)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timezone", "Asia/Ho_Chi_Minh")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("storage.sqlite_path", "data/dorm.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "dorm_db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.query_timeout", 5*time.Second)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "dorm-backend")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("backup.region", "auto")
	v.SetDefault("backup.prefix", "backups/")
	v.SetDefault("backup.interval", 6*time.Hour)
	v.SetDefault("seed.admin_username", "admin")
	v.SetDefault("seed.admin_full_name", "Administrator")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	applyEnvOverrides(&cfg)

	switch cfg.Storage.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// Override JWT secret from environment if not set
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWT.Secret == "" && cfg.Backup.Enabled {
		// disaster recovery: the secret is also kept in the backup bucket
		log.Printf("[Config] JWT_SECRET not set, fetching from backup bucket...")
		cfg.JWT.Secret = fetchJWTSecret(&cfg)
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET not found in environment or backup bucket")
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	if cfg.Redis.Addr == "" {
		if host := os.Getenv("REDIS_SERVICE_HOST"); host != "" {
			port := os.Getenv("REDIS_SERVICE_PORT")
			if port == "" {
				port = "6379"
			}
			cfg.Redis.Addr = host + ":" + port
		}
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}

	if key := os.Getenv("BACKUP_ACCESS_KEY"); key != "" {
		cfg.Backup.AccessKey = key
	}
	if secret := os.Getenv("BACKUP_SECRET_KEY"); secret != "" {
		cfg.Backup.SecretKey = secret
	}
	if pass := os.Getenv("SEED_ADMIN_PASSWORD"); pass != "" {
		cfg.Seed.AdminPassword = pass
	}
}
