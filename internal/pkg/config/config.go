package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StorageMongo = "mongo"
	StorageMySQL = "mysql"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StorageDriver selects the persistence backend: "mongo" or "mysql".
	StorageDriver string `env:"STORAGE_DRIVER, default=mongo"`
	// SeedUsers inserts the demo customer accounts at startup.
	SeedUsers bool `env:"SEED_USERS, default=false"`
	// AuthRateLimit is the number of /v1/auth requests allowed per IP per minute.
	AuthRateLimit int `env:"AUTH_RATE_LIMIT, default=60"`

	JWT   JWTConfig
	Mongo MongoConfig
	MySQL MySQLConfig
	Redis RedisConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET, required"`
	TTL    time.Duration `env:"JWT_TTL,    default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=car_rental"`
}

type MySQLConfig struct {
	DSN string `env:"MYSQL_DSN, default=root:root@tcp(localhost:3306)/car_rental?parseTime=true&multiStatements=true"`
}

type RedisConfig struct {
	// Addr empty disables the car cache.
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB,      default=0"`
	CacheTTL time.Duration `env:"CAR_CACHE_TTL, default=1m"`
	// Timeout bounds dialing and each cache command.
	Timeout time.Duration `env:"REDIS_TIMEOUT, default=500ms"`
}

// IsDevelopment reports whether the service runs in the development env.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads a .env file when present, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := LoadWith(envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith resolves the configuration from the given lookuper.
func LoadWith(lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}

	switch cfg.StorageDriver {
	case StorageMongo, StorageMySQL:
	default:
		return nil, fmt.Errorf("config: unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return &cfg, nil
}
