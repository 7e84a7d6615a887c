package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string   `env:"PORT,         default=8000"`
	Env         string   `env:"ENV,          default=development"`
	LogLevel    string   `env:"LOG_LEVEL,    default=info"`
	CORSOrigin  []string `env:"CORS_ORIGIN,  default=http://localhost:3000"`
	BodyLimit   string   `env:"BODY_LIMIT,   default=16KB"`
	UploadLimit string   `env:"UPLOAD_LIMIT, default=10MB"`
	UploadDir   string   `env:"UPLOAD_DIR,   default=./public/temp"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Media MediaConfig
}

type AuthConfig struct {
	AccessSecret   string        `env:"ACCESS_TOKEN_SECRET"`
	AccessTTL      time.Duration `env:"ACCESS_TOKEN_EXPIRY,  default=15m"`
	RefreshSecret  string        `env:"REFRESH_TOKEN_SECRET"`
	RefreshTTL     time.Duration `env:"REFRESH_TOKEN_EXPIRY, default=240h"`
	BcryptCost     int           `env:"BCRYPT_COST,          default=10"`
	CookieSecure   bool          `env:"COOKIE_SECURE,        default=true"`
	RefreshLockTTL time.Duration `env:"REFRESH_LOCK_TTL,     default=5s"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=videotube"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=100"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type MediaConfig struct {
	Bucket        string `env:"S3_BUCKET,          default=avatars"`
	Region        string `env:"S3_REGION,          default=us-east-1"`
	Endpoint      string `env:"S3_ENDPOINT"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	KeyPrefix     string `env:"S3_KEY_PREFIX,      default=users"`
}

// IsDevelopment reports whether the service runs with local-dev defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l and validates it.
func LoadWith(l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	a := c.Auth
	switch {
	case a.AccessSecret == "" || a.RefreshSecret == "":
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	case a.AccessSecret == a.RefreshSecret:
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	case a.AccessTTL <= 0 || a.RefreshTTL <= 0:
		return errors.New("token expiries must be positive")
	case a.AccessTTL >= a.RefreshTTL:
		return errors.New("ACCESS_TOKEN_EXPIRY must be shorter than REFRESH_TOKEN_EXPIRY")
	}
	return nil
}
