package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,       default=5000"`
	Env        string        `env:"ENV,        default=development"`
	LogLevel   string        `env:"LOG_LEVEL,  default=info"`
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,  default=24h"`
	CORSOrigin string        `env:"CORS_ORIGIN,  default=http://localhost:5173"`
	AppBaseURL string        `env:"APP_BASE_URL, default=http://localhost:5173"`

	UploadMaxBytes int64 `env:"UPLOAD_MAX_BYTES, default=5242880"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Mail      MailConfig
}

type MongoConfig struct {
	URI         string `env:"MONGODB_URI,    required"`
	Database    string `env:"MONGO_DB,       default=gofix"`
	MinPoolSize uint64 `env:"MONGO_MIN_POOL, default=5"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL, default=10"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RateLimitConfig struct {
	Max    int64         `env:"RATE_LIMIT_MAX,    default=100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
}

type MailConfig struct {
	Host        string `env:"SMTP_HOST,          default=smtp.gmail.com"`
	Port        int    `env:"SMTP_PORT,          default=587"`
	User        string `env:"EMAIL_USER"`
	AppPassword string `env:"EMAIL_APP_PASSWORD"`
	AdminEmail  string `env:"ADMIN_EMAIL"`
	QueueSize   int    `env:"MAIL_QUEUE_SIZE,    default=100"`
}

// SMTPEnabled reports whether outbound mail credentials are present.
func (m MailConfig) SMTPEnabled() bool {
	return m.User != "" && m.AppPassword != ""
}

// IsDevelopment reports whether error detail may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from the environment. Missing required
// variables produce an error.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Mongo.MinPoolSize > cfg.Mongo.MaxPoolSize {
		return nil, fmt.Errorf("config: MONGO_MIN_POOL (%d) exceeds MONGO_MAX_POOL (%d)", cfg.Mongo.MinPoolSize, cfg.Mongo.MaxPoolSize)
	}
	if cfg.RateLimit.Max <= 0 || cfg.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("config: rate limit max and window must be positive")
	}
	return &cfg, nil
}
