package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Campaign CampaignConfig
	DB       DBConfig
	Redis    RedisConfig
	Shopify  ShopifyConfig
	Eventing EventingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CROWDFUND_APP_ENV" required:"true"`
	Port         string `envconfig:"CROWDFUND_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CROWDFUND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CROWDFUND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CampaignConfig pins the single campaign this deployment serves. The whole
// application is intentionally single-tenant.
type CampaignConfig struct {
	ID string `envconfig:"CROWDFUND_CAMPAIGN_ID" default:"dreamplay-one"`
}

type DBConfig struct {
	DSN    string `envconfig:"CROWDFUND_DB_DSN"`
	Driver string `envconfig:"CROWDFUND_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CROWDFUND_DB_HOST"`
	LegacyPort     int    `envconfig:"CROWDFUND_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CROWDFUND_DB_USER"`
	LegacyPassword string `envconfig:"CROWDFUND_DB_PASSWORD"`
	LegacyName     string `envconfig:"CROWDFUND_DB_NAME"`
	LegacySSLMode  string `envconfig:"CROWDFUND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CROWDFUND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CROWDFUND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CROWDFUND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CROWDFUND_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"CROWDFUND_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CROWDFUND_REDIS_URL"`
	Address      string        `envconfig:"CROWDFUND_REDIS_ADDR"`
	Password     string        `envconfig:"CROWDFUND_REDIS_PASSWORD"`
	DB           int           `envconfig:"CROWDFUND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CROWDFUND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CROWDFUND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CROWDFUND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CROWDFUND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CROWDFUND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether a redis endpoint was supplied at all. The
// webhook idempotency guard is skipped when it was not.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

// ShopifyConfig carries the webhook shared secret. An empty secret means
// signature verification is skipped, mirroring the store-side default.
type ShopifyConfig struct {
	WebhookSecret string `envconfig:"CROWDFUND_SHOPIFY_WEBHOOK_SECRET"`
}

type EventingConfig struct {
	WebhookIdempotencyTTL time.Duration `envconfig:"CROWDFUND_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
