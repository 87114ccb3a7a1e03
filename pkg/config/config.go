package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Assignment   AssignmentConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Tracing      TracingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = defaultSQLiteDSN
		}
		cfg.DB.Driver = DriverSQLite
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RENTALFLEET_APP_ENV" required:"true"`
	Port         string `envconfig:"RENTALFLEET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RENTALFLEET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENTALFLEET_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"RENTALFLEET_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"RENTALFLEET_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"RENTALFLEET_DB_DSN"`
	Driver string `envconfig:"RENTALFLEET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RENTALFLEET_DB_HOST"`
	LegacyPort     int    `envconfig:"RENTALFLEET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RENTALFLEET_DB_USER"`
	LegacyPassword string `envconfig:"RENTALFLEET_DB_PASSWORD"`
	LegacyName     string `envconfig:"RENTALFLEET_DB_NAME"`
	LegacySSLMode  string `envconfig:"RENTALFLEET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RENTALFLEET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENTALFLEET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENTALFLEET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENTALFLEET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"RENTALFLEET_DB_SLOW_QUERY" default:"250ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENTALFLEET_REDIS_URL"`
	Address      string        `envconfig:"RENTALFLEET_REDIS_ADDR"`
	Password     string        `envconfig:"RENTALFLEET_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENTALFLEET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENTALFLEET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENTALFLEET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENTALFLEET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENTALFLEET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENTALFLEET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint has been configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"RENTALFLEET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RENTALFLEET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RENTALFLEET_JWT_EXPIRATION_MINUTES" default:"60"`
	// Leeway tolerates clock skew between the identity service and this API.
	Leeway time.Duration `envconfig:"RENTALFLEET_JWT_LEEWAY" default:"30s"`
}

// AssignmentConfig tunes the optimistic retry loop around inventory assignment.
type AssignmentConfig struct {
	MaxAttempts  int           `envconfig:"RENTALFLEET_ASSIGN_MAX_ATTEMPTS" default:"3"`
	RetryBackoff time.Duration `envconfig:"RENTALFLEET_ASSIGN_RETRY_BACKOFF" default:"25ms"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RENTALFLEET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RENTALFLEET_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"RENTALFLEET_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"RENTALFLEET_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	DomainTopic    string        `envconfig:"RENTALFLEET_PUBSUB_DOMAIN_TOPIC" default:"rf-domain-events"`
	DelayThreshold time.Duration `envconfig:"RENTALFLEET_PUBSUB_DELAY_THRESHOLD" default:"10ms"`
	CountThreshold int           `envconfig:"RENTALFLEET_PUBSUB_COUNT_THRESHOLD" default:"100"`
	PublishTimeout time.Duration `envconfig:"RENTALFLEET_PUBSUB_PUBLISH_TIMEOUT" default:"30s"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"RENTALFLEET_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"RENTALFLEET_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"RENTALFLEET_OUTBOX_MAX_ATTEMPTS" default:"10"`
	// MetricsPort exposes /metrics from the publisher when set.
	MetricsPort string `envconfig:"RENTALFLEET_OUTBOX_METRICS_PORT"`
}

type TracingConfig struct {
	OTLPEndpoint string  `envconfig:"RENTALFLEET_OTEL_ENDPOINT"`
	OTLPInsecure bool    `envconfig:"RENTALFLEET_OTEL_INSECURE" default:"false"`
	SampleRatio  float64 `envconfig:"RENTALFLEET_OTEL_SAMPLE_RATIO" default:"1"`
}

// Enabled reports whether spans should be exported.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.OTLPEndpoint) != ""
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
