package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Catalog      CatalogConfig
	Analytics    AnalyticsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend() {
	case StorageMemory:
	case StorageRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s or %s is required for the redis storage backend", EnvRedisURL, EnvRedisAddr)
		}
	case StorageSQL:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required for the sql storage backend", EnvDBDSN)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageBackend, c.Storage.Kind)
	}

	if strings.TrimSpace(c.Catalog.Source) == "" {
		return fmt.Errorf("%s is required", EnvCatalogSource)
	}

	for _, sink := range c.Analytics.SinkNames() {
		switch sink {
		case SinkLog, SinkDataLayer:
		case SinkPubSub:
			if c.GCP.ProjectID == "" || c.PubSub.AnalyticsTopic == "" {
				return fmt.Errorf("%s and %s are required for the pubsub analytics sink", EnvGCPProjectID, EnvPubSubAnalyticsTopic)
			}
		case SinkBigQuery:
			if c.GCP.ProjectID == "" {
				return fmt.Errorf("%s is required for the bigquery analytics sink", EnvGCPProjectID)
			}
		default:
			return fmt.Errorf("unsupported analytics sink %q", sink)
		}
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Kind string `envconfig:"STOREFRONT_STORAGE_BACKEND" default:"memory"`
}

// Backend returns the normalized slot backend name.
func (s StorageConfig) Backend() string {
	kind := strings.ToLower(strings.TrimSpace(s.Kind))
	if kind == "" {
		return StorageMemory
	}
	return kind
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (d DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(d.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	SlotTTL      time.Duration `envconfig:"STOREFRONT_REDIS_SLOT_TTL" default:"0"`
	CartChannel  string        `envconfig:"STOREFRONT_REDIS_CART_CHANNEL" default:"cart:updated"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

type CatalogConfig struct {
	// Source is an http(s) URL or a local file path to the products JSON array.
	Source string `envconfig:"STOREFRONT_CATALOG_SOURCE" default:"data/products.json"`
}

type AnalyticsConfig struct {
	Sinks         []string `envconfig:"STOREFRONT_ANALYTICS_SINKS" default:"log"`
	Debug         bool     `envconfig:"STOREFRONT_ANALYTICS_DEBUG" default:"false"`
	DataLayerSize int      `envconfig:"STOREFRONT_ANALYTICS_DATA_LAYER_SIZE" default:"500"`
}

// SinkNames returns the configured sinks normalized and de-duplicated.
func (a AnalyticsConfig) SinkNames() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(a.Sinks))
	for _, raw := range a.Sinks {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

type GCPConfig struct {
	ProjectID              string `envconfig:"STOREFRONT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"STOREFRONT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"STOREFRONT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	AnalyticsTopic string `envconfig:"STOREFRONT_PUBSUB_ANALYTICS_TOPIC"`
}

type BigQueryConfig struct {
	Dataset     string `envconfig:"STOREFRONT_BIGQUERY_DATASET" default:"storefront"`
	EventsTable string `envconfig:"STOREFRONT_BIGQUERY_EVENTS_TABLE" default:"analytics_events"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
