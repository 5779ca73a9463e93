package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SinkLog       = "log"
	SinkDataLayer = "datalayer"
	SinkPubSub    = "pubsub"
	SinkBigQuery  = "bigquery"
)

const (
	EnvAppEnv               = "STOREFRONT_APP_ENV"
	EnvPort                 = "STOREFRONT_APP_PORT"
	EnvLogLevel             = "STOREFRONT_LOG_LEVEL"
	EnvStorageBackend       = "STOREFRONT_STORAGE_BACKEND"
	EnvDBDSN                = "STOREFRONT_DB_DSN"
	EnvDBDriver             = "STOREFRONT_DB_DRIVER"
	EnvRedisURL             = "STOREFRONT_REDIS_URL"
	EnvRedisAddr            = "STOREFRONT_REDIS_ADDR"
	EnvCatalogSource        = "STOREFRONT_CATALOG_SOURCE"
	EnvAnalyticsSinks       = "STOREFRONT_ANALYTICS_SINKS"
	EnvAnalyticsDebug       = "STOREFRONT_ANALYTICS_DEBUG"
	EnvGCPProjectID         = "STOREFRONT_GCP_PROJECT_ID"
	EnvPubSubAnalyticsTopic = "STOREFRONT_PUBSUB_ANALYTICS_TOPIC"
	EnvCORSAllowedOrigins   = "STOREFRONT_CORS_ALLOWED_ORIGINS"
)
