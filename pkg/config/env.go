package config

// EnvPrefix is empty because every field carries its full variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "GLASSWORKS_APP_ENV"
	EnvPort        = "GLASSWORKS_APP_PORT"
	EnvLogLevel    = "GLASSWORKS_LOG_LEVEL"
	EnvDBDSN       = "GLASSWORKS_DB_DSN"
	EnvDBDriver    = "GLASSWORKS_DB_DRIVER"
	EnvDBSQLiteDSN = "GLASSWORKS_DB_SQLITE_DSN"
	EnvDBHost      = "GLASSWORKS_DB_HOST"
	EnvDBPort      = "GLASSWORKS_DB_PORT"
	EnvDBUser      = "GLASSWORKS_DB_USER"
	EnvDBPassword  = "GLASSWORKS_DB_PASSWORD"
	EnvDBName      = "GLASSWORKS_DB_NAME"
	EnvDBSSLMode   = "GLASSWORKS_DB_SSLMODE"

	EnvRedisURL = "GLASSWORKS_REDIS_URL"

	EnvSessionSecret     = "GLASSWORKS_SESSION_SECRET"
	EnvSessionIssuer     = "GLASSWORKS_SESSION_ISSUER"
	EnvSessionTTLMinutes = "GLASSWORKS_SESSION_TTL_MINUTES"

	EnvPasswordResetTTL = "GLASSWORKS_PASSWORD_RESET_TTL"
	EnvCORSOrigins      = "GLASSWORKS_CORS_ALLOWED_ORIGINS"
	EnvAutoMigrate      = "GLASSWORKS_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
