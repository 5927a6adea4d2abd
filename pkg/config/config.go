package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Password      PasswordConfig
	PasswordReset PasswordResetConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"GLASSWORKS_APP_ENV" required:"true"`
	Port         string `envconfig:"GLASSWORKS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GLASSWORKS_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"GLASSWORKS_LOG_FORMAT"`
	LogWarnStack bool   `envconfig:"GLASSWORKS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN       string `envconfig:"GLASSWORKS_DB_DSN"`
	Driver    string `envconfig:"GLASSWORKS_DB_DRIVER" default:"postgres"`
	SQLiteDSN string `envconfig:"GLASSWORKS_DB_SQLITE_DSN" default:"file:glassworks?mode=memory&cache=shared"`

	LegacyHost     string `envconfig:"GLASSWORKS_DB_HOST"`
	LegacyPort     int    `envconfig:"GLASSWORKS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GLASSWORKS_DB_USER"`
	LegacyPassword string `envconfig:"GLASSWORKS_DB_PASSWORD"`
	LegacyName     string `envconfig:"GLASSWORKS_DB_NAME"`
	LegacySSLMode  string `envconfig:"GLASSWORKS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GLASSWORKS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GLASSWORKS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GLASSWORKS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GLASSWORKS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// UsesSQLite reports whether the in-memory SQLite backend was selected.
func (db DBConfig) UsesSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"GLASSWORKS_REDIS_URL"`
	Address      string        `envconfig:"GLASSWORKS_REDIS_ADDR"`
	Password     string        `envconfig:"GLASSWORKS_REDIS_PASSWORD"`
	DB           int           `envconfig:"GLASSWORKS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GLASSWORKS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GLASSWORKS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GLASSWORKS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GLASSWORKS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GLASSWORKS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured. Without one the
// API keeps sessions in process memory.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type SessionConfig struct {
	Secret       string `envconfig:"GLASSWORKS_SESSION_SECRET" required:"true"`
	Issuer       string `envconfig:"GLASSWORKS_SESSION_ISSUER" default:"glassworks"`
	TTLMinutes   int    `envconfig:"GLASSWORKS_SESSION_TTL_MINUTES" default:"10080"`
	CookieName   string `envconfig:"GLASSWORKS_SESSION_COOKIE_NAME" default:"glassworks_session"`
	CookieSecure bool   `envconfig:"GLASSWORKS_SESSION_COOKIE_SECURE" default:"false"`
}

// TTL returns the session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GLASSWORKS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GLASSWORKS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GLASSWORKS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GLASSWORKS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GLASSWORKS_ARGON_KEY_LEN" default:"32"`
}

type PasswordResetConfig struct {
	TokenTTL time.Duration `envconfig:"GLASSWORKS_PASSWORD_RESET_TTL" default:"1h"`
	LinkBase string        `envconfig:"GLASSWORKS_PASSWORD_RESET_LINK_BASE" default:"http://localhost:5173/reset-password"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"GLASSWORKS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentityLimit    int           `envconfig:"GLASSWORKS_AUTH_RATE_LIMIT_LOGIN_IDENTITY_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"GLASSWORKS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"GLASSWORKS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIdentityLimit int           `envconfig:"GLASSWORKS_AUTH_RATE_LIMIT_REGISTER_IDENTITY_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"GLASSWORKS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	ResetWindow           time.Duration `envconfig:"GLASSWORKS_AUTH_RATE_LIMIT_RESET_WINDOW" default:"15m"`
	ResetIdentityLimit    int           `envconfig:"GLASSWORKS_AUTH_RATE_LIMIT_RESET_IDENTITY_LIMIT" default:"3"`
	ResetIPLimit          int           `envconfig:"GLASSWORKS_AUTH_RATE_LIMIT_RESET_IP_LIMIT" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GLASSWORKS_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GLASSWORKS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.UsesSQLite() {
		if db.SQLiteDSN == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBSQLiteDSN, EnvDBDriver, DriverSQLite)
		}
		return nil
	}
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
