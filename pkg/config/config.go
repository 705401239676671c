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
	JWT           JWTConfig
	Credentials   CredentialsConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Reports       ReportsConfig
	Static        StaticConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Credentials.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HOMESCOUT_APP_ENV" required:"true"`
	Port         string `envconfig:"HOMESCOUT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HOMESCOUT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HOMESCOUT_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"HOMESCOUT_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HOMESCOUT_DB_DSN"`
	Driver string `envconfig:"HOMESCOUT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HOMESCOUT_DB_HOST"`
	LegacyPort     int    `envconfig:"HOMESCOUT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HOMESCOUT_DB_USER"`
	LegacyPassword string `envconfig:"HOMESCOUT_DB_PASSWORD"`
	LegacyName     string `envconfig:"HOMESCOUT_DB_NAME"`
	LegacySSLMode  string `envconfig:"HOMESCOUT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HOMESCOUT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"HOMESCOUT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"HOMESCOUT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HOMESCOUT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HOMESCOUT_REDIS_URL"`
	Address      string        `envconfig:"HOMESCOUT_REDIS_ADDR"`
	Password     string        `envconfig:"HOMESCOUT_REDIS_PASSWORD"`
	DB           int           `envconfig:"HOMESCOUT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HOMESCOUT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HOMESCOUT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HOMESCOUT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HOMESCOUT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HOMESCOUT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"HOMESCOUT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"HOMESCOUT_JWT_ISSUER" default:"homescout"`
	ExpirationMinutes      int    `envconfig:"HOMESCOUT_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"HOMESCOUT_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// CredentialsConfig selects how user credentials are stored and compared.
type CredentialsConfig struct {
	Scheme           string `envconfig:"HOMESCOUT_CREDENTIAL_SCHEME" default:"plain"`
	ArgonMemoryKB    int    `envconfig:"HOMESCOUT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int    `envconfig:"HOMESCOUT_ARGON_TIME" default:"3"`
	ArgonParallelism int    `envconfig:"HOMESCOUT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int    `envconfig:"HOMESCOUT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int    `envconfig:"HOMESCOUT_ARGON_KEY_LEN" default:"32"`
}

func (c CredentialsConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Scheme)) {
	case CredentialSchemePlain, CredentialSchemeArgon2id:
		return nil
	}
	return fmt.Errorf("%s must be one of %q or %q", EnvCredentialScheme, CredentialSchemePlain, CredentialSchemeArgon2id)
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"HOMESCOUT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentifierLimit  int           `envconfig:"HOMESCOUT_AUTH_RATE_LIMIT_LOGIN_IDENTIFIER_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"HOMESCOUT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"HOMESCOUT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIdentifierLim int           `envconfig:"HOMESCOUT_AUTH_RATE_LIMIT_REGISTER_IDENTIFIER_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"HOMESCOUT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HOMESCOUT_AUTO_MIGRATE" default:"false"`
}

// ReportsConfig controls the dashboard sample fallback.
type ReportsConfig struct {
	SampleFallback bool `envconfig:"HOMESCOUT_REPORTS_SAMPLE_FALLBACK" default:"true"`
}

type StaticConfig struct {
	Dir string `envconfig:"HOMESCOUT_STATIC_DIR" default:"static"`
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
