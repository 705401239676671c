package config

const EnvPrefix = "HOMESCOUT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	CredentialSchemePlain    = "plain"
	CredentialSchemeArgon2id = "argon2id"
)

const (
	EnvAppEnv           = "HOMESCOUT_APP_ENV"
	EnvPort             = "HOMESCOUT_APP_PORT"
	EnvDBDSN            = "HOMESCOUT_DB_DSN"
	EnvDBHost           = "HOMESCOUT_DB_HOST"
	EnvDBPort           = "HOMESCOUT_DB_PORT"
	EnvDBUser           = "HOMESCOUT_DB_USER"
	EnvDBPassword       = "HOMESCOUT_DB_PASSWORD"
	EnvDBName           = "HOMESCOUT_DB_NAME"
	EnvRedisURL         = "HOMESCOUT_REDIS_URL"
	EnvJWTSecret        = "HOMESCOUT_JWT_SECRET"
	EnvCredentialScheme = "HOMESCOUT_CREDENTIAL_SCHEME"
	EnvSampleFallback   = "HOMESCOUT_REPORTS_SAMPLE_FALLBACK"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
