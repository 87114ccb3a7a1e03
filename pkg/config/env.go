package config

// EnvPrefix is passed to envconfig; every field carries an explicit name so it only
// matters for error messages.
const EnvPrefix = "RENTALFLEET"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:rentalfleet.db?cache=shared"
)

const (
	EnvAppEnv  = "RENTALFLEET_APP_ENV"
	EnvPort    = "RENTALFLEET_APP_PORT"
	EnvDBDSN   = "RENTALFLEET_DB_DSN"
	EnvDBHost  = "RENTALFLEET_DB_HOST"
	EnvDBUser  = "RENTALFLEET_DB_USER"
	EnvDBName  = "RENTALFLEET_DB_NAME"
	EnvSQLite  = "RENTALFLEET_USE_SQLITE"
	EnvRedis   = "RENTALFLEET_REDIS_URL"
	EnvJWTKey  = "RENTALFLEET_JWT_SECRET"
	EnvJWTIss  = "RENTALFLEET_JWT_ISSUER"
	EnvAttempt = "RENTALFLEET_ASSIGN_MAX_ATTEMPTS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
