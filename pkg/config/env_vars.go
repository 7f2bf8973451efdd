package config

// EnvPrefix is passed to envconfig; every variable already carries the full
// name in its tag, so the prefix itself stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "CROWDFUND_DB_DSN"
	EnvDBHost = "CROWDFUND_DB_HOST"
	EnvDBUser = "CROWDFUND_DB_USER"
	EnvDBName = "CROWDFUND_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
