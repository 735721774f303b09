package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyStationDBType string = "STATION_DB_TYPE"
	EnvKeyStationDbPath string = "STATION_DB_PATH"

	EnvKeyStationHttpHostPort string = "STATION_HTTP_HOST_PORT"

	EnvKeyStationDefaultRate  string = "STATION_DEFAULT_RATE"
	EnvKeyStationDefaultBurst string = "STATION_DEFAULT_BURST"

	EnvKeyEcoflowAccessKey string = "ECOFLOW_ACCESS_KEY"
	EnvKeyEcoflowSecretKey string = "ECOFLOW_SECRET_KEY"
	EnvKeyMailAPIKey       string = "MAIL_API_KEY"

	LoggerNameStationCore      string = "station_core"
	LoggerNameRestfulServer    string = "restful_server"
	LoggerNameEcoflowClient    string = "ecoflow_client"
	LoggerNameMailClient       string = "mail_client"
	LoggerFieldStationCategory string = "category"
	LoggerCategoryCollector    string = "collector"
	LoggerCategoryAlert        string = "alert"
	LoggerCategoryBackup       string = "backup"
	LoggerCategorySettings     string = "settings"
	LoggerCategoryDevices      string = "devices"
)
