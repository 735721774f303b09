package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/common"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/db"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/ecoflow"
	stationHttp "github.com/drcreatives/my-ecoflow-sub000/pkg/http"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/mail"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/station"
)

func loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")

	viper.SetDefault("ecoflow.base_url", ecoflow.DefaultBaseURL)
	viper.SetDefault("mail.base_url", mail.DefaultBaseURL)
	viper.SetDefault("mail.from", "backups@localhost")
	viper.SetDefault("jobs.enabled", true)
	viper.SetDefault("jobs.collect_interval", "1m")
	viper.SetDefault("jobs.alert_interval", "1m")
	viper.SetDefault("jobs.backup_interval", "10m")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil // defaults only
		}
		return err
	}
	return nil
}

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	if err := loadConfig(); err != nil {
		log.Fatal("Error reading config.yml: ", err)
	}

	var dbInstance *db.DB
	stationDbType := os.Getenv(common.EnvKeyStationDBType)
	switch stationDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown STATION_DB_TYPE: " + stationDbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyStationHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyStationDefaultRate), 64); err != nil {
		log.Fatal("Invalid STATION_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyStationDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid STATION_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	stationCore := station.Station{
		Db: *dbInstance,
	}

	accessKey := strings.TrimSpace(os.Getenv(common.EnvKeyEcoflowAccessKey))
	secretKey := strings.TrimSpace(os.Getenv(common.EnvKeyEcoflowSecretKey))
	if accessKey != "" && secretKey != "" {
		stationCore.Cloud = ecoflow.NewClient(
			accessKey, secretKey,
			viper.GetString("ecoflow.base_url"),
			rate.Limit(defaultRate), int(defaultBurst),
		)
	} else {
		logger.Warn("ECOFLOW_ACCESS_KEY/ECOFLOW_SECRET_KEY not set; collection ticks will fail until configured")
	}

	mailAPIKey := strings.TrimSpace(os.Getenv(common.EnvKeyMailAPIKey))
	if mailAPIKey != "" {
		stationCore.Mailer = mail.NewClient(
			mailAPIKey,
			viper.GetString("mail.base_url"),
			viper.GetString("mail.from"),
		)
	} else {
		logger.Warn("MAIL_API_KEY not set; backup ticks will fail until configured")
	}

	stationCore.WithServices(station.ServiceOpts{
		Collector: stationCore.GetICollector(),
		Alert:     stationCore.GetIAlert(),
		Backup:    stationCore.GetIBackup(),
		Settings:  stationCore.GetISettings(),
		Devices:   stationCore.GetIDevices(),
	})

	if viper.GetBool("jobs.enabled") {
		startJobTickers(&stationCore, logger)
	}

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &stationHttp.RestfulServer{
		Server:           gin.Default(),
		Station:          &stationCore,
		RateLimiterStore: station.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}

// startJobTickers runs the three periodic jobs on fixed ticks. Each tick
// is independent and safe to re-invoke; overlap is avoided by the ticker
// cadence itself.
func startJobTickers(stationCore *station.Station, logger *zap.Logger) {
	run := func(name string, interval time.Duration, job func() error) {
		logger.Info("Starting job ticker",
			zap.String("job", name), zap.Duration("interval", interval))
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for range ticker.C {
				if err := job(); err != nil {
					logger.Error("Job tick failed", zap.String("job", name), zap.Error(err))
				}
			}
		}()
	}

	run("collect", viper.GetDuration("jobs.collect_interval"), func() error {
		_, err := stationCore.Collector.CollectAllUserReadings()
		return err
	})
	run("alerts", viper.GetDuration("jobs.alert_interval"), func() error {
		_, err := stationCore.Alert.CheckDeviceAlerts()
		return err
	})
	run("backups", viper.GetDuration("jobs.backup_interval"), func() error {
		_, err := stationCore.Backup.CheckAndRunBackups()
		return err
	})
}
