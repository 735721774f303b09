package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/models"
)

func (rs *RestfulServer) RunCollect(c *gin.Context) {
	summary, err := rs.Station.Collector.CollectAllUserReadings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (rs *RestfulServer) RunAlerts(c *gin.Context) {
	summary, err := rs.Station.Alert.CheckDeviceAlerts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (rs *RestfulServer) RunBackups(c *gin.Context) {
	summary, err := rs.Station.Backup.CheckAndRunBackups()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (rs *RestfulServer) GetAlerts(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	alerts, err := rs.Station.Alert.GetDeviceAlerts(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (rs *RestfulServer) GetReadings(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	readings, err := rs.Station.Settings.GetDeviceReadings(deviceID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, readings)
}

type CollectionSettingsRequest struct {
	CollectionIntervalMinutes int  `json:"collectionIntervalMinutes"`
	BackupEnabled             bool `json:"backupEnabled"`
	BackupIntervalHours       int  `json:"backupIntervalHours"`
	RetentionPeriodDays       int  `json:"retentionPeriodDays"`
}

var collectionSettingsSchema = z.Struct(z.Shape{
	"CollectionIntervalMinutes": z.Int().Required().GTE(1),
	"BackupEnabled":             z.Bool(),
	"BackupIntervalHours":       z.Int().Required().GTE(1),
	"RetentionPeriodDays":       z.Int().Required().GTE(1),
})

func (rs *RestfulServer) UpdateCollectionSettings(c *gin.Context) {
	userID := c.Param("user_id")

	var req CollectionSettingsRequest
	if err := collectionSettingsSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	err := rs.Station.Settings.UpsertCollectionSettings(userID, &models.CollectionSettings{
		CollectionIntervalMinutes: req.CollectionIntervalMinutes,
		BackupEnabled:             req.BackupEnabled,
		BackupIntervalHours:       req.BackupIntervalHours,
		RetentionPeriodDays:       req.RetentionPeriodDays,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

type NotificationSettingsRequest struct {
	BatteryAlertsEnabled     bool    `json:"batteryAlertsEnabled"`
	TemperatureAlertsEnabled bool    `json:"temperatureAlertsEnabled"`
	OfflineAlertsEnabled     bool    `json:"offlineAlertsEnabled"`
	BatteryThreshold         float64 `json:"batteryThreshold"`
}

var notificationSettingsSchema = z.Struct(z.Shape{
	"BatteryAlertsEnabled":     z.Bool(),
	"TemperatureAlertsEnabled": z.Bool(),
	"OfflineAlertsEnabled":     z.Bool(),
	"BatteryThreshold":         z.Float64().Required().GT(0).LTE(100),
})

func (rs *RestfulServer) UpdateNotificationSettings(c *gin.Context) {
	userID := c.Param("user_id")

	var req NotificationSettingsRequest
	if err := notificationSettingsSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	err := rs.Station.Settings.UpsertNotificationSettings(userID, &models.NotificationSettings{
		BatteryAlertsEnabled:     req.BatteryAlertsEnabled,
		TemperatureAlertsEnabled: req.TemperatureAlertsEnabled,
		OfflineAlertsEnabled:     req.OfflineAlertsEnabled,
		BatteryThreshold:         req.BatteryThreshold,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) SyncDevices(c *gin.Context) {
	userID := c.Param("user_id")

	synced, err := rs.Station.Devices.SyncUserDevices(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"synced": synced})
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
