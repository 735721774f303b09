package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/station"
)

type RestfulServer struct {
	Server           *gin.Engine
	Station          *station.Station
	RateLimiterStore *station.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	jobs := rs.Server.Group("/jobs")
	{
		jobs.POST("/collect", rs.RunCollect)
		jobs.POST("/alerts", rs.RunAlerts)
		jobs.POST("/backups", rs.RunBackups)
	}

	devices := rs.Server.Group("/devices/:device_id")
	{
		devices.GET("/alerts", rs.GetAlerts)
		devices.GET("/readings", rs.GetReadings)
		devices.POST("/limiter", rs.PostLimiter)
	}

	users := rs.Server.Group("/users/:user_id")
	{
		users.POST("/settings/collection", rs.UpdateCollectionSettings)
		users.POST("/settings/notifications", rs.UpdateNotificationSettings)
		users.POST("/devices/sync", rs.SyncDevices)
	}
}
