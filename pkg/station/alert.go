package station

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/common"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/models"
)

const (
	defaultBatteryThreshold = 20.0

	// Temperature thresholds are fixed, deliberately not the
	// user-configurable battery one.
	temperatureHighThreshold     = 45.0
	temperatureCriticalThreshold = 55.0

	batteryCriticalLevel = 10.0

	offlineAfter = 30 * time.Minute

	batteryDedupWindow     = 60 * time.Minute
	temperatureDedupWindow = 60 * time.Minute
	offlineDedupWindow     = 120 * time.Minute
)

// checkDeviceAlerts is one alert-evaluation tick over all active devices.
// The three rules are independent and order-insensitive; each is gated by
// its own dedup window, so re-invoking within a window is a no-op.
func (s *Station) checkDeviceAlerts() (*models.AlertSummary, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameStationCore,
		zap.String(common.LoggerFieldStationCategory, common.LoggerCategoryAlert),
	)

	summary := &models.AlertSummary{Errors: []string{}}
	now := time.Now()

	var devices []models.Device
	if err := s.Db.Conn.Where("active = ?", true).Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("load devices: %w", err)
	}

	for _, device := range devices {
		created, err := s.checkOneDevice(logger, device, now)
		if err != nil {
			logger.Error("Alert check failed for device",
				zap.String("device_id", device.ID), zap.Error(err))
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("device %s: %v", device.ID, err))
			continue
		}
		summary.DevicesChecked++
		summary.AlertsCreated += created
	}

	logger.Info("Alert tick finished",
		zap.Int("devices_checked", summary.DevicesChecked),
		zap.Int("alerts_created", summary.AlertsCreated),
		zap.Int("errors", len(summary.Errors)))

	return summary, nil
}

func (s *Station) checkOneDevice(logger *zap.Logger, device models.Device, now time.Time) (int, error) {
	var latest models.Reading
	err := s.Db.Conn.
		Where("device_id = ?", device.ID).
		Order("recorded_at desc").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// never collected, nothing to evaluate
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load latest reading: %w", err)
	}

	settings := s.notificationSettingsOrDefault(device.UserID)

	created := 0

	if settings.BatteryAlertsEnabled &&
		latest.BatteryLevel != nil && *latest.BatteryLevel < settings.BatteryThreshold {
		severity := models.AlertSeverityHigh
		if *latest.BatteryLevel < batteryCriticalLevel {
			severity = models.AlertSeverityCritical
		}
		ok, err := s.createAlertDeduped(logger, models.Alert{
			DeviceID: device.ID,
			Type:     models.AlertTypeBatteryLow,
			Severity: severity,
			Message: fmt.Sprintf("Battery level %.0f%% is below threshold %.0f%%",
				*latest.BatteryLevel, settings.BatteryThreshold),
			CreatedAt: now,
		}, batteryDedupWindow, now)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	if settings.TemperatureAlertsEnabled &&
		latest.Temperature != nil && *latest.Temperature > temperatureHighThreshold {
		severity := models.AlertSeverityHigh
		if *latest.Temperature > temperatureCriticalThreshold {
			severity = models.AlertSeverityCritical
		}
		ok, err := s.createAlertDeduped(logger, models.Alert{
			DeviceID: device.ID,
			Type:     models.AlertTypeTemperatureHigh,
			Severity: severity,
			Message: fmt.Sprintf("Temperature %.1f°C exceeded %.0f°C",
				*latest.Temperature, temperatureHighThreshold),
			CreatedAt: now,
		}, temperatureDedupWindow, now)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	if settings.OfflineAlertsEnabled && now.Sub(latest.RecordedAt) > offlineAfter {
		ok, err := s.createAlertDeduped(logger, models.Alert{
			DeviceID: device.ID,
			Type:     models.AlertTypeDeviceOffline,
			Severity: models.AlertSeverityMedium,
			Message: fmt.Sprintf("No telemetry received for %d minutes",
				int(now.Sub(latest.RecordedAt).Minutes())),
			CreatedAt: now,
		}, offlineDedupWindow, now)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	return created, nil
}

// createAlertDeduped inserts the alert unless one of the same type exists
// for the device inside the window. Check-then-insert is a known race
// under overlapping ticks; tick intervals dwarf invocation time.
func (s *Station) createAlertDeduped(logger *zap.Logger, alert models.Alert, window time.Duration, now time.Time) (bool, error) {
	var count int64
	err := s.Db.Conn.Model(&models.Alert{}).
		Where("device_id = ? AND type = ? AND created_at > ?",
			alert.DeviceID, alert.Type, now.Add(-window)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("dedup lookup: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if err := s.Db.Conn.Create(&alert).Error; err != nil {
		return false, fmt.Errorf("persist alert: %w", err)
	}

	logger.Info("Alert created", zap.Reflect("alert", alert))
	return true, nil
}

func (s *Station) notificationSettingsOrDefault(userID string) models.NotificationSettings {
	var settings models.NotificationSettings
	err := s.Db.Conn.First(&settings, "user_id = ?", userID).Error
	if err != nil {
		return models.NotificationSettings{
			UserID:                   userID,
			BatteryAlertsEnabled:     true,
			TemperatureAlertsEnabled: true,
			OfflineAlertsEnabled:     true,
			BatteryThreshold:         defaultBatteryThreshold,
		}
	}
	if settings.BatteryThreshold <= 0 {
		settings.BatteryThreshold = defaultBatteryThreshold
	}
	return settings
}

func (s *Station) getDeviceAlerts(deviceID string) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("created_at desc").
		Find(&alerts).Error
	return alerts, err
}

type IAlertImpl struct {
	station *Station
}

func (ia *IAlertImpl) CheckDeviceAlerts() (*models.AlertSummary, error) {
	return ia.station.checkDeviceAlerts()
}

func (ia *IAlertImpl) GetDeviceAlerts(deviceID string) ([]models.Alert, error) {
	return ia.station.getDeviceAlerts(deviceID)
}

func (s *Station) GetIAlert() IAlert {
	return &IAlertImpl{station: s}
}
