package station

import (
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/common"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/models"
)

func (s *Station) upsertCollectionSettings(userID string, input *models.CollectionSettings) error {
	logger := common.GetLoggerWith(
		common.LoggerNameStationCore,
		zap.String(common.LoggerFieldStationCategory, common.LoggerCategorySettings),
	)

	settings := models.CollectionSettings{
		UserID:                    userID,
		CollectionIntervalMinutes: input.CollectionIntervalMinutes,
		BackupEnabled:             input.BackupEnabled,
		BackupIntervalHours:       input.BackupIntervalHours,
		RetentionPeriodDays:       input.RetentionPeriodDays,
	}

	logger.Info("Received collection settings for user", zap.Reflect("settings", settings))

	err := s.Db.Conn.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"collection_interval_minutes",
			"backup_enabled",
			"backup_interval_hours",
			"retention_period_days",
		}),
	}).Create(&settings).Error

	if err == nil {
		logger.Info("Upserted collection settings for user", zap.Reflect("settings", settings))
	}

	return err
}

func (s *Station) upsertNotificationSettings(userID string, input *models.NotificationSettings) error {
	logger := common.GetLoggerWith(
		common.LoggerNameStationCore,
		zap.String(common.LoggerFieldStationCategory, common.LoggerCategorySettings),
	)

	settings := models.NotificationSettings{
		UserID:                   userID,
		BatteryAlertsEnabled:     input.BatteryAlertsEnabled,
		TemperatureAlertsEnabled: input.TemperatureAlertsEnabled,
		OfflineAlertsEnabled:     input.OfflineAlertsEnabled,
		BatteryThreshold:         input.BatteryThreshold,
	}

	logger.Info("Received notification settings for user", zap.Reflect("settings", settings))

	err := s.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&settings).Error

	if err == nil {
		logger.Info("Upserted notification settings for user", zap.Reflect("settings", settings))
	}

	return err
}

func (s *Station) getDeviceReadings(deviceID string, limit int) ([]models.Reading, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var readings []models.Reading
	err := s.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("recorded_at desc").
		Limit(limit).
		Find(&readings).Error
	return readings, err
}

type ISettingsImpl struct {
	station *Station
}

func (is *ISettingsImpl) UpsertCollectionSettings(userID string, input *models.CollectionSettings) error {
	return is.station.upsertCollectionSettings(userID, input)
}

func (is *ISettingsImpl) UpsertNotificationSettings(userID string, input *models.NotificationSettings) error {
	return is.station.upsertNotificationSettings(userID, input)
}

func (is *ISettingsImpl) GetDeviceReadings(deviceID string, limit int) ([]models.Reading, error) {
	return is.station.getDeviceReadings(deviceID, limit)
}

func (s *Station) GetISettings() ISettings {
	return &ISettingsImpl{station: s}
}
