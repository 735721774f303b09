package station

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/common"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/models"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/quota"
)

const defaultCollectionIntervalMinutes = 5

// collectAllUserReadings is one collection tick. Users whose interval has
// not elapsed are skipped untouched. Fetch and normalization failures are
// per-device and never abort siblings; the per-user watermark advances
// unconditionally once the device loop ran to its end. A persistence
// failure aborts that user's loop and leaves the watermark alone, so the
// batch is retried on the next tick.
func (s *Station) collectAllUserReadings() (*models.CollectSummary, error) {
	if s.Cloud == nil {
		return nil, ErrCloudNotConfigured
	}

	logger := common.GetLoggerWith(
		common.LoggerNameStationCore,
		zap.String(common.LoggerFieldStationCategory, common.LoggerCategoryCollector),
	)

	summary := &models.CollectSummary{Errors: []string{}}
	now := time.Now()

	var allSettings []models.CollectionSettings
	if err := s.Db.Conn.Find(&allSettings).Error; err != nil {
		return nil, fmt.Errorf("load collection settings: %w", err)
	}

	for _, settings := range allSettings {
		interval := settings.CollectionIntervalMinutes
		if interval <= 0 {
			interval = defaultCollectionIntervalMinutes
		}
		if settings.LastCollectionAt != nil &&
			now.Sub(*settings.LastCollectionAt) < time.Duration(interval)*time.Minute {
			continue
		}

		readings, err := s.collectUserReadings(logger, settings.UserID, now, summary)
		if err != nil {
			// device loop did not complete; watermark stays put
			logger.Error("Collection aborted for user",
				zap.String("user_id", settings.UserID), zap.Error(err))
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("user %s: %v", settings.UserID, err))
			continue
		}

		if err := s.Db.Conn.Model(&models.CollectionSettings{}).
			Where("user_id = ?", settings.UserID).
			Update("last_collection_at", now).Error; err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("user %s: watermark update: %v", settings.UserID, err))
			continue
		}

		summary.UsersCollected++
		summary.TotalReadings += readings
	}

	logger.Info("Collection tick finished",
		zap.Int("users_collected", summary.UsersCollected),
		zap.Int("total_readings", summary.TotalReadings),
		zap.Int("errors", len(summary.Errors)))

	return summary, nil
}

// collectUserReadings walks the user's active devices sequentially. The
// returned error is a persistence failure only; fetch and empty-quota
// cases are absorbed here.
func (s *Station) collectUserReadings(logger *zap.Logger, userID string, now time.Time, summary *models.CollectSummary) (int, error) {
	var devices []models.Device
	if err := s.Db.Conn.Where("user_id = ? AND active = ?", userID, true).Find(&devices).Error; err != nil {
		return 0, fmt.Errorf("load devices: %w", err)
	}

	readings := 0
	for _, device := range devices {
		bag, err := s.Cloud.GetDeviceQuota(device.SN)
		if err != nil {
			logger.Warn("Quota fetch failed",
				zap.String("device_id", device.ID), zap.String("sn", device.SN), zap.Error(err))
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("device %s: %v", device.ID, err))
			continue
		}

		reading, ok := quota.Normalize(bag)
		if !ok {
			// vendor reported no data; skip, not an error
			logger.Info("Empty quota payload, skipping device",
				zap.String("device_id", device.ID), zap.String("sn", device.SN))
			continue
		}

		reading.ID = 0
		reading.DeviceID = device.ID
		reading.RecordedAt = now

		if err := s.Db.Conn.Create(reading).Error; err != nil {
			return readings, fmt.Errorf("persist reading for device %s: %w", device.ID, err)
		}

		logger.Info("Reading stored",
			zap.String("device_id", device.ID),
			zap.String("status", string(reading.Status)))
		readings++
	}

	return readings, nil
}

type ICollectorImpl struct {
	station *Station
}

func (ic *ICollectorImpl) CollectAllUserReadings() (*models.CollectSummary, error) {
	return ic.station.collectAllUserReadings()
}

func (s *Station) GetICollector() ICollector {
	return &ICollectorImpl{station: s}
}

// EnsureCollectionSettings backfills a default settings row for a user
// that has none yet, so new accounts join the very next tick.
func (s *Station) EnsureCollectionSettings(userID string) (*models.CollectionSettings, error) {
	var settings models.CollectionSettings
	err := s.Db.Conn.First(&settings, "user_id = ?", userID).Error
	if err == nil {
		return &settings, nil
	}

	settings = models.CollectionSettings{
		UserID:                    userID,
		CollectionIntervalMinutes: defaultCollectionIntervalMinutes,
		BackupIntervalHours:       defaultBackupIntervalHours,
		RetentionPeriodDays:       defaultRetentionPeriodDays,
	}
	if err := s.Db.Conn.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
