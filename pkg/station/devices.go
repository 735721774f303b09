package station

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/common"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/models"
)

// syncUserDevices pulls the account's device list from the vendor cloud
// and upserts the rows, keyed by serial. Online flags are refreshed;
// existing names are kept.
func (s *Station) syncUserDevices(userID string) (int, error) {
	if s.Cloud == nil {
		return 0, ErrCloudNotConfigured
	}

	logger := common.GetLoggerWith(
		common.LoggerNameStationCore,
		zap.String(common.LoggerFieldStationCategory, common.LoggerCategoryDevices),
	)

	infos, err := s.Cloud.ListDevices()
	if err != nil {
		return 0, fmt.Errorf("list devices: %w", err)
	}

	synced := 0
	for _, info := range infos {
		name := info.DeviceName
		if name == "" {
			name = info.SN
		}
		device := models.Device{
			ID:          uuid.NewString(),
			UserID:      userID,
			SN:          info.SN,
			Name:        name,
			ProductName: info.ProductName,
			Online:      info.Online == 1,
			Active:      true,
		}

		err := s.Db.Conn.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sn"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"product_name", "online",
			}),
		}).Create(&device).Error
		if err != nil {
			return synced, fmt.Errorf("upsert device %s: %w", info.SN, err)
		}
		synced++
	}

	logger.Info("Device sync finished",
		zap.String("user_id", userID), zap.Int("devices", synced))

	return synced, nil
}

type IDevicesImpl struct {
	station *Station
}

func (id *IDevicesImpl) SyncUserDevices(userID string) (int, error) {
	return id.station.syncUserDevices(userID)
}

func (s *Station) GetIDevices() IDevices {
	return &IDevicesImpl{station: s}
}
