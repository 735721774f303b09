package station

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/common"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/mail"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/models"
)

const (
	defaultBackupIntervalHours = 24
	defaultRetentionPeriodDays = 30

	backupWindow = 7 * 24 * time.Hour
)

type backupDevice struct {
	ID          string `json:"id"`
	SN          string `json:"sn"`
	Name        string `json:"name"`
	ProductName string `json:"product_name"`
}

type backupExport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	User        models.User      `json:"user"`
	Devices     []backupDevice   `json:"devices"`
	Readings    []models.Reading `json:"readings"`
}

// checkAndRunBackups mails each due user a JSON export of their trailing
// week of readings. The watermark only advances after a successful send;
// every send attempt leaves a notification-log row either way.
func (s *Station) checkAndRunBackups() (*models.BackupSummary, error) {
	if s.Mailer == nil {
		return nil, ErrMailerNotConfigured
	}

	logger := common.GetLoggerWith(
		common.LoggerNameStationCore,
		zap.String(common.LoggerFieldStationCategory, common.LoggerCategoryBackup),
	)

	summary := &models.BackupSummary{Errors: []string{}}
	now := time.Now()

	var allSettings []models.CollectionSettings
	if err := s.Db.Conn.Where("backup_enabled = ?", true).Find(&allSettings).Error; err != nil {
		return nil, fmt.Errorf("load collection settings: %w", err)
	}

	for _, settings := range allSettings {
		interval := settings.BackupIntervalHours
		if interval <= 0 {
			interval = defaultBackupIntervalHours
		}
		if settings.LastBackupAt != nil &&
			now.Sub(*settings.LastBackupAt) < time.Duration(interval)*time.Hour {
			continue
		}

		if err := s.backupUser(logger, settings.UserID, now); err != nil {
			logger.Error("Backup failed for user",
				zap.String("user_id", settings.UserID), zap.Error(err))
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("user %s: %v", settings.UserID, err))
			continue
		}

		if err := s.Db.Conn.Model(&models.CollectionSettings{}).
			Where("user_id = ?", settings.UserID).
			Update("last_backup_at", now).Error; err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("user %s: watermark update: %v", settings.UserID, err))
			continue
		}

		summary.UsersBackedUp++
	}

	logger.Info("Backup tick finished",
		zap.Int("users_backed_up", summary.UsersBackedUp),
		zap.Int("errors", len(summary.Errors)))

	return summary, nil
}

func (s *Station) backupUser(logger *zap.Logger, userID string, now time.Time) error {
	var user models.User
	if err := s.Db.Conn.First(&user, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	var devices []models.Device
	if err := s.Db.Conn.Where("user_id = ? AND active = ?", userID, true).Find(&devices).Error; err != nil {
		return fmt.Errorf("load devices: %w", err)
	}

	deviceIDs := common.Mapper(devices, func(d models.Device) string { return d.ID })

	var readings []models.Reading
	if len(deviceIDs) > 0 {
		err := s.Db.Conn.
			Where("device_id IN ? AND recorded_at > ?", deviceIDs, now.Add(-backupWindow)).
			Order("recorded_at asc").
			Find(&readings).Error
		if err != nil {
			return fmt.Errorf("load readings: %w", err)
		}
	}

	export := backupExport{
		GeneratedAt: now,
		User:        user,
		Devices: common.Mapper(devices, func(d models.Device) backupDevice {
			return backupDevice{ID: d.ID, SN: d.SN, Name: d.Name, ProductName: d.ProductName}
		}),
		Readings: readings,
	}

	payload, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	msg := mail.Message{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("Power station backup %s", now.Format("2006-01-02")),
		HTML: fmt.Sprintf("<p>Attached is your scheduled backup: %d devices, %d readings from the last 7 days.</p>",
			len(devices), len(readings)),
		Attachments: []mail.Attachment{{
			Filename: fmt.Sprintf("backup-%s.json", now.Format("20060102-150405")),
			Content:  base64.StdEncoding.EncodeToString(payload),
		}},
	}

	messageID, sendErr := s.Mailer.Send(msg)

	logRow := models.NotificationLog{
		UserID:    userID,
		Kind:      "backup",
		CreatedAt: now,
	}
	if sendErr != nil {
		logRow.Status = "failed"
		logRow.ErrorMessage = sendErr.Error()
	} else {
		logRow.Status = "sent"
		logRow.MessageID = messageID
	}
	if err := s.Db.Conn.Create(&logRow).Error; err != nil {
		logger.Error("Notification log write failed",
			zap.String("user_id", userID), zap.Error(err))
	}

	if sendErr != nil {
		return fmt.Errorf("send backup mail: %w", sendErr)
	}

	logger.Info("Backup dispatched",
		zap.String("user_id", userID),
		zap.String("message_id", messageID),
		zap.Int("readings", len(readings)))
	return nil
}

type IBackupImpl struct {
	station *Station
}

func (ib *IBackupImpl) CheckAndRunBackups() (*models.BackupSummary, error) {
	return ib.station.checkAndRunBackups()
}

func (s *Station) GetIBackup() IBackup {
	return &IBackupImpl{station: s}
}
