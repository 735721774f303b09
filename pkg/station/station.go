package station

import (
	"errors"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/db"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/ecoflow"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/mail"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/models"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/quota"
)

// Missing global configuration aborts a whole job tick before any work.
// Everything else is isolated per device or per user.
var (
	ErrCloudNotConfigured  = errors.New("device cloud client not configured")
	ErrMailerNotConfigured = errors.New("mail client not configured")
)

// DeviceCloud is the station's view of the vendor device-cloud API.
type DeviceCloud interface {
	ListDevices() ([]ecoflow.DeviceInfo, error)
	GetDeviceQuota(sn string) (quota.Bag, error)
}

type ICollector interface {
	CollectAllUserReadings() (*models.CollectSummary, error)
}

type IAlert interface {
	CheckDeviceAlerts() (*models.AlertSummary, error)
	GetDeviceAlerts(deviceID string) ([]models.Alert, error)
}

type IBackup interface {
	CheckAndRunBackups() (*models.BackupSummary, error)
}

type ISettings interface {
	UpsertCollectionSettings(userID string, input *models.CollectionSettings) error
	UpsertNotificationSettings(userID string, input *models.NotificationSettings) error
	GetDeviceReadings(deviceID string, limit int) ([]models.Reading, error)
}

type IDevices interface {
	SyncUserDevices(userID string) (int, error)
}

type Station struct {
	Db     db.DB
	Cloud  DeviceCloud
	Mailer mail.Sender

	Collector ICollector
	Alert     IAlert
	Backup    IBackup
	Settings  ISettings
	Devices   IDevices
}

type ServiceOpts struct {
	Collector ICollector
	Alert     IAlert
	Backup    IBackup
	Settings  ISettings
	Devices   IDevices
}

func (s *Station) WithServices(opts ServiceOpts) *Station {
	if opts.Collector != nil {
		s.Collector = opts.Collector
	}
	if opts.Alert != nil {
		s.Alert = opts.Alert
	}
	if opts.Backup != nil {
		s.Backup = opts.Backup
	}
	if opts.Settings != nil {
		s.Settings = opts.Settings
	}
	if opts.Devices != nil {
		s.Devices = opts.Devices
	}
	return s
}
