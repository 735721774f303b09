package models

import "time"

type ReadingStatus string

const (
	ReadingStatusCharging    ReadingStatus = "charging"
	ReadingStatusDischarging ReadingStatus = "discharging"
	ReadingStatusStandby     ReadingStatus = "standby"
	ReadingStatusFull        ReadingStatus = "full"
	ReadingStatusLow         ReadingStatus = "low"
)

type AlertType string

const (
	AlertTypeBatteryLow      AlertType = "BATTERY_LOW"
	AlertTypeTemperatureHigh AlertType = "TEMPERATURE_HIGH"
	AlertTypeDeviceOffline   AlertType = "DEVICE_OFFLINE"
)

type AlertSeverity string

const (
	AlertSeverityMedium   AlertSeverity = "MEDIUM"
	AlertSeverityHigh     AlertSeverity = "HIGH"
	AlertSeverityCritical AlertSeverity = "CRITICAL"
)

type User struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex"`
	Name      string
	CreatedAt time.Time
}

type Device struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index"`
	SN          string `gorm:"uniqueIndex"`
	Name        string
	ProductName string
	Online      bool
	Active      bool
	CreatedAt   time.Time
}

// Reading is one normalized telemetry snapshot. Rows are written once by
// the collection job and never updated. RemainingTime is signed minutes:
// positive while charging (time to full), negative while discharging
// (time to empty).
type Reading struct {
	ID             uint   `gorm:"primaryKey"`
	DeviceID       string `gorm:"index"`
	BatteryLevel   *float64
	InputWatts     float64
	OutputWatts    float64
	ACInputWatts   float64
	DCInputWatts   float64
	ACOutputWatts  float64
	DCOutputWatts  float64
	USBOutputWatts float64
	ChargingType   string
	RemainingTime  *int
	Temperature    *float64
	Status         ReadingStatus `gorm:"type:varchar(20)"`
	RawData        string        // vendor quota bag as JSON, kept verbatim
	RecordedAt     time.Time     `gorm:"index"`
}

type CollectionSettings struct {
	UserID                    string `gorm:"primaryKey"`
	CollectionIntervalMinutes int
	LastCollectionAt          *time.Time
	BackupEnabled             bool
	BackupIntervalHours       int
	LastBackupAt              *time.Time
	RetentionPeriodDays       int
}

type NotificationSettings struct {
	UserID                   string `gorm:"primaryKey"`
	BatteryAlertsEnabled     bool
	TemperatureAlertsEnabled bool
	OfflineAlertsEnabled     bool
	BatteryThreshold         float64
}

type Alert struct {
	ID        uint      `gorm:"primaryKey"`
	DeviceID  string    `gorm:"index"`
	Type      AlertType `gorm:"type:varchar(20);check:type IN ('BATTERY_LOW','TEMPERATURE_HIGH','DEVICE_OFFLINE')"`
	Severity  AlertSeverity
	Message   string
	IsRead    bool
	CreatedAt time.Time `gorm:"index"`
}

// NotificationLog records every mail-provider call, success or failure.
type NotificationLog struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       string `gorm:"index"`
	Kind         string
	Status       string
	MessageID    string
	ErrorMessage string
	CreatedAt    time.Time
}

type CollectSummary struct {
	UsersCollected int      `json:"users_collected"`
	TotalReadings  int      `json:"total_readings"`
	Errors         []string `json:"errors"`
}

type AlertSummary struct {
	DevicesChecked int      `json:"devices_checked"`
	AlertsCreated  int      `json:"alerts_created"`
	Errors         []string `json:"errors"`
}

type BackupSummary struct {
	UsersBackedUp int      `json:"users_backed_up"`
	Errors        []string `json:"errors"`
}
