package station

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/db"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/models"
	"github.com/drcreatives/my-ecoflow-sub000/pkg/station/mocks"
)

func GetMockStationWithMemorySqliteDialector(t *testing.T) (
	*gomock.Controller,
	*Station,
	*mocks.MockDeviceCloud,
	*mocks.MockSender,
) {
	ctrl := gomock.NewController(t)

	mockCloud := mocks.NewMockDeviceCloud(ctrl)
	mockSender := mocks.NewMockSender(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations

	stationInstance := &Station{
		Db:     *dbInstance,
		Cloud:  mockCloud,
		Mailer: mockSender,
	}
	stationInstance.WithServices(ServiceOpts{
		Collector: stationInstance.GetICollector(),
		Alert:     stationInstance.GetIAlert(),
		Backup:    stationInstance.GetIBackup(),
		Settings:  stationInstance.GetISettings(),
		Devices:   stationInstance.GetIDevices(),
	})

	return ctrl, stationInstance, mockCloud, mockSender
}

// seedUserWithDevice creates a user and one active device. The device is
// deactivated via cleanupDevice so the shared in-memory DB does not leak
// devices into later ticks.
func seedUserWithDevice(t *testing.T, s *Station) (models.User, models.Device) {
	t.Helper()

	user := models.User{
		ID:        uuid.NewString(),
		Email:     uuid.NewString() + "@example.com",
		Name:      "Test User",
		CreatedAt: time.Now(),
	}
	if err := s.Db.Conn.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	device := models.Device{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		SN:          "SN-" + uuid.NewString(),
		Name:        "Test Device",
		ProductName: "DELTA 2",
		Online:      true,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := s.Db.Conn.Create(&device).Error; err != nil {
		t.Fatal(err)
	}

	cleanupDevice(t, s, device.ID)
	return user, device
}

func cleanupDevice(t *testing.T, s *Station, deviceID string) {
	t.Helper()
	t.Cleanup(func() {
		s.Db.Conn.Model(&models.Device{}).
			Where("id = ?", deviceID).
			Update("active", false)
	})
}

// seedCollectionSettings registers the user for collection ticks; cleanup
// disables it again so later ticks in the shared DB skip it.
func seedCollectionSettings(t *testing.T, s *Station, settings models.CollectionSettings) {
	t.Helper()
	if err := s.Db.Conn.Create(&settings).Error; err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		far := time.Now()
		s.Db.Conn.Model(&models.CollectionSettings{}).
			Where("user_id = ?", settings.UserID).
			Updates(map[string]any{
				"last_collection_at": far,
				"last_backup_at":     far,
				"backup_enabled":     false,
			})
	})
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
