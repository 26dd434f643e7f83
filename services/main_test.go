package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chaletprop-server/database"
	"chaletprop-server/models"
	ws "chaletprop-server/websocket"
)

// newTestDB opens an isolated in-memory database. The single-connection
// limit keeps concurrent test goroutines on one sqlite handle.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestNotifier(db *gorm.DB) *Notifier {
	return NewNotifier(db, ws.NewHub(), nil)
}

func createUser(t *testing.T, db *gorm.DB, role models.UserRole, email string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:    "Test",
		LastName:     string(role),
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createChalet(t *testing.T, db *gorm.DB, ownerID uint, lat, lng float64) *models.Chalet {
	t.Helper()
	chalet := &models.Chalet{
		OwnerID:    ownerID,
		Name:       "Chalet du Lac",
		Address:    "123 chemin du Lac",
		City:       "Sainte-Adèle",
		Province:   "QC",
		PostalCode: "J8B 1A1",
		Lat:        &lat,
		Lng:        &lng,
		AccessCode: "1234",
	}
	require.NoError(t, db.Create(chalet).Error)
	return chalet
}

func createTemplates(t *testing.T, db *gorm.DB, chaletID uint, rooms ...string) []models.ChecklistTemplate {
	t.Helper()
	templates := make([]models.ChecklistTemplate, 0, len(rooms))
	for i, room := range rooms {
		tpl := models.ChecklistTemplate{ChaletID: chaletID, RoomName: room, Position: i}
		require.NoError(t, db.Create(&tpl).Error)
		templates = append(templates, tpl)
	}
	return templates
}

func createProProfile(t *testing.T, db *gorm.DB, userID uint, lat, lng, radius float64) *models.ProProfile {
	t.Helper()
	profile := &models.ProProfile{
		UserID:      userID,
		City:        "Sainte-Adèle",
		Province:    "QC",
		Lat:         &lat,
		Lng:         &lng,
		RadiusKM:    radius,
		VerifStatus: models.VerifApproved,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func openRequest(t *testing.T, db *gorm.DB, svc *RequestService, ownerID, chaletID uint) *models.CleaningRequest {
	t.Helper()
	request, err := svc.CreateRequest(ownerID, &models.CleaningRequestCreate{
		ChaletID:      chaletID,
		ScheduledDate: "2026-09-15",
		ScheduledTime: "10:00",
	})
	require.NoError(t, err)
	return request
}
