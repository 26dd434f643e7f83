package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaletprop-server/models"
)

func TestNotifyNearbyProsFiltersByRadius(t *testing.T) {
	db := newTestDB(t)
	notifier := newTestNotifier(db)
	proximity := NewProximityNotifier(db, notifier)

	owner := createUser(t, db, models.RoleProprio, "owner@test.ca")
	// Chalet in Sainte-Adèle.
	chalet := createChalet(t, db, owner.ID, 45.9507, -74.1322)

	near := createUser(t, db, models.RolePro, "near@test.ca")
	createProProfile(t, db, near.ID, 45.9936, -74.1430, 25) // ~5 km, default radius

	far := createUser(t, db, models.RolePro, "far@test.ca")
	createProProfile(t, db, far.ID, 45.6789, -74.0058, 25) // ~32 km, outside 25

	tight := createUser(t, db, models.RolePro, "tight@test.ca")
	createProProfile(t, db, tight.ID, 46.0531, -74.1554, 5) // ~11 km, radius 5

	request := &models.CleaningRequest{ChaletID: chalet.ID, OwnerID: owner.ID,
		ScheduledDate: "2026-09-15", ScheduledTime: "10:00"}
	require.NoError(t, db.Create(request).Error)

	notified, err := proximity.NotifyNearbyPros(request, chalet, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, notified)

	var notifications []models.Notification
	db.Where("type = ?", models.NotifNewRequestNearby).Find(&notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, near.ID, notifications[0].UserID)
	assert.Equal(t, "Nouvelle demande de ménage", notifications[0].Title)
	assert.Contains(t, notifications[0].Body, "Chalet du Lac")
	assert.Contains(t, notifications[0].Body, "Sainte-Adèle")
}

func TestNotifyNearbyProsSkipsUnverified(t *testing.T) {
	db := newTestDB(t)
	proximity := NewProximityNotifier(db, newTestNotifier(db))

	owner := createUser(t, db, models.RoleProprio, "owner@test.ca")
	chalet := createChalet(t, db, owner.ID, 45.9507, -74.1322)

	pending := createUser(t, db, models.RolePro, "pending@test.ca")
	profile := createProProfile(t, db, pending.ID, 45.9936, -74.1430, 25)
	require.NoError(t, db.Model(profile).Update("verif_status", models.VerifPending).Error)

	request := &models.CleaningRequest{ChaletID: chalet.ID, OwnerID: owner.ID,
		ScheduledDate: "2026-09-15", ScheduledTime: "10:00"}
	require.NoError(t, db.Create(request).Error)

	notified, err := proximity.NotifyNearbyPros(request, chalet, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, notified)
}

func TestNotifyNearbyProsNoopWithoutCoordinates(t *testing.T) {
	db := newTestDB(t)
	proximity := NewProximityNotifier(db, newTestNotifier(db))

	owner := createUser(t, db, models.RoleProprio, "owner@test.ca")
	chalet := &models.Chalet{OwnerID: owner.ID, Name: "Sans GPS", Address: "?", City: "Nulle-Part"}
	require.NoError(t, db.Create(chalet).Error)

	pro := createUser(t, db, models.RolePro, "pro@test.ca")
	createProProfile(t, db, pro.ID, 45.9936, -74.1430, 25)

	request := &models.CleaningRequest{ChaletID: chalet.ID, OwnerID: owner.ID,
		ScheduledDate: "2026-09-15", ScheduledTime: "10:00"}
	require.NoError(t, db.Create(request).Error)

	notified, err := proximity.NotifyNearbyPros(request, chalet, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, notified)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
