package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaletprop-server/models"
)

// Full happy path: post a request, receive an offer, accept it, photograph
// every room, complete.
func TestCleaningLifecycle(t *testing.T) {
	db := newTestDB(t)
	notifier := newTestNotifier(db)
	requestSvc := NewRequestService(db, notifier, NewProximityNotifier(db, notifier))
	checklistSvc := NewChecklistService(db, notifier, NewSettlementService(""))

	owner := createUser(t, db, models.RoleProprio, "owner@test.ca")
	pro := createUser(t, db, models.RolePro, "pro@test.ca")
	createProProfile(t, db, pro.ID, 45.9936, -74.1430, 25)

	chalet := createChalet(t, db, owner.ID, 45.9507, -74.1322)
	templates := createTemplates(t, db, chalet.ID, "Cuisine", "Salon", "Salle de bain")

	// The nearby pro hears about the new request.
	request := openRequest(t, db, requestSvc, owner.ID, chalet.ID)
	var nearby models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", pro.ID, models.NotifNewRequestNearby).
		First(&nearby).Error)

	// The pro bids, the owner accepts.
	offer, err := requestSvc.SubmitOffer(pro.ID, request.ID, &models.OfferCreate{Price: 100, Message: "Je suis dispo"})
	require.NoError(t, err)
	_, err = requestSvc.AcceptOffer(owner.ID, request.ID, offer.ID)
	require.NoError(t, err)

	var confirmed models.CleaningRequest
	require.NoError(t, db.First(&confirmed, request.ID).Error)
	assert.Equal(t, models.RequestStatusConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.AccessDisclosedAt)

	// Room photos come in one by one; the completed signal fires on the
	// last one only.
	for i, tpl := range templates {
		progress, err := checklistSvc.UpdateChecklistItem(pro.ID, request.ID, tpl.ID, true, "https://img/room.jpg")
		require.NoError(t, err)

		var count int64
		db.Model(&models.Notification{}).
			Where("user_id = ? AND type = ?", owner.ID, models.NotifCleaningCompleted).
			Count(&count)
		if i < len(templates)-1 {
			assert.Less(t, progress.Percent, 100)
			assert.Equal(t, int64(0), count)
		} else {
			assert.Equal(t, 100, progress.Percent)
			assert.Equal(t, int64(1), count)
		}
	}

	// Either side can close the job.
	completed, err := requestSvc.CompleteRequest(owner.ID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCompleted, completed.Status)
}
