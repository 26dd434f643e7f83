package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"chaletprop-server/models"
)

func newRequestService(db *gorm.DB) *RequestService {
	notifier := newTestNotifier(db)
	return NewRequestService(db, notifier, NewProximityNotifier(db, notifier))
}

func TestCreateRequestRequiresOwnedChalet(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	owner := createUser(t, db, models.RoleProprio, "owner@test.ca")
	other := createUser(t, db, models.RoleProprio, "other@test.ca")
	chalet := createChalet(t, db, owner.ID, 45.95, -74.13)

	_, err := svc.CreateRequest(other.ID, &models.CleaningRequestCreate{
		ChaletID:      chalet.ID,
		ScheduledDate: "2026-09-15",
		ScheduledTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrNotChaletOwner)

	_, err = svc.CreateRequest(owner.ID, &models.CleaningRequestCreate{
		ChaletID:      9999,
		ScheduledDate: "2026-09-15",
		ScheduledTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrChaletNotFound)

	request := openRequest(t, db, svc, owner.ID, chalet.ID)
	assert.Equal(t, models.RequestStatusOpen, request.Status)
}

func TestSubmitOfferLatestPriceWins(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	owner := createUser(t, db, models.RoleProprio, "owner@test.ca")
	pro := createUser(t, db, models.RolePro, "pro@test.ca")
	chalet := createChalet(t, db, owner.ID, 45.95, -74.13)
	request := openRequest(t, db, svc, owner.ID, chalet.ID)

	first, err := svc.SubmitOffer(pro.ID, request.ID, &models.OfferCreate{Price: 120, Message: "dispo"})
	require.NoError(t, err)

	second, err := svc.SubmitOffer(pro.ID, request.ID, &models.OfferCreate{Price: 100, Message: "prix final"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 100.0, second.Price)
	assert.Equal(t, "prix final", second.Message)

	var count int64
	db.Model(&models.Offer{}).Where("request_id = ?", request.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitOfferRejectedWhenNotOpen(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	owner := createUser(t, db, models.RoleProprio, "owner@test.ca")
	proA := createUser(t, db, models.RolePro, "a@test.ca")
	proB := createUser(t, db, models.RolePro, "b@test.ca")
	chalet := createChalet(t, db, owner.ID, 45.95, -74.13)
	request := openRequest(t, db, svc, owner.ID, chalet.ID)

	offer, err := svc.SubmitOffer(proA.ID, request.ID, &models.OfferCreate{Price: 90})
	require.NoError(t, err)
	_, err = svc.AcceptOffer(owner.ID, request.ID, offer.ID)
	require.NoError(t, err)

	_, err = svc.SubmitOffer(proB.ID, request.ID, &models.OfferCreate{Price: 80})
	assert.ErrorIs(t, err, ErrRequestNotOpen)
}

func TestAcceptOfferConfirmsAndDeclinesOthers(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	owner := createUser(t, db, models.RoleProprio, "owner@test.ca")
	proA := createUser(t, db, models.RolePro, "a@test.ca")
	proB := createUser(t, db, models.RolePro, "b@test.ca")
	chalet := createChalet(t, db, owner.ID, 45.95, -74.13)
	request := openRequest(t, db, svc, owner.ID, chalet.ID)

	offerA, err := svc.SubmitOffer(proA.ID, request.ID, &models.OfferCreate{Price: 90})
	require.NoError(t, err)
	offerB, err := svc.SubmitOffer(proB.ID, request.ID, &models.OfferCreate{Price: 110})
	require.NoError(t, err)

	accepted, err := svc.AcceptOffer(owner.ID, request.ID, offerA.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, accepted.Status)

	var updated models.CleaningRequest
	require.NoError(t, db.First(&updated, request.ID).Error)
	assert.Equal(t, models.RequestStatusConfirmed, updated.Status)
	require.NotNil(t, updated.AssignedProID)
	assert.Equal(t, proA.ID, *updated.AssignedProID)
	require.NotNil(t, updated.AgreedPrice)
	assert.Equal(t, 90.0, *updated.AgreedPrice)
	assert.NotNil(t, updated.AccessDisclosedAt)

	var declined models.Offer
	require.NoError(t, db.First(&declined, offerB.ID).Error)
	assert.Equal(t, models.OfferStatusDeclined, declined.Status)

	// Losing pro got a decline notification, winner an acceptance.
	var declinedNotif models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", proB.ID, models.NotifOfferDeclined).First(&declinedNotif).Error)
	var acceptedNotif models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", proA.ID, models.NotifOfferAccepted).First(&acceptedNotif).Error)
}

func TestAcceptOfferOnlyOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	owner := createUser(t, db, models.RoleProprio, "owner@test.ca")
	stranger := createUser(t, db, models.RoleProprio, "stranger@test.ca")
	pro := createUser(t, db, models.RolePro, "pro@test.ca")
	chalet := createChalet(t, db, owner.ID, 45.95, -74.13)
	request := openRequest(t, db, svc, owner.ID, chalet.ID)

	offer, err := svc.SubmitOffer(pro.ID, request.ID, &models.OfferCreate{Price: 90})
	require.NoError(t, err)

	_, err = svc.AcceptOffer(stranger.ID, request.ID, offer.ID)
	assert.ErrorIs(t, err, ErrNotRequestOwner)
}

func TestAcceptOfferDoubleAcceptSingleWinner(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	owner := createUser(t, db, models.RoleProprio, "owner@test.ca")
	proA := createUser(t, db, models.RolePro, "a@test.ca")
	proB := createUser(t, db, models.RolePro, "b@test.ca")
	chalet := createChalet(t, db, owner.ID, 45.95, -74.13)
	request := openRequest(t, db, svc, owner.ID, chalet.ID)

	offerA, err := svc.SubmitOffer(proA.ID, request.ID, &models.OfferCreate{Price: 90})
	require.NoError(t, err)
	offerB, err := svc.SubmitOffer(proB.ID, request.ID, &models.OfferCreate{Price: 110})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, offerID := range []uint{offerA.ID, offerB.ID} {
		wg.Add(1)
		go func(i int, offerID uint) {
			defer wg.Done()
			_, results[i] = svc.AcceptOffer(owner.ID, request.ID, offerID)
		}(i, offerID)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrRequestNotOpen)
		}
	}
	assert.Equal(t, 1, winners)

	var accepted int64
	db.Model(&models.Offer{}).
		Where("request_id = ? AND status = ?", request.ID, models.OfferStatusAccepted).
		Count(&accepted)
	assert.Equal(t, int64(1), accepted)
}

func TestCompleteRequestIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	owner := createUser(t, db, models.RoleProprio, "owner@test.ca")
	pro := createUser(t, db, models.RolePro, "pro@test.ca")
	chalet := createChalet(t, db, owner.ID, 45.95, -74.13)
	request := openRequest(t, db, svc, owner.ID, chalet.ID)

	// Open requests cannot be completed.
	_, err := svc.CompleteRequest(owner.ID, request.ID)
	assert.ErrorIs(t, err, ErrRequestNotConfirmed)

	offer, err := svc.SubmitOffer(pro.ID, request.ID, &models.OfferCreate{Price: 90})
	require.NoError(t, err)
	_, err = svc.AcceptOffer(owner.ID, request.ID, offer.ID)
	require.NoError(t, err)

	_, err = svc.CompleteRequest(createUser(t, db, models.RolePro, "x@test.ca").ID, request.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	first, err := svc.CompleteRequest(pro.ID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCompleted, first.Status)
	require.NotNil(t, first.CompletedAt)

	second, err := svc.CompleteRequest(owner.ID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCompleted, second.Status)
	assert.WithinDuration(t, *first.CompletedAt, *second.CompletedAt, 0)
}
