package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chaletprop-server/models"
)

// RequestService owns the cleaning request lifecycle: creation with
// proximity fan-out, offer submission, the acceptance transaction and
// completion. State transitions go through conditional updates so two
// concurrent callers can never both win.
type RequestService struct {
	db        *gorm.DB
	notifier  *Notifier
	proximity *ProximityNotifier
}

func NewRequestService(db *gorm.DB, notifier *Notifier, proximity *ProximityNotifier) *RequestService {
	return &RequestService{db: db, notifier: notifier, proximity: proximity}
}

func marshalTasks(items []models.TaskItem) (datatypes.JSON, error) {
	if items == nil {
		items = []models.TaskItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// CreateRequest inserts a new open request for one of the owner's chalets
// and broadcasts it to nearby pros. Fan-out failures never fail the
// creation: the request exists either way.
func (s *RequestService) CreateRequest(ownerID uint, input *models.CleaningRequestCreate) (*models.CleaningRequest, error) {
	var chalet models.Chalet
	if err := s.db.First(&chalet, input.ChaletID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrChaletNotFound
		}
		return nil, err
	}
	if chalet.OwnerID != ownerID {
		return nil, ErrNotChaletOwner
	}

	supplies, err := marshalTasks(input.SuppliesOnSite)
	if err != nil {
		return nil, err
	}
	laundry, err := marshalTasks(input.LaundryTasks)
	if err != nil {
		return nil, err
	}
	spa, err := marshalTasks(input.SpaTasks)
	if err != nil {
		return nil, err
	}

	estimated := input.EstimatedHours
	if estimated <= 0 {
		estimated = 3
	}

	request := models.CleaningRequest{
		ChaletID:        chalet.ID,
		OwnerID:         ownerID,
		ScheduledDate:   input.ScheduledDate,
		ScheduledTime:   input.ScheduledTime,
		DeadlineTime:    input.DeadlineTime,
		EstimatedHours:  estimated,
		IsUrgent:        input.IsUrgent,
		SuggestedBudget: input.SuggestedBudget,
		SpecialNotes:    input.SpecialNotes,
		SuppliesOnSite:  supplies,
		LaundryTasks:    laundry,
		SpaTasks:        spa,
		Status:          models.RequestStatusOpen,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create cleaning request: %w", err)
	}

	if _, err := s.proximity.NotifyNearbyPros(&request, &chalet, ownerID); err != nil {
		log.Printf("⚠️ Proximity fan-out failed for request %d: %v", request.ID, err)
	}

	request.Chalet = chalet
	return &request, nil
}

// SubmitOffer places or revises a pro's bid on an open request. A pro's
// second submission overwrites their first (price, message) and resets the
// offer to pending, so the latest bid always wins.
func (s *RequestService) SubmitOffer(proID, requestID uint, input *models.OfferCreate) (*models.Offer, error) {
	var request models.CleaningRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if request.Status != models.RequestStatusOpen {
		return nil, ErrRequestNotOpen
	}

	offer := models.Offer{
		RequestID: requestID,
		ProID:     proID,
		Price:     input.Price,
		Message:   input.Message,
		Status:    models.OfferStatusPending,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "request_id"}, {Name: "pro_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "message", "status", "updated_at"}),
	}).Create(&offer).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save offer: %w", err)
	}

	// Re-read so the upsert path returns the persisted row, not the insert
	// candidate.
	if err := s.db.Preload("Pro").
		Where("request_id = ? AND pro_id = ?", requestID, proID).
		First(&offer).Error; err != nil {
		return nil, err
	}

	var chalet models.Chalet
	s.db.First(&chalet, request.ChaletID)

	title := "Nouvelle offre reçue"
	body := fmt.Sprintf("%s propose %.0f$ pour %s", offer.Pro.DisplayName(), offer.Price, chalet.Name)
	if _, err := s.notifier.Notify(request.OwnerID, models.NotifNewOffer, title, body, &NotificationContext{
		RequestID: requestID,
		SenderID:  proID,
	}); err != nil {
		log.Printf("⚠️ Failed to notify owner %d about offer %d: %v", request.OwnerID, offer.ID, err)
	}

	return &offer, nil
}

// AcceptOffer confirms one offer and declines every other offer on the
// request, atomically. The request row itself is the lock: the conditional
// update from open to confirmed succeeds for exactly one caller, and every
// other concurrent acceptance observes zero affected rows and gets
// ErrRequestNotOpen.
func (s *RequestService) AcceptOffer(ownerID, requestID, offerID uint) (*models.Offer, error) {
	var accepted models.Offer

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var request models.CleaningRequest
		if err := tx.First(&request, requestID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrRequestNotFound
			}
			return err
		}
		if request.OwnerID != ownerID {
			return ErrNotRequestOwner
		}

		if err := tx.Where("id = ? AND request_id = ?", offerID, requestID).
			First(&accepted).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrOfferNotFound
			}
			return err
		}

		now := time.Now()
		result := tx.Model(&models.CleaningRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestStatusOpen).
			Updates(map[string]interface{}{
				"status":              models.RequestStatusConfirmed,
				"assigned_pro_id":     accepted.ProID,
				"agreed_price":        accepted.Price,
				"access_disclosed_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRequestNotOpen
		}

		if err := tx.Model(&accepted).
			Update("status", models.OfferStatusAccepted).Error; err != nil {
			return err
		}
		return tx.Model(&models.Offer{}).
			Where("request_id = ? AND id <> ?", requestID, offerID).
			Update("status", models.OfferStatusDeclined).Error
	})
	if err != nil {
		return nil, err
	}
	accepted.Status = models.OfferStatusAccepted

	// Notifications happen after commit: the acceptance is already durable
	// and a notification failure must not roll it back.
	var chalet models.Chalet
	var request models.CleaningRequest
	s.db.First(&request, requestID)
	s.db.First(&chalet, request.ChaletID)

	title := "Offre acceptée !"
	body := fmt.Sprintf("Votre offre de %.0f$ pour %s a été acceptée", accepted.Price, chalet.Name)
	if _, err := s.notifier.Notify(accepted.ProID, models.NotifOfferAccepted, title, body, &NotificationContext{
		RequestID: requestID,
		SenderID:  ownerID,
	}); err != nil {
		log.Printf("⚠️ Failed to notify pro %d about accepted offer: %v", accepted.ProID, err)
	}

	var losers []models.Offer
	s.db.Where("request_id = ? AND id <> ?", requestID, offerID).Find(&losers)
	for _, loser := range losers {
		body := fmt.Sprintf("Une autre offre a été retenue pour %s", chalet.Name)
		if _, err := s.notifier.Notify(loser.ProID, models.NotifOfferDeclined, "Offre non retenue", body, &NotificationContext{
			RequestID: requestID,
			SenderID:  ownerID,
		}); err != nil {
			log.Printf("⚠️ Failed to notify pro %d about declined offer: %v", loser.ProID, err)
		}
	}

	log.Printf("✅ Request %d confirmed: offer %d from pro %d at %.2f$", requestID, offerID, accepted.ProID, accepted.Price)
	return &accepted, nil
}

// CompleteRequest moves a confirmed request to completed. Either
// participant (owner or assigned pro) may call it; completing an already
// completed request is a no-op so double-taps and retries are safe.
func (s *RequestService) CompleteRequest(userID, requestID uint) (*models.CleaningRequest, error) {
	var request models.CleaningRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	isOwner := request.OwnerID == userID
	isPro := request.AssignedProID != nil && *request.AssignedProID == userID
	if !isOwner && !isPro {
		return nil, ErrNotParticipant
	}

	switch request.Status {
	case models.RequestStatusCompleted:
		return &request, nil
	case models.RequestStatusOpen:
		return nil, ErrRequestNotConfirmed
	}

	now := time.Now()
	result := s.db.Model(&models.CleaningRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestStatusConfirmed).
		Updates(map[string]interface{}{
			"status":       models.RequestStatusCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost a race to another completion call; re-read and treat as done.
		if err := s.db.First(&request, requestID).Error; err != nil {
			return nil, err
		}
		return &request, nil
	}

	request.Status = models.RequestStatusCompleted
	request.CompletedAt = &now
	log.Printf("✅ Request %d marked completed by user %d", requestID, userID)
	return &request, nil
}
