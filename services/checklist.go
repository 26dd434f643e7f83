package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chaletprop-server/models"
)

// ChecklistService records per-room cleaning progress against a confirmed
// request and fires the one-time 100% signal. The signal is latched on the
// request row (completion_notified_at) with a conditional update, so out of
// order or repeated photo uploads can never trigger it twice.
type ChecklistService struct {
	db         *gorm.DB
	notifier   *Notifier
	settlement *SettlementService
}

func NewChecklistService(db *gorm.DB, notifier *Notifier, settlement *SettlementService) *ChecklistService {
	return &ChecklistService{db: db, notifier: notifier, settlement: settlement}
}

// ChecklistProgress summarizes a request's checklist state after an update.
type ChecklistProgress struct {
	Completion *models.ChecklistCompletion `json:"completion"`
	Done       int                         `json:"done"`
	Total      int                         `json:"total"`
	Percent    int                         `json:"percent"`
}

// UpdateChecklistItem upserts one room's completion state for a request.
// Only the assigned pro or the owner may write; the template must belong to
// the request's chalet. Reaching 100% (every template done with a photo)
// notifies the owner and releases settlement exactly once per request.
func (s *ChecklistService) UpdateChecklistItem(userID, requestID, templateID uint, isDone bool, photoURL string) (*ChecklistProgress, error) {
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
	if request.Status != models.RequestStatusConfirmed && request.Status != models.RequestStatusCompleted {
		return nil, ErrRequestNotConfirmed
	}

	var template models.ChecklistTemplate
	if err := s.db.First(&template, templateID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTemplateMismatch
		}
		return nil, err
	}
	if template.ChaletID != request.ChaletID {
		return nil, ErrTemplateMismatch
	}

	completion := models.ChecklistCompletion{
		RequestID:  requestID,
		TemplateID: templateID,
		IsDone:     isDone,
		PhotoURL:   photoURL,
	}
	if isDone {
		now := time.Now()
		completion.CompletedAt = &now
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "request_id"}, {Name: "template_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_done", "photo_url", "completed_at", "updated_at"}),
	}).Create(&completion).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save checklist completion: %w", err)
	}
	if err := s.db.Where("request_id = ? AND template_id = ?", requestID, templateID).
		First(&completion).Error; err != nil {
		return nil, err
	}

	done, total, err := s.progress(requestID, request.ChaletID)
	if err != nil {
		return nil, err
	}

	progress := &ChecklistProgress{Completion: &completion, Done: done, Total: total}
	if total > 0 {
		progress.Percent = done * 100 / total
	}

	if total > 0 && done == total {
		s.signalFullCompletion(&request)
	}

	return progress, nil
}

// CompletionPercent reports a request's checklist progress without writing.
func (s *ChecklistService) CompletionPercent(requestID uint) (int, error) {
	var request models.CleaningRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrRequestNotFound
		}
		return 0, err
	}
	done, total, err := s.progress(requestID, request.ChaletID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return done * 100 / total, nil
}

func (s *ChecklistService) progress(requestID, chaletID uint) (done int, total int, err error) {
	var totalCount int64
	if err := s.db.Model(&models.ChecklistTemplate{}).
		Where("chalet_id = ?", chaletID).
		Count(&totalCount).Error; err != nil {
		return 0, 0, err
	}

	var doneCount int64
	if err := s.db.Model(&models.ChecklistCompletion{}).
		Where("request_id = ? AND is_done = ? AND photo_url <> ''", requestID, true).
		Count(&doneCount).Error; err != nil {
		return 0, 0, err
	}
	return int(doneCount), int(totalCount), nil
}

// signalFullCompletion latches completion_notified_at and, for the single
// caller that wins the latch, notifies the owner and releases settlement.
func (s *ChecklistService) signalFullCompletion(request *models.CleaningRequest) {
	now := time.Now()
	result := s.db.Model(&models.CleaningRequest{}).
		Where("id = ? AND completion_notified_at IS NULL", request.ID).
		Update("completion_notified_at", now)
	if result.Error != nil {
		log.Printf("⚠️ Failed to latch completion signal for request %d: %v", request.ID, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		return
	}

	var chalet models.Chalet
	s.db.First(&chalet, request.ChaletID)

	title := "Ménage terminé !"
	body := fmt.Sprintf("Toutes les pièces de %s ont été nettoyées et photographiées", chalet.Name)
	if _, err := s.notifier.Notify(request.OwnerID, models.NotifCleaningCompleted, title, body, &NotificationContext{
		RequestID: request.ID,
	}); err != nil {
		log.Printf("⚠️ Failed to notify owner %d about completion: %v", request.OwnerID, err)
	}

	if request.AssignedProID != nil && request.AgreedPrice != nil {
		go func(id uint, amount float64, proID uint) {
			if err := s.settlement.Release(id, amount, proID); err != nil {
				log.Printf("⚠️ Settlement release failed for request %d: %v", id, err)
			}
		}(request.ID, *request.AgreedPrice, *request.AssignedProID)
	}

	log.Printf("🎉 Request %d checklist fully completed", request.ID)
}
