package services

import (
	"fmt"
	"log"
	"math"

	"gorm.io/gorm"

	"chaletprop-server/models"
	"chaletprop-server/utils"
)

// ProximityNotifier alerts pros whose service radius covers a chalet when a
// new cleaning request is posted there.
type ProximityNotifier struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewProximityNotifier(db *gorm.DB, notifier *Notifier) *ProximityNotifier {
	return &ProximityNotifier{db: db, notifier: notifier}
}

// NotifyNearbyPros fans a new request out to every approved pro within
// radius. A chalet without coordinates matches nobody, so the fan-out is a
// no-op. Individual notification failures are logged and skipped; the
// returned count is the number of pros actually notified.
func (p *ProximityNotifier) NotifyNearbyPros(request *models.CleaningRequest, chalet *models.Chalet, senderID uint) (int, error) {
	if !chalet.HasCoordinates() {
		log.Printf("⚠️ Chalet %d has no coordinates, skipping proximity notification", chalet.ID)
		return 0, nil
	}

	var profiles []models.ProProfile
	err := p.db.Preload("User").
		Where("lat IS NOT NULL AND lng IS NOT NULL AND verif_status = ?", models.VerifApproved).
		Find(&profiles).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load pro profiles: %w", err)
	}

	title := "Nouvelle demande de ménage"
	notified := 0
	for _, profile := range profiles {
		if profile.UserID == senderID {
			continue
		}

		distance := utils.HaversineDistance(*chalet.Lat, *chalet.Lng, *profile.Lat, *profile.Lng)
		if distance > utils.ProRadiusOrDefault(profile.RadiusKM) {
			continue
		}

		body := fmt.Sprintf("%s à %s — %d km de vous", chalet.Name, chalet.City, int(math.Round(distance)))
		_, err := p.notifier.Notify(profile.UserID, models.NotifNewRequestNearby, title, body, &NotificationContext{
			RequestID: request.ID,
			SenderID:  senderID,
		})
		if err != nil {
			log.Printf("⚠️ Failed to notify pro %d about request %d: %v", profile.UserID, request.ID, err)
			continue
		}
		notified++
	}

	log.Printf("📡 Request %d broadcast to %d nearby pros", request.ID, notified)
	return notified, nil
}
