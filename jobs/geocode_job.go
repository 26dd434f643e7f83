package jobs

import (
	"log"
	"time"

	"chaletprop-server/database"
	"chaletprop-server/models"
	"chaletprop-server/utils"
)

// GeocodeJob retries geocoding for chalets and pro profiles whose address
// could not be resolved at creation time (Nominatim down, rate limited, or
// an address typo fixed later).
type GeocodeJob struct {
	geocoder *utils.Geocoder
	stopChan chan bool
}

func NewGeocodeJob(geocoder *utils.Geocoder) *GeocodeJob {
	return &GeocodeJob{
		geocoder: geocoder,
		stopChan: make(chan bool),
	}
}

// Start begins the backfill job
func (j *GeocodeJob) Start() {
	go j.run()
	log.Println("🚀 Geocode backfill job started")
}

// Stop stops the backfill job
func (j *GeocodeJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Geocode backfill job stopped")
}

func (j *GeocodeJob) run() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.backfillChalets()
			j.backfillProfiles()
		case <-j.stopChan:
			return
		}
	}
}

func (j *GeocodeJob) backfillChalets() {
	var chalets []models.Chalet
	err := database.DB.Where("lat IS NULL OR lng IS NULL").Limit(20).Find(&chalets).Error
	if err != nil {
		log.Printf("❌ Geocode backfill query failed: %v", err)
		return
	}

	for _, chalet := range chalets {
		coords := j.geocoder.Geocode(chalet.Address, chalet.City, chalet.Province, chalet.PostalCode)
		if coords == nil {
			continue
		}
		err := database.DB.Model(&chalet).
			Updates(map[string]interface{}{"lat": coords.Lat, "lng": coords.Lng}).Error
		if err != nil {
			log.Printf("❌ Failed to save coordinates for chalet %d: %v", chalet.ID, err)
			continue
		}
		log.Printf("📍 Chalet %d geocoded: %s", chalet.ID, chalet.City)
	}
}

func (j *GeocodeJob) backfillProfiles() {
	var profiles []models.ProProfile
	err := database.DB.Where("lat IS NULL OR lng IS NULL").Limit(20).Find(&profiles).Error
	if err != nil {
		log.Printf("❌ Geocode backfill query failed: %v", err)
		return
	}

	for _, profile := range profiles {
		coords := j.geocoder.Geocode("", profile.City, profile.Province, "")
		if coords == nil {
			continue
		}
		err := database.DB.Model(&profile).
			Updates(map[string]interface{}{"lat": coords.Lat, "lng": coords.Lng}).Error
		if err != nil {
			log.Printf("❌ Failed to save coordinates for pro profile %d: %v", profile.ID, err)
			continue
		}
		log.Printf("📍 Pro profile %d geocoded: %s", profile.ID, profile.City)
	}
}
