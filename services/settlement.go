package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// SettlementService notifies the payment back office that a cleaning is done
// and the agreed amount can be released to the pro. Fire-and-forget: the
// request is already completed by the time this runs, so failures are logged
// for manual reconciliation.
type SettlementService struct {
	webhookURL string
	client     *http.Client
}

func NewSettlementService(webhookURL string) *SettlementService {
	return &SettlementService{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Release posts the settlement order for one completed request.
func (s *SettlementService) Release(requestID uint, amount float64, proID uint) error {
	if s.webhookURL == "" {
		log.Printf("📭 Settlement webhook not configured, skipping release for request %d", requestID)
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"request_id": requestID,
		"amount":     amount,
		"pro_id":     proID,
	})
	if err != nil {
		return err
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("settlement webhook returned status %s", resp.Status)
	}

	log.Printf("💸 Settlement released for request %d: %.2f$ to pro %d", requestID, amount, proID)
	return nil
}
