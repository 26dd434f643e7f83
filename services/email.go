package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"chaletprop-server/models"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailRelay forwards notifications to users' inboxes through the Resend
// API. It is strictly best-effort: the in-app notification row is the
// source of truth and a failed or skipped email is only ever logged.
type EmailRelay struct {
	apiKey   string
	from     string
	appURL   string
	endpoint string
	client   *http.Client
}

// NewEmailRelay creates an EmailRelay. An empty API key disables sending.
func NewEmailRelay(apiKey, from, appURL string) *EmailRelay {
	return &EmailRelay{
		apiKey:   apiKey,
		from:     from,
		appURL:   appURL,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

var emailEmoji = map[models.NotificationType]string{
	models.NotifNewRequestNearby:  "🏔",
	models.NotifNewOffer:          "💰",
	models.NotifOfferAccepted:     "✅",
	models.NotifOfferDeclined:     "❌",
	models.NotifCleaningCompleted: "🎉",
	models.NotifNewMessage:        "💬",
}

// Send relays one notification email. Returns an error for logging only;
// callers never propagate it.
func (r *EmailRelay) Send(to, firstName string, ntype models.NotificationType, title, body string) error {
	if r.apiKey == "" {
		log.Printf("📭 RESEND_API_KEY not configured, skipping email %q to %s", title, to)
		return nil
	}

	emoji := emailEmoji[ntype]
	if emoji == "" {
		emoji = "🔔"
	}

	html := fmt.Sprintf(
		`<div style="font-family: sans-serif; max-width: 560px; margin: 0 auto; padding: 32px 24px;">
<p style="color: #6B7280; font-size: 14px;">Bonjour %s,</p>
<h2 style="color: #111827;">%s</h2>
<p style="color: #374151; font-size: 15px;">%s</p>
<a href="%s" style="display: inline-block; padding: 12px 28px; border-radius: 10px; background: #0D9488; color: white; font-weight: 700; text-decoration: none;">Ouvrir ChaletProp</a>
</div>`,
		firstName, title, body, r.appURL)

	payload, err := json.Marshal(map[string]interface{}{
		"from":    r.from,
		"to":      []string{to},
		"subject": fmt.Sprintf("%s %s", emoji, title),
		"html":    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("email relay returned status %s", resp.Status)
	}
	return nil
}
