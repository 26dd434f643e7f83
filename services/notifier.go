package services

import (
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"chaletprop-server/models"
	ws "chaletprop-server/websocket"
)

// NotificationContext carries the optional request/sender references stored
// alongside a notification so the client can deep-link into the right screen.
type NotificationContext struct {
	RequestID uint `json:"request_id,omitempty"`
	SenderID  uint `json:"sender_id,omitempty"`
}

// Notifier persists notifications and fans them out over the realtime hub
// and email. The database row is written synchronously; everything after it
// is best-effort.
type Notifier struct {
	db    *gorm.DB
	hub   *ws.Hub
	email *EmailRelay
}

func NewNotifier(db *gorm.DB, hub *ws.Hub, email *EmailRelay) *Notifier {
	return &Notifier{db: db, hub: hub, email: email}
}

// Notify creates one notification for userID. Missing recipient or title is
// a caller bug and returns ErrInvalidNotification before anything is written.
func (n *Notifier) Notify(userID uint, ntype models.NotificationType, title, body string, ctx *NotificationContext) (*models.Notification, error) {
	if userID == 0 || title == "" {
		return nil, ErrInvalidNotification
	}

	var user models.User
	if err := n.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	notification := models.Notification{
		UserID: userID,
		Type:   ntype,
		Title:  title,
		Body:   body,
	}
	if ctx != nil {
		raw, err := json.Marshal(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to encode notification context: %w", err)
		}
		notification.Data = datatypes.JSON(raw)
	}

	if err := n.db.Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}

	n.hub.NotifyUser(userID, "notification", map[string]interface{}{
		"id":    notification.ID,
		"type":  string(ntype),
		"title": title,
		"body":  body,
	})

	if n.email != nil && user.Email != "" {
		go func(email, firstName string) {
			if err := n.email.Send(email, firstName, ntype, title, body); err != nil {
				log.Printf("⚠️ Email delivery failed for notification %d: %v", notification.ID, err)
			}
		}(user.Email, user.FirstName)
	}

	return &notification, nil
}
