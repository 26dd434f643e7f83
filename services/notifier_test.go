package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaletprop-server/models"
	ws "chaletprop-server/websocket"
)

func TestNotifyValidatesInput(t *testing.T) {
	db := newTestDB(t)
	notifier := newTestNotifier(db)

	_, err := notifier.Notify(0, models.NotifNewOffer, "Titre", "corps", nil)
	assert.ErrorIs(t, err, ErrInvalidNotification)

	_, err = notifier.Notify(1, models.NotifNewOffer, "", "corps", nil)
	assert.ErrorIs(t, err, ErrInvalidNotification)

	_, err = notifier.Notify(9999, models.NotifNewOffer, "Titre", "corps", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestNotifyPersistsRowWithContext(t *testing.T) {
	db := newTestDB(t)
	notifier := newTestNotifier(db)
	user := createUser(t, db, models.RolePro, "pro@test.ca")

	created, err := notifier.Notify(user.ID, models.NotifNewOffer, "Nouvelle offre reçue", "90$", &NotificationContext{
		RequestID: 12,
		SenderID:  34,
	})
	require.NoError(t, err)
	assert.False(t, created.IsRead())

	var stored models.Notification
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.Equal(t, models.NotifNewOffer, stored.Type)

	var ctx NotificationContext
	require.NoError(t, json.Unmarshal(stored.Data, &ctx))
	assert.Equal(t, uint(12), ctx.RequestID)
	assert.Equal(t, uint(34), ctx.SenderID)
}

func TestNotifySendsEmailBestEffort(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, models.RolePro, "pro@test.ca")

	var mu sync.Mutex
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		mu.Lock()
		defer mu.Unlock()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	relay := NewEmailRelay("test-key", "ChaletProp <notifs@chaletprop.ca>", "https://app.chaletprop.ca")
	relay.endpoint = server.URL
	notifier := NewNotifier(db, ws.NewHub(), relay)

	_, err := notifier.Notify(user.ID, models.NotifOfferAccepted, "Offre acceptée !", "100$", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return payload != nil
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "✅ Offre acceptée !", payload["subject"])
	assert.Equal(t, []interface{}{"pro@test.ca"}, payload["to"])
}

func TestNotifySurvivesEmailFailure(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, models.RolePro, "pro@test.ca")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	relay := NewEmailRelay("test-key", "notifs@chaletprop.ca", "https://app.chaletprop.ca")
	relay.endpoint = server.URL
	notifier := NewNotifier(db, ws.NewHub(), relay)

	created, err := notifier.Notify(user.ID, models.NotifNewOffer, "Nouvelle offre reçue", "90$", nil)
	require.NoError(t, err)

	var stored models.Notification
	assert.NoError(t, db.First(&stored, created.ID).Error)
}

func TestEmailRelaySkipsWithoutKey(t *testing.T) {
	relay := NewEmailRelay("", "notifs@chaletprop.ca", "https://app.chaletprop.ca")
	assert.NoError(t, relay.Send("a@b.ca", "Alex", models.NotifNewOffer, "Titre", "corps"))
}
