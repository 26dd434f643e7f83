package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifyUserNeverBlocks(t *testing.T) {
	hub := NewHub()
	// Hub not running: fill the queue past its buffer, calls must return.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.NotifyUser(1, "notification", map[string]int{"i": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("NotifyUser blocked on a full queue")
	}
}

func TestNotifyUserNilHub(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() {
		hub.NotifyUser(1, "notification", nil)
	})
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, UserID: 7, Send: make(chan []byte, 4)}
	hub.Register <- client

	assert.Eventually(t, func() bool {
		return hub.ConnectedUsers() == 1
	}, time.Second, 5*time.Millisecond)

	hub.NotifyUser(7, "notification", map[string]string{"title": "Nouvelle offre reçue"})
	select {
	case payload := <-client.Send:
		assert.Contains(t, string(payload), "Nouvelle offre reçue")
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}

	hub.Unregister <- client
	assert.Eventually(t, func() bool {
		return hub.ConnectedUsers() == 0
	}, time.Second, 5*time.Millisecond)
}
