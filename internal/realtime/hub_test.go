package realtime_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrysnap/backend/internal/realtime"
)

func dialTestHub(t *testing.T, hub *realtime.Hub, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client := &realtime.WSClient{UserID: userID, Conn: conn}
		hub.Register(client)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubForwardsFeedEventsToWebsocket(t *testing.T) {
	feed := realtime.NewFeed()
	hub := realtime.NewHub(feed)
	userID := uuid.New()

	conn := dialTestHub(t, hub, userID)

	recipeID := uuid.New()
	// Registration subscribes asynchronously; give the forward loop a beat.
	time.Sleep(20 * time.Millisecond)
	feed.Publish(realtime.Event{Type: realtime.EventInsert, RecipeID: recipeID, UserID: userID})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev realtime.Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, realtime.EventInsert, ev.Type)
	assert.Equal(t, recipeID, ev.RecipeID)
}

func TestHubDoesNotCrossUsers(t *testing.T) {
	feed := realtime.NewFeed()
	hub := realtime.NewHub(feed)
	userID := uuid.New()

	conn := dialTestHub(t, hub, userID)
	time.Sleep(20 * time.Millisecond)

	// An event for a different user must never reach this connection.
	feed.Publish(realtime.Event{Type: realtime.EventInsert, RecipeID: uuid.New(), UserID: uuid.New()})
	feed.Publish(realtime.Event{Type: realtime.EventDelete, RecipeID: uuid.New(), UserID: userID})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev realtime.Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, realtime.EventDelete, ev.Type)
}
