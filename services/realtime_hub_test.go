package services

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// dialHub starts a websocket endpoint that registers every connection for
// userID and returns a connected client.
func dialHub(t *testing.T, hub *RealtimeHub, userID uint) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cl := NewWSClient(userID, conn)
		hub.Register(cl)
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					hub.Unregister(cl)
					return
				}
			}
		}()
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Connections(userID) > 0 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestRealtimeHub_PublishReachesOnlyThatUser(t *testing.T) {
	hub := NewRealtimeHub(discardLogger())
	alice := dialHub(t, hub, 1)
	bob := dialHub(t, hub, 2)

	hub.Publish(1, Event{Kind: EventMealLogged, Data: map[string]string{"id": "m1"}})

	require.NoError(t, alice.SetReadDeadline(time.Now().Add(time.Second)))
	_, raw, err := alice.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Kind string            `json:"kind"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, EventMealLogged, got.Kind)
	assert.Equal(t, "m1", got.Data["id"])

	require.NoError(t, bob.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = bob.ReadMessage()
	assert.Error(t, err, "bob must not receive alice's events")
}

func TestRealtimeHub_UnregisterOnClose(t *testing.T) {
	hub := NewRealtimeHub(discardLogger())
	conn := dialHub(t, hub, 7)
	require.Equal(t, 1, hub.Connections(7))

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Connections(7) == 0 }, time.Second, 10*time.Millisecond)
}

func TestRealtimeHub_PublishWithoutClients(t *testing.T) {
	hub := NewRealtimeHub(discardLogger())
	assert.NotPanics(t, func() { hub.Publish(99, Event{Kind: EventAlertCreated}) })
}
