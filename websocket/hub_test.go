package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savora-app/savora_backend/models"
)

func startServer(t *testing.T, hub *Hub) string {
	t.Helper()
	e := echo.New()
	e.GET("/ws/:user", func(c echo.Context) error {
		return HandleWebSocket(c, hub, c.Param("user"))
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_PublishesToEveryConnectionOfUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	url := startServer(t, hub)
	phone := dial(t, url+"/ws/user-1")
	tablet := dial(t, url+"/ws/user-1")
	other := dial(t, url+"/ws/user-2")

	for _, conn := range []*websocket.Conn{phone, tablet, other} {
		assert.Equal(t, "connected", readMessage(t, conn).Type)
	}
	assert.Eventually(t, func() bool { return hub.Connections("user-1") == 2 }, time.Second, 5*time.Millisecond)

	n := &models.Notification{ID: "n1", Title: "Order Confirmed!"}
	hub.PublishNotificationEvent("user-1", models.NotificationEvent{Kind: models.EventShown, Notification: n})

	for _, conn := range []*websocket.Conn{phone, tablet} {
		msg := readMessage(t, conn)
		assert.Equal(t, string(models.EventShown), msg.Type)
		require.NotNil(t, msg.Notification)
		assert.Equal(t, "n1", msg.Notification.ID)
	}
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	url := startServer(t, hub)
	conn := dial(t, url+"/ws/user-1")
	readMessage(t, conn)
	assert.Eventually(t, func() bool { return hub.Connections("user-1") == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Connections("user-1") == 0 }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, hub.SendToUser("user-1", Message{Type: "ping"}), ErrUserNotConnected)
}

func TestHub_SendToUnknownUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	assert.ErrorIs(t, hub.SendToUser("nobody", Message{Type: "ping"}), ErrUserNotConnected)
	// events for users without a connection are dropped silently
	hub.PublishNotificationEvent("nobody", models.NotificationEvent{Kind: models.EventCleared})
}
