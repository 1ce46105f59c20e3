package realtime_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"atelier/internal/domain/event"
	"atelier/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func startHub(t *testing.T, origin string) (*realtime.Hub, *httptest.Server) {
	t.Helper()
	hub := realtime.NewHub(origin, quiet())

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHub_BroadcastsToConnectedClient(t *testing.T) {
	hub, srv := startHub(t, "")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), event.Event{
		Type:        event.OrderCreated,
		ResourceID:  "o-1",
		OrderNumber: "ORD-482913",
		Total:       decimal.RequireFromString("1674"),
	}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg realtime.Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "order.created", msg.Type)
	assert.Equal(t, "ORD-482913", msg.Data.OrderNumber)
	assert.NotEmpty(t, msg.Timestamp)
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub, srv := startHub(t, "")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	_, srv := startHub(t, "https://admin.atelier.in")

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), header)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHub_PublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub, _ := startHub(t, "")

	for i := 0; i < 500; i++ {
		require.NoError(t, hub.Publish(context.Background(), event.Event{Type: event.OrderStatusChanged}))
	}
}
