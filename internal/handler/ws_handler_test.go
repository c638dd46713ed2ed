package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/notify"
	ws "github.com/stemsi/profile-directory/internal/websocket"
)

type wsEvent struct {
	Event  ws.Event           `json:"event"`
	Action model.ChangeAction `json:"action"`
	ID     model.ProfileID    `json:"id"`
	Error  string             `json:"error"`
}

func dialEvents(t *testing.T, hub *notify.Hub, allowed []string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewWSHandler(hub, zerolog.Nop(), allowed)
	r := gin.New()
	r.GET("/ws/admin/events", h.AdminEvents)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/admin/events"
	return websocket.DefaultDialer.Dial(url, header)
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev wsEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestWSHandler_PushesChanges(t *testing.T) {
	hub := notify.NewHub(zerolog.Nop())
	defer hub.Close()

	conn, _, err := dialEvents(t, hub, nil, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, ws.EventReady, readEvent(t, conn).Event)

	hub.Broadcast(model.ChangeEvent{Action: model.ChangeDeleted, ID: "7"})

	ev := readEvent(t, conn)
	assert.Equal(t, ws.EventProfilesChanged, ev.Event)
	assert.Equal(t, model.ChangeDeleted, ev.Action)
	assert.Equal(t, model.ProfileID("7"), ev.ID)
}

func TestWSHandler_AnswersPing(t *testing.T) {
	hub := notify.NewHub(zerolog.Nop())
	defer hub.Close()

	conn, _, err := dialEvents(t, hub, nil, nil)
	require.NoError(t, err)
	defer conn.Close()
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(ws.RequestEnvelope{Action: ws.ActionPing}))
	assert.Equal(t, ws.EventPong, readEvent(t, conn).Event)

	require.NoError(t, conn.WriteJSON(ws.RequestEnvelope{Action: "dance"}))
	ev := readEvent(t, conn)
	assert.Equal(t, ws.EventError, ev.Event)
	assert.Contains(t, ev.Error, "dance")
}

func TestWSHandler_UnsubscribesOnClose(t *testing.T) {
	hub := notify.NewHub(zerolog.Nop())
	defer hub.Close()

	conn, _, err := dialEvents(t, hub, nil, nil)
	require.NoError(t, err)
	readEvent(t, conn)
	require.Equal(t, 1, hub.Len())

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWSHandler_RejectsForeignOrigin(t *testing.T) {
	hub := notify.NewHub(zerolog.Nop())
	defer hub.Close()

	header := http.Header{"Origin": {"https://evil.example"}}
	_, resp, err := dialEvents(t, hub, []string{"https://admin.example"}, header)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
