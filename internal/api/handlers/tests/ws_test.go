package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mycraft-api/internal/api/handlers"
	"mycraft-api/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

const wsTestSecret = "test-secret"

func signWSTestToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(wsTestSecret))
	require.NoError(t, err)
	return token
}

func newWSTestServer(t *testing.T) (*ws.Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := ws.NewHub()
	router := gin.New()
	router.GET("/ws", handlers.NewWSHandler(hub, wsTestSecret).Handle)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return hub, srv
}

func wsTestURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
}

// Every closed connection must leave the hub again; otherwise the handler
// goroutine blocks forever and broadcasts keep targeting dead connections.
func TestWSHandler_ReleasesClientOnDisconnect(t *testing.T) {
	hub, srv := newWSTestServer(t)

	userID := uuid.New()
	token := signWSTestToken(t, userID)

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		conn, _, err := websocket.Dial(ctx, wsTestURL(srv, token), nil)
		require.NoError(t, err)

		require.Eventually(t, func() bool { return hub.ClientCount(userID) == 1 },
			2*time.Second, 10*time.Millisecond, "client not registered after connect")

		require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
		cancel()

		require.Eventually(t, func() bool { return hub.ClientCount(userID) == 0 },
			2*time.Second, 10*time.Millisecond, "client still registered after disconnect")
	}
}

// Broadcasting concurrently with connect/disconnect churn must not panic:
// the client send channel is never closed, slow or dead connections just
// drop events.
func TestWSHandler_BroadcastDuringChurn(t *testing.T) {
	hub, srv := newWSTestServer(t)

	userID := uuid.New()
	token := signWSTestToken(t, userID)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				hub.BroadcastToUsers([]uuid.UUID{userID}, ws.Event{Type: "message.new"})
			}
		}
	}()

	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		conn, _, err := websocket.Dial(ctx, wsTestURL(srv, token), nil)
		require.NoError(t, err)
		require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
		cancel()
	}

	close(stop)
	<-done

	require.Eventually(t, func() bool { return hub.ClientCount(userID) == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestWSHandler_RejectsInvalidToken(t *testing.T) {
	_, srv := newWSTestServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ws?token=not-a-jwt")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
