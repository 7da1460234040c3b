package handlers

import (
	"fmt"
	"log"
	"net/http"

	"mycraft-api/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// WSHandler upgrades connections for push notifications. Browsers cannot set
// an Authorization header on native WebSockets, so the token travels as a
// query parameter.
type WSHandler struct {
	hub       *ws.Hub
	jwtSecret string
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *ws.Hub, jwtSecret string) *WSHandler {
	return &WSHandler{hub: hub, jwtSecret: jwtSecret}
}

// Handle godoc
// @Summary      Open a push notification socket
// @Description  Upgrades to a push-only WebSocket delivering chat and offer events. Authenticate with ?token=JWT.
// @Tags         ws
// @Param        token  query  string  true  "JWT token"
// @Success      101  {object}  nil "Switching Protocols"
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Router       /ws [get]
func (h *WSHandler) Handle(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	userID, err := h.parseUserID(tokenStr)
	if err != nil {
		log.Printf("WS: Rejected connection with invalid token: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		// Accept already wrote the error response
		return
	}

	// Clients never send application data; CloseRead keeps control frames
	// (close/ping/pong) processed and returns a context that is cancelled
	// once the connection is gone. The request context stays alive after the
	// hijack, so it cannot signal the disconnect.
	ctx := conn.CloseRead(c.Request.Context())

	client := h.hub.AddClient(userID, conn)
	defer h.hub.RemoveClient(client)

	// Block until the client disconnects.
	<-ctx.Done()
}

func (h *WSHandler) parseUserID(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("unexpected claims type")
	}
	return uuid.Parse(claims.Subject)
}
