// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"carbon-travel-api/internal/api/middleware"
	"carbon-travel-api/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Maximum time to wait for the next client message or ping.
const pongWait = 60 * time.Second

type WebSocketHandler struct {
	Hub      *socket.Hub
	Tokens   middleware.AccessTokenParser
	Upgrader websocket.Upgrader
	Log      zerolog.Logger
}

// ServeWs upgrades an authenticated request and keeps the connection
// registered for grade notifications until the client goes away.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token is required"})
		return
	}
	userID, err := h.Tokens.ParseAccess(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn().Err(err).Msg("Failed to upgrade connection")
		return
	}

	h.Hub.Register(userID, conn)
	defer func() {
		h.Hub.Unregister(userID, conn)
		conn.Close()
	}()

	// Each ping from the client extends the deadline; gorilla answers with a pong.
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Log.Debug().Err(err).Str("userId", userID).Msg("WebSocket closed unexpectedly")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}
