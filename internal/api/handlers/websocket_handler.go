// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"log"
	"net/http"

	"farmlink-api-server/internal/auth"
	"farmlink-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin checks are handled by the CORS middleware on the HTTP side.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub *socket.Hub
}

// ServeWs authenticates via a token query parameter (browsers cannot set
// headers on WebSocket upgrades), registers the connection and holds it open
// until the client goes away.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required"})
		return
	}

	claims, err := auth.ParseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket connection: %v", err)
		return
	}

	h.Hub.Register(claims.UserID, conn)

	go func() {
		defer func() {
			h.Hub.Unregister(claims.UserID)
			conn.Close()
		}()
		// Drain the connection; clients only receive on this socket.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
