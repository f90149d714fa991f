package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pantrysnap/backend/internal/middleware"
	"github.com/pantrysnap/backend/internal/realtime"
)

// WSHandler upgrades authenticated clients to websocket connections and
// streams their saved-recipe feed events to them.
type WSHandler struct {
	hub       *realtime.Hub
	validator middleware.TokenValidator
	upgrader  websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub, validator middleware.TokenValidator) *WSHandler {
	return &WSHandler{
		hub:       hub,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are enforced by the CORS layer in front of this.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) RegisterRoutes(router *gin.RouterGroup) {
	ws := router.Group("/ws")
	ws.Use(middleware.AuthMiddleware(h.validator))
	{
		ws.GET("/recipes", h.Recipes)
	}
}

// Recipes holds the connection open, forwarding the user's feed events until
// the client goes away.
func (h *WSHandler) Recipes(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	uid := userID.(uuid.UUID)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] upgrade failed: %v", err)
		return
	}

	client := &realtime.WSClient{UserID: uid, Conn: conn}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	// Reads are discarded; the socket is server-push only. The read loop
	// exists to notice the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
