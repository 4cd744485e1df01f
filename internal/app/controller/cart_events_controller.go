package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/middleware"
	ws "github.com/ikkim/storefront/internal/websocket"
)

type CartEventsController struct {
	hub      *ws.Hub
	sessions service.SessionService
	upgrader websocket.Upgrader
}

// NewCartEventsController accepts upgrades only from allowedOrigins ("*"
// allows any).
func NewCartEventsController(hub *ws.Hub, sessions service.SessionService, allowedOrigins []string) *CartEventsController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &CartEventsController{
		hub:      hub,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Same-origin and non-browser clients send no Origin.
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Subscribe upgrades to a websocket that receives cart_updated events for
// the session. The current cart is sent first.
// GET /api/cart/events
func (ctrl *CartEventsController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := middleware.GetSessionID(c)
	cart, ok := sessionCart(c, ctrl.sessions)
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("Failed to upgrade to WebSocket", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, sessionID)
	if payload, err := json.Marshal(ws.NewCartEvent(cart.Snapshot())); err == nil {
		client.Send <- payload
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Cart event stream opened", map[string]interface{}{
		"session_id": sessionID,
	})
}
