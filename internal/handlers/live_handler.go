package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/gravadigital/votacion-api/internal/logger"
	"github.com/gravadigital/votacion-api/internal/realtime"
)

// LiveHandler serves the live tally websocket
type LiveHandler struct {
	baseHandler
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewLiveHandler(hub *realtime.Hub, allowedOrigins []string) *LiveHandler {
	h := &LiveHandler{
		baseHandler: baseHandler{log: logger.Handler("live_handler")},
		hub:         hub,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

// Connect handles GET /api/votos/ws. The client receives a snapshot, may
// send "ping" to get a pong, and otherwise only listens.
func (h *LiveHandler) Connect(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.log.Warn("Websocket upgrade failed", "error", err, "remote_addr", c.ClientIP())
		return
	}

	client := realtime.NewClient(ws)
	defer h.hub.Disconnect(client)

	if err := h.hub.Connect(c.Request.Context(), client); err != nil {
		h.log.Warn("Initial snapshot not delivered", "error", err)
	}

	for {
		msg, err := client.ReadText()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("Viewer connection closed", "error", err)
			}
			return
		}
		if strings.TrimSpace(msg) == "ping" {
			if err := client.WriteJSON(realtime.Pong); err != nil {
				return
			}
		}
	}
}
