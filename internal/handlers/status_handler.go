package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/votacion-api/internal/logger"
	"github.com/gravadigital/votacion-api/internal/realtime"
	"github.com/gravadigital/votacion-api/internal/storage"
)

// Version is reported by the root and status endpoints
const Version = "2.0.0"

type StatusHandler struct {
	baseHandler
	store storage.Container
	hub   *realtime.Hub
}

func NewStatusHandler(store storage.Container, hub *realtime.Hub) *StatusHandler {
	return &StatusHandler{
		baseHandler: baseHandler{log: logger.Handler("status_handler")},
		store:       store,
		hub:         hub,
	}
}

// Root handles GET /
func (h *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "API de Votacion - En linea",
		"version": Version,
		"endpoints": gin.H{
			"candidatos": gin.H{
				"listar":       "GET /api/candidatos",
				"obtener":      "GET /api/candidatos/{id}",
				"crear":        "POST /api/candidatos",
				"actualizar":   "PUT /api/candidatos/{id}",
				"eliminar":     "DELETE /api/candidatos/{id}",
				"imagen":       "POST /api/candidatos/{id}/imagen",
				"conteo":       "GET /api/candidatos/resultados/conteo",
				"estadisticas": "GET /api/candidatos/resultados/estadisticas",
			},
			"votos": gin.H{
				"votar":               "POST /api/votos",
				"verificar":           "GET /api/votos/verificar/{user_id}",
				"verificar_correo":    "GET /api/votos/verificar-correo/{correo}",
				"verificar_ubicacion": "GET /api/votos/verificar-ubicacion?lat={lat}&lng={lng}",
				"validar_correo":      "GET /api/votos/validar-correo/{correo}",
				"puede_votar":         "GET /api/votos/puede-votar?correo={correo}&lat={lat}&lng={lng}",
				"votos_candidato":     "GET /api/votos/candidato/{id}",
				"reiniciar":           "POST /api/votos/reiniciar",
				"websocket":           "WS /api/votos/ws",
			},
		},
	})
}

// Status handles GET /api/status
func (h *StatusHandler) Status(c *gin.Context) {
	info := h.store.Info()
	healthy := true
	if err := h.store.Health(c.Request.Context()); err != nil {
		h.log.Warn("Storage health check failed", "error", err)
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"success":      healthy,
		"message":      "API de Votacion - Operativa",
		"version":      Version,
		"database":     info["type"],
		"storage":      info,
		"espectadores": h.hub.Count(),
	})
}

// Ping handles GET /ping
func (h *StatusHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Votacion API is running",
		"status":  "healthy",
	})
}
