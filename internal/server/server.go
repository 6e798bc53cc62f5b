package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/votacion-api/internal/config"
	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/handlers"
	"github.com/gravadigital/votacion-api/internal/logger"
	"github.com/gravadigital/votacion-api/internal/media"
	"github.com/gravadigital/votacion-api/internal/middleware/events"
	"github.com/gravadigital/votacion-api/internal/realtime"
	"github.com/gravadigital/votacion-api/internal/services"
	"github.com/gravadigital/votacion-api/internal/storage"
)

// Dependencies are the wired components the HTTP layer serves
type Dependencies struct {
	Store    storage.Container
	Registry *candidate.Registry
	Election *services.ElectionService
	Hub      *realtime.Hub
	Images   media.ImageStore
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	deps       Dependencies
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies) *Server {
	return &Server{
		config: cfg,
		deps:   deps,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: s.Router(),

		// Timeouts seguros según estándares de Go. Sin WriteTimeout: los
		// websockets de resultados en vivo son conexiones largas.
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router configures the HTTP router with middleware and routes
func (s *Server) Router() *gin.Engine {
	// Configurar Gin
	if s.config.IsProduction() || s.config.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware básico
	router.Use(gin.Recovery())
	router.Use(events.CreateEvent())
	router.Use(cors.New(s.corsConfig()))

	// 8 MiB en memoria para multipart, el resto a disco
	router.MaxMultipartMemory = 8 << 20

	candidateHandler := handlers.NewCandidateHandler(s.deps.Registry, s.deps.Images, s.config)
	voteHandler := handlers.NewVoteHandler(s.deps.Election)
	liveHandler := handlers.NewLiveHandler(s.deps.Hub, s.config.AllowedOrigins())
	statusHandler := handlers.NewStatusHandler(s.deps.Store, s.deps.Hub)

	router.GET("/", statusHandler.Root)
	router.GET("/ping", statusHandler.Ping)

	if local, ok := s.deps.Images.(*media.LocalStore); ok {
		router.Static(s.config.Upload.PublicURL, local.Dir())
	}

	s.setupAPIRoutes(router, candidateHandler, voteHandler, liveHandler, statusHandler)

	return router
}

func (s *Server) corsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	origins := s.config.AllowedOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = s.config.AllowedMethods()
	corsConfig.AllowHeaders = s.config.AllowedHeaders()
	corsConfig.ExposeHeaders = []string{events.RequestIDHeader}
	return corsConfig
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	candidateHandler *handlers.CandidateHandler,
	voteHandler *handlers.VoteHandler,
	liveHandler *handlers.LiveHandler,
	statusHandler *handlers.StatusHandler,
) {
	api := router.Group("/api")
	{
		api.GET("/status", statusHandler.Status)

		candidates := api.Group("/candidatos")
		{
			candidates.GET("", candidateHandler.ListCandidates)
			candidates.POST("", candidateHandler.CreateCandidate)
			candidates.GET("/resultados/conteo", candidateHandler.GetTally)
			candidates.GET("/resultados/estadisticas", candidateHandler.GetStatistics)
			candidates.GET("/:id", candidateHandler.GetCandidate)
			candidates.PUT("/:id", candidateHandler.UpdateCandidate)
			candidates.DELETE("/:id", candidateHandler.DeleteCandidate)
			candidates.POST("/:id/imagen", candidateHandler.UploadImage)
		}

		votes := api.Group("/votos")
		{
			votes.POST("", voteHandler.CastVote)
			votes.GET("/verificar/:user_id", voteHandler.CheckUser)
			votes.GET("/verificar-correo/:correo", voteHandler.CheckEmailUsed)
			votes.GET("/verificar-ubicacion", voteHandler.CheckLocation)
			votes.GET("/validar-correo/:correo", voteHandler.ValidateEmail)
			votes.GET("/puede-votar", voteHandler.CanVote)
			votes.GET("/candidato/:id", voteHandler.VotesForCandidate)
			votes.POST("/reiniciar", voteHandler.ResetElection)
			votes.GET("/ws", liveHandler.Connect)
		}
	}
}
