package server

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bobsantos/likha-app-sub000/internal/ai"
	"github.com/bobsantos/likha-app-sub000/internal/config"
	"github.com/bobsantos/likha-app-sub000/internal/report"
	"github.com/bobsantos/likha-app-sub000/internal/server/handlers"
	"github.com/bobsantos/likha-app-sub000/internal/session"
	"github.com/bobsantos/likha-app-sub000/internal/store"
)

// Server is the HTTP server wrapping the report pipeline.
type Server struct {
	router   *gin.Engine
	store    *store.Store
	sessions *session.Store
	handlers *handlers.Handlers
	log      *zap.Logger
}

// NewServer builds the server with its SQLite store, session arena and
// optional AI column suggester.
func NewServer(cfg *config.AppConfig, log *zap.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "likha.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(time.Duration(cfg.SessionTTL()) * time.Minute)

	var suggester report.Suggester
	if cfg.AI.Enabled {
		s, err := ai.NewSuggester(context.Background(), cfg.AI.Model)
		if err != nil {
			log.Warn("AI suggester disabled", zap.Error(err))
		} else {
			suggester = s
			log.Info("AI suggester enabled", zap.String("model", cfg.AI.Model))
		}
	}

	h := handlers.NewHandlers(sqliteStore, sessions, suggester, cfg, log)

	s := &Server{
		router:   gin.Default(),
		store:    sqliteStore,
		sessions: sessions,
		handlers: h,
		log:      log,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		s.handlers.RegisterRoutes(api)
	}
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the session janitor and the database handle.
func (s *Server) Close() error {
	s.sessions.Close()
	return s.store.Close()
}

// GetStore exposes the storage layer for tests.
func (s *Server) GetStore() *store.Store {
	return s.store
}
