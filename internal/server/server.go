// Package server assembles the HTTP surface: gin router, middleware,
// and the wired-up import pipeline behind it.
package server

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mummysboy/galantsalestracker/internal/api"
	"github.com/mummysboy/galantsalestracker/internal/catalog"
	"github.com/mummysboy/galantsalestracker/internal/config"
	"github.com/mummysboy/galantsalestracker/internal/importer"
	"github.com/mummysboy/galantsalestracker/internal/merge"
	"github.com/mummysboy/galantsalestracker/internal/parser"
	"github.com/mummysboy/galantsalestracker/internal/sink"
	"github.com/mummysboy/galantsalestracker/internal/store"
)

// Server owns the router and everything behind it.
type Server struct {
	router *gin.Engine
	store  *store.Store
	sink   *sink.Client
	log    zerolog.Logger
}

// NewServer builds the full pipeline from configuration.
func NewServer(cfg *config.AppConfig, log zerolog.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	st, err := store.New(filepath.Join(dataDir, "salesboard.db"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	products := catalog.NewProducts(log)
	pricing := catalog.NewPricing(log)
	if cfg.Data.PricingPath != "" {
		if err := pricing.LoadWorkbook(cfg.Data.PricingPath); err != nil {
			log.Warn().Err(err).Str("path", cfg.Data.PricingPath).Msg("pricing workbook not loaded")
		}
	}

	var sinkClient *sink.Client
	if cfg.Sink.Enabled && cfg.Sink.URL != "" {
		sinkClient = sink.NewClient(sink.Config{
			URL:     cfg.Sink.URL,
			Token:   cfg.Sink.Token,
			Enabled: true,
		}, log)
	}

	merger := merge.NewEngine(merge.Options{
		RetentionMonths: cfg.Retention.Months,
		DegradedMonths:  cfg.Retention.DegradedMonths,
		MaxBytes:        cfg.Retention.MaxBytes,
	}, log)

	svc := &parser.Services{
		Products: products,
		Pricing:  pricing,
		Log:      log,
	}

	coordinator := importer.NewCoordinator(st, merger, sinkClient, svc, log)
	handler := api.NewHandler(st, coordinator, products, log)

	s := &Server{
		router: gin.New(),
		store:  st,
		sink:   sinkClient,
		log:    log,
	}
	s.router.Use(gin.Recovery(), requestLogger(log))
	s.setupRoutes(handler)

	return s, nil
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}

func (s *Server) setupRoutes(handler *api.Handler) {
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	handler.RegisterRoutes(apiGroup)
}

// Run starts the server and blocks.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the store and flushes the sink queue.
func (s *Server) Close() error {
	if s.sink != nil {
		s.sink.Close()
	}
	return s.store.Close()
}

// GetStore exposes the store for tests.
func (s *Server) GetStore() *store.Store {
	return s.store
}
