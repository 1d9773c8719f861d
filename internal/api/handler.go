// Package api holds the JSON handlers behind /api.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mummysboy/galantsalestracker/internal/catalog"
	"github.com/mummysboy/galantsalestracker/internal/importer"
	"github.com/mummysboy/galantsalestracker/internal/store"
)

// Handler routes API traffic to the pipeline.
type Handler struct {
	store       *store.Store
	coordinator *importer.Coordinator
	products    *catalog.Products
	log         zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(st *store.Store, coordinator *importer.Coordinator, products *catalog.Products, log zerolog.Logger) *Handler {
	return &Handler{
		store:       st,
		coordinator: coordinator,
		products:    products,
		log:         log.With().Str("component", "api").Logger(),
	}
}

// RegisterRoutes attaches all API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	router.POST("/import", h.Import)
	router.GET("/batches", h.ListBatches)

	router.GET("/channels", h.ListChannels)
	router.GET("/channels/:channel/summary", h.GetSummary)
	router.GET("/channels/:channel/records", h.ListRecords)
	router.GET("/channels/:channel/customers/:name/progress", h.GetCustomerProgress)
	router.DELETE("/channels/:channel/periods/:period", h.DeletePeriod)

	router.GET("/catalog/unmapped", h.ListUnmapped)

	router.POST("/export", h.Export)
}
