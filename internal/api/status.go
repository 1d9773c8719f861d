package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// StatusResponse reports what the instance currently holds.
type StatusResponse struct {
	Initialized  bool     `json:"initialized"`
	Channels     []string `json:"channels"`
	TotalRecords int      `json:"totalRecords"`
}

// GetStatus handles GET /api/status.
func (h *Handler) GetStatus(c *gin.Context) {
	count, err := h.store.CountRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	channels := make([]string, 0, len(model.AllChannels))
	for _, ch := range model.AllChannels {
		channels = append(channels, string(ch))
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized:  count > 0,
		Channels:     channels,
		TotalRecords: count,
	})
}
