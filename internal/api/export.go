package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mummysboy/galantsalestracker/internal/exporter"
	"github.com/mummysboy/galantsalestracker/internal/model"
)

// ExportRequest selects what to export.
type ExportRequest struct {
	Channel string `json:"channel"`
}

// Export handles POST /api/export: builds the pivot workbook for one
// channel and streams it back as an xlsx download.
func (h *Handler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	channel := model.Channel(req.Channel)
	if !model.KnownChannel(channel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown channel %q", req.Channel)})
		return
	}

	summary, err := h.coordinator.Summary(channel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	workbook, err := exporter.BuildWorkbook(channel, summary)
	if err != nil {
		h.log.Error().Err(err).Str("channel", string(channel)).Msg("export build failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("%s-sales-%s.xlsx", channel, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		h.log.Error().Err(err).Msg("export write failed")
	}
}
