package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mummysboy/galantsalestracker/internal/model"
	"github.com/mummysboy/galantsalestracker/internal/progress"
)

func (h *Handler) channelParam(c *gin.Context) (model.Channel, bool) {
	channel := model.Channel(c.Param("channel"))
	if !model.KnownChannel(channel) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown channel"})
		return "", false
	}
	return channel, true
}

// ListChannels handles GET /api/channels.
func (h *Handler) ListChannels(c *gin.Context) {
	stats, err := h.store.ChannelStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": stats})
}

// GetSummary handles GET /api/channels/:channel/summary.
func (h *Handler) GetSummary(c *gin.Context) {
	channel, ok := h.channelParam(c)
	if !ok {
		return
	}

	summary, err := h.coordinator.Summary(channel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListRecords handles GET /api/channels/:channel/records with
// offset/limit paging over the merged record set.
func (h *Handler) ListRecords(c *gin.Context) {
	channel, ok := h.channelParam(c)
	if !ok {
		return
	}

	records, err := h.store.GetChannel(channel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	total := len(records)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"offset":  offset,
		"records": records[offset:end],
	})
}

// GetCustomerProgress handles
// GET /api/channels/:channel/customers/:name/progress.
func (h *Handler) GetCustomerProgress(c *gin.Context) {
	channel, ok := h.channelParam(c)
	if !ok {
		return
	}

	records, err := h.store.GetChannel(channel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	report := progress.Analyze(records, c.Param("name"))
	if len(report.Periods) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for customer"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// DeletePeriod handles DELETE /api/channels/:channel/periods/:period.
func (h *Handler) DeletePeriod(c *gin.Context) {
	channel, ok := h.channelParam(c)
	if !ok {
		return
	}

	removed, err := h.coordinator.DeletePeriod(channel, c.Param("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
