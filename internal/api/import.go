package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mummysboy/galantsalestracker/internal/importer"
	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Import handles POST /api/import: multipart upload of one distributor
// file, streamed back as SSE progress events ending with the batch
// report (type "done") or an error event.
func (h *Handler) Import(c *gin.Context) {
	channel := model.Channel(c.PostForm("channel"))
	if !model.KnownChannel(channel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown channel %q", channel)})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	upload, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "open upload failed"})
		return
	}
	defer upload.Close()

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	progressChan := h.coordinator.Import(importer.ImportOptions{
		Channel:  channel,
		Filename: fileHeader.Filename,
		Reader:   upload,
	})

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// ListBatches handles GET /api/batches.
func (h *Handler) ListBatches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.store.ListBatchLog(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": entries})
}
