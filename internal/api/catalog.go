package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUnmapped handles GET /api/catalog/unmapped: product names that
// fell through canonicalization since the process started, with hit
// counts, for growing the alias table.
func (h *Handler) ListUnmapped(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unmapped": h.products.Unmapped()})
}
