package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savorista/backend/internal/service"
)

// GetDraft handles GET /api/v1/drafts/:slug.
func (h *RecipeHandler) GetDraft(c *gin.Context) {
	if h.drafts == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}

	recipe, err := h.drafts.GetDraft(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, service.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": recipe})
}

// DeleteDraft handles DELETE /api/v1/drafts/:slug. Deleting an absent
// draft still succeeds.
func (h *RecipeHandler) DeleteDraft(c *gin.Context) {
	if h.drafts == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}

	if err := h.drafts.DeleteDraft(c.Request.Context(), c.Param("slug")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
