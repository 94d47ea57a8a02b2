package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health, unauthenticated.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": "1.0"})
}

// Ping handles GET /api/v1/ping behind the API key; it confirms both
// liveness and that the client's key works.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "pong!"})
}
