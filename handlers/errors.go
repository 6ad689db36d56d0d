package handlers

import (
	"github.com/gin-gonic/gin"
)

// respondError writes the {"error", "details"} payload used by every
// endpoint. details is omitted when err is nil.
func respondError(c *gin.Context, status int, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}
