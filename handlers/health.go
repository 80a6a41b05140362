package handlers

import (
	"net/http"

	"cupbot/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last health monitor snapshot.
func HealthHandler(c *gin.Context) {
	h := utils.GetHealthStatus()
	status, code := "ok", http.StatusOK
	if !h.Healthy() {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"checkedAt": h.CheckedAt,
		"mongo":     h.Mongo,
		"redis":     h.Redis,
	})
}
