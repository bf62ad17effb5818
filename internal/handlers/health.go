package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version is the API version reported by the info endpoints.
const Version = "1.0.0"

// HealthCheck reports that the API is running.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "ShowUp API is running",
		"version": Version,
	})
}

// APIInfo lists the available endpoints.
func APIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "ShowUp API",
		"version":     Version,
		"description": "Appointment no-show prediction and reminder system",
		"endpoints": gin.H{
			"health":       "/health",
			"appointments": "/api/appointments",
			"patients":     "/api/patients",
			"model":        "/api/model/metrics",
			"metrics":      "/metrics",
		},
	})
}
