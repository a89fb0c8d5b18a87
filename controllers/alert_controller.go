package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yenugah80/METRICS-sub000/config"
	"github.com/yenugah80/METRICS-sub000/models"
)

// GET /alerts
func ListAlerts(c *gin.Context) {
	uid := c.GetUint("userID")

	var alerts []models.Alert
	if err := config.DB.Where("user_id = ?", uid).
		Order("created_at DESC").
		Limit(100).
		Find(&alerts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
