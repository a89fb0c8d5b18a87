package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yenugah80/METRICS-sub000/config"
	"github.com/yenugah80/METRICS-sub000/models"
)

type PreferencesInput struct {
	DietPreferences      []string `json:"diet_preferences"`
	AllergenRestrictions []string `json:"allergen_restrictions"`
}

// GET /user/preferences
func GetPreferences(c *gin.Context) {
	uid := c.GetUint("userID")

	var user models.User
	if err := config.DB.First(&user, uid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user.Preferences())
}

// PUT /user/preferences
func UpdatePreferences(c *gin.Context) {
	uid := c.GetUint("userID")

	var input PreferencesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{
		"diet_preferences":      strings.Join(input.DietPreferences, ","),
		"allergen_restrictions": strings.Join(input.AllergenRestrictions, ","),
	}
	if err := config.DB.Model(&models.User{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "preferences updated"})
}
