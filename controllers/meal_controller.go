package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yenugah80/METRICS-sub000/config"
	"github.com/yenugah80/METRICS-sub000/models"
	"github.com/yenugah80/METRICS-sub000/services"
)

type MealController struct {
	Meals *services.MealService
}

func NewMealController(ms *services.MealService) *MealController {
	return &MealController{Meals: ms}
}

// POST /meals  { "type": "lunch", "ate_at": "...", "items": [...] }
func (mc *MealController) LogMeal(c *gin.Context) {
	var body struct {
		Type  string                     `json:"type"`
		AteAt time.Time                  `json:"ate_at"`
		Items []services.MealItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := c.GetUint("userID")
	var u models.User
	if err := config.DB.First(&u, uid).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	meal, err := mc.Meals.AddMeal(c.Request.Context(), &u, body.Type, body.AteAt, body.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// GET /meals
func (mc *MealController) ListMeals(c *gin.Context) {
	uid := c.GetUint("userID")

	meals, err := mc.Meals.ListMeals(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meals)
}
