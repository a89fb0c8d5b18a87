package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yenugah80/METRICS-sub000/controllers"
	"github.com/yenugah80/METRICS-sub000/middlewares"
)

type Controllers struct {
	Analysis *controllers.AnalysisController
	Meals    *controllers.MealController
	Realtime *controllers.RealtimeController
	Devices  *controllers.DeviceController
}

func SetupRouter(cs Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Protected food analysis routes
	food := r.Group("/food")
	food.Use(middlewares.AuthMiddleware())
	{
		food.POST("/analyze", cs.Analysis.Analyze)
		food.POST("/analyze/image", cs.Analysis.AnalyzeImage)
		food.GET("/analyses", cs.Analysis.History)
	}

	// Protected meal routes
	meals := r.Group("/meals")
	meals.Use(middlewares.AuthMiddleware())
	{
		meals.POST("", cs.Meals.LogMeal)
		meals.GET("", cs.Meals.ListMeals)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/preferences", controllers.GetPreferences)
		user.PUT("/preferences", controllers.UpdatePreferences)
	}

	// Alerts, devices, realtime
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/alerts", controllers.ListAlerts)
		api.POST("/devices", cs.Devices.Register)
		api.GET("/ws/analysis", cs.Realtime.AnalysisWS)
	}

	return r
}
