package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/yenugah80/METRICS-sub000/config"
	"github.com/yenugah80/METRICS-sub000/controllers"
	"github.com/yenugah80/METRICS-sub000/logger"
	"github.com/yenugah80/METRICS-sub000/routes"
	"github.com/yenugah80/METRICS-sub000/services"
	"github.com/yenugah80/METRICS-sub000/utils"
)

func main() {
	logger.InitializeLogger()
	config.InitDB()
	utils.InitS3()

	// nutrition sources, in fallback order
	textChain := []services.NutritionSource{
		services.NewUSDAService(),
		services.NewFoodTableService(),
		services.NewEstimatorService(),
	}
	off := services.NewOpenFoodFactsService()

	vision, err := services.NewRekognitionService()
	if err != nil {
		logger.Fatal("rekognition init failed", zap.Error(err))
	}

	resolver := services.NewResolverService(textChain, off, vision)

	var cache services.Cache
	if os.Getenv("CACHE_BACKEND") == "db" {
		cache = services.NewDBCache(config.DB)
	} else {
		cache = services.NewMemoryCache()
	}

	pipeline := services.NewPipelineService(resolver, cache, config.DB)
	meals := services.NewMealService(pipeline)

	hub := services.NewRealtimeHub()
	push, err := services.NewPushService(config.DB)
	if err != nil {
		logger.Fatal("push service init failed", zap.Error(err))
	}
	services.InitAlertDeps(config.DB, hub, push)

	r := routes.SetupRouter(routes.Controllers{
		Analysis: controllers.NewAnalysisController(pipeline, hub),
		Meals:    controllers.NewMealController(meals),
		Realtime: controllers.NewRealtimeController(hub),
		Devices:  controllers.NewDeviceController(push),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
