package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yenugah80/METRICS-sub000/config"
	"github.com/yenugah80/METRICS-sub000/models"
	"github.com/yenugah80/METRICS-sub000/services"
	"github.com/yenugah80/METRICS-sub000/utils"
)

type AnalysisController struct {
	Pipeline *services.PipelineService
	RT       *services.RealtimeHub
}

func NewAnalysisController(p *services.PipelineService, rt *services.RealtimeHub) *AnalysisController {
	return &AnalysisController{Pipeline: p, RT: rt}
}

type analyzeReq struct {
	Type string `json:"type" binding:"required"` // text | barcode | voice
	Data string `json:"data" binding:"required"`
}

// POST /food/analyze  { "type": "text", "data": "2 eggs and toast" }
func (ac *AnalysisController) Analyze(c *gin.Context) {
	uid := c.GetUint("userID")

	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	input := models.FoodAnalysisInput{
		Type:            req.Type,
		Data:            req.Data,
		UserID:          uid,
		UserPreferences: loadPreferences(uid),
	}

	out, err := ac.Pipeline.Analyze(c.Request.Context(), input)
	ac.respond(c, uid, out, err)
}

type analyzeImageReq struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// POST /food/analyze/image  { "image_base64": "…" }
func (ac *AnalysisController) AnalyzeImage(c *gin.Context) {
	uid := c.GetUint("userID")

	var req analyzeImageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	// archive the original upload; analysis proceeds even if this fails
	if url, err := utils.UploadFoodImageToS3(req.ImageBase64, "analysis"); err == nil {
		c.Header("X-Image-Location", url)
	}

	input := models.FoodAnalysisInput{
		Type:            models.InputTypeImage,
		Data:            req.ImageBase64,
		UserID:          uid,
		UserPreferences: loadPreferences(uid),
	}

	out, err := ac.Pipeline.Analyze(c.Request.Context(), input)
	ac.respond(c, uid, out, err)
}

// GET /food/analyses
func (ac *AnalysisController) History(c *gin.Context) {
	uid := c.GetUint("userID")

	var rows []models.FoodAnalysis
	if err := config.DB.Where("user_id = ?", uid).
		Order("analyzed_at DESC").
		Limit(50).
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": rows})
}

func (ac *AnalysisController) respond(c *gin.Context, uid uint, out *models.FoodAnalysisResult, err error) {
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoItemsResolved):
			// out carries the human-readable guidance for this case
			c.JSON(http.StatusUnprocessableEntity, out)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		}
		return
	}

	if uid != 0 {
		if ac.RT != nil {
			ac.RT.BroadcastAnalysis(uid, out)
		}
		if out.DietCompatibility != nil && len(out.DietCompatibility.AllergenWarnings) > 0 {
			var user models.User
			if dbErr := config.DB.First(&user, uid).Error; dbErr == nil {
				name := "this food"
				if len(out.Items) > 0 {
					name = out.Items[0].Name
				}
				var warnings []string
				for _, w := range out.DietCompatibility.AllergenWarnings {
					warnings = append(warnings, w.Allergen+" ("+w.Ingredient+")")
				}
				go services.EmitAllergenAlert(&user, name, warnings)
			}
		}
	}

	c.JSON(http.StatusOK, out)
}

func loadPreferences(uid uint) *models.UserPreferences {
	if uid == 0 {
		return nil
	}
	var user models.User
	if err := config.DB.First(&user, uid).Error; err != nil {
		return nil
	}
	return user.Preferences()
}
