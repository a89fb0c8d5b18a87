package services

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/yenugah80/METRICS-sub000/models"
)

type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService() (*RekognitionService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

// ExtractFoodItems detects food labels in a base64-encoded image and turns
// them into candidate items. Labels are only candidates: the resolver
// re-resolves each name through the verified text chain, so the vision model
// never supplies nutrition numbers itself.
func (r *RekognitionService) ExtractFoodItems(ctx context.Context, base64Img string) ([]models.FoodItem, error) {
	idx := len("data:image/jpeg;base64,")
	if idx > len(base64Img) || !strings.HasPrefix(base64Img, "data:image") {
		return nil, errors.New("invalid data URI")
	}
	data, err := base64.StdEncoding.DecodeString(base64Img[strings.Index(base64Img, ",")+1:])
	if err != nil {
		return nil, err
	}

	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(60),
	})
	if err != nil {
		return nil, err
	}

	var items []models.FoodItem
	for _, l := range out.Labels {
		if l.Name == nil || !isFoodLabel(l) {
			continue
		}
		conf := 0.5
		if l.Confidence != nil {
			conf = float64(*l.Confidence) / 100
		}
		items = append(items, models.FoodItem{
			Name:       strings.ToLower(*l.Name),
			Quantity:   1,
			Unit:       "serving",
			Confidence: conf,
		})
	}
	return items, nil
}

// isFoodLabel keeps only labels under the Food and Beverage taxonomy, so a
// photo's background (plate, table, person) never becomes a food item.
func isFoodLabel(l types.Label) bool {
	for _, p := range l.Parents {
		if p.Name != nil {
			switch *p.Name {
			case "Food", "Beverage", "Produce", "Fruit", "Vegetable", "Meal", "Dish":
				return true
			}
		}
	}
	for _, c := range l.Categories {
		if c.Name != nil && strings.Contains(*c.Name, "Food") {
			return true
		}
	}
	return false
}
