package models

import (
	"time"

	"gorm.io/gorm"
)

// One Meal (breakfast/lunch/…)
type Meal struct {
	gorm.Model
	UserID uint      // FK → users.id
	Type   string    // "Breakfast"|"Lunch"|…
	AteAt  time.Time // timestamp of the meal
	Items  []MealItem
}

// Each MealItem stores the nutrition snapshot the pipeline resolved at
// logging time, so history survives upstream data drift.
type MealItem struct {
	gorm.Model
	MealID uint
	Meal   Meal

	FoodName   string `gorm:"type:varchar(255);not null"` // user's original phrasing
	Quantity   float64
	Unit       string `gorm:"size:16"`
	Grams      float64
	Source     string `gorm:"size:32"` // usda | openfoodfacts | food_table | openai
	Confidence float64

	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Sodium   float64
	Sugar    float64

	Score    int
	Grade    string `gorm:"size:1"`
	Safe     bool   // false when a diet/allergen violation was found
	Warnings string // semicolon-joined compatibility warnings
}
