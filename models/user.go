package models

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	FullName string

	// Comma-separated dietary context; parsed into UserPreferences for the
	// analysis pipeline and the cache key.
	DietPreferences      string
	AllergenRestrictions string
}

// Preferences materializes the stored dietary context.
func (u *User) Preferences() *UserPreferences {
	return &UserPreferences{
		DietPreferences:      splitCSV(u.DietPreferences),
		AllergenRestrictions: splitCSV(u.AllergenRestrictions),
	}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
