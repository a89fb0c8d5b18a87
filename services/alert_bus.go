package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yenugah80/METRICS-sub000/models"
	"github.com/yenugah80/METRICS-sub000/utils"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
	ps *PushService
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub, ps *PushService) {
	_alert = alertDeps{db: db, rt: rt, ps: ps}
}

// EmitAlert persists an alert and fans it out over websocket and push.
// Safe to call anywhere; a no-op before InitAlertDeps.
func EmitAlert(userID uint, typ, message string) {
	if _alert.db == nil {
		return // not initialized
	}
	a := &models.Alert{UserID: userID, Type: typ, Message: message, CreatedAt: time.Now()}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.BroadcastAlert(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
	if _alert.ps != nil {
		_alert.ps.PushToUser(userID, "Allergen warning", message, map[string]string{
			"type": typ, "alertId": fmt.Sprintf("%d", a.ID),
		})
	}
}

// EmitAllergenAlert is the high-severity path: a food the user logged
// matched one of their allergen restrictions. Besides the normal fan-out it
// also emails the user.
func EmitAllergenAlert(user *models.User, foodName string, warnings []string) {
	joined := strings.Join(warnings, "; ")
	EmitAlert(user.ID, "allergen", fmt.Sprintf("%s: %s", foodName, joined))
	_ = utils.SendAllergenAlertEmail(user.Email, foodName, joined)
}
