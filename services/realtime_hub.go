package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yenugah80/METRICS-sub000/models"
)

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn
}

// RealtimeHub streams alerts and finished analyses to a user's connected
// clients.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *RealtimeHub) BroadcastAlert(userID uint, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// BroadcastAnalysis pushes a compact summary of a completed analysis so a
// client showing a "scanning…" state can update live.
func (h *RealtimeHub) BroadcastAnalysis(userID uint, result *models.FoodAnalysisResult) {
	summary := map[string]any{
		"kind":       "analysis.completed",
		"request_id": result.AnalysisMetadata.RequestID,
		"source":     result.AnalysisMetadata.Source,
		"confidence": result.AnalysisMetadata.Confidence,
		"calories":   result.TotalCalories,
	}
	if result.NutritionScore != nil {
		summary["score"] = result.NutritionScore.Score
		summary["grade"] = result.NutritionScore.Grade
	}
	h.BroadcastAlert(userID, summary)
}
