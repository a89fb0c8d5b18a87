package models

import "time"

// AnalysisCacheEntry backs the gorm cache implementation. Key is the SHA-256
// fingerprint of the normalized input plus preference hash.
type AnalysisCacheEntry struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"size:64;uniqueIndex;not null"`
	Payload   []byte `gorm:"type:jsonb;not null"`
	HitCount  int64  `gorm:"default:0"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}
