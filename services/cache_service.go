package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yenugah80/METRICS-sub000/models"
)

// AnalysisCacheTTL is how long an analysis stays valid. Expired entries are
// treated as absent (lazy eviction).
const AnalysisCacheTTL = 7 * 24 * time.Hour

// CacheEntry is what a Get returns: the cached result (a deep copy — callers
// may mutate it freely) plus observability fields. HitCount never affects
// correctness or scoring.
type CacheEntry struct {
	Result    *models.FoodAnalysisResult
	CreatedAt time.Time
	HitCount  int64
}

// Cache is the injectable store in front of the resolver. Implementations
// must be safe for concurrent use: a reader must never observe a torn entry.
type Cache interface {
	Get(key string) *CacheEntry
	Set(key string, result *models.FoodAnalysisResult)
	Exists(key string) bool
}

var (
	textKeyStrip    = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	barcodeKeyStrip = regexp.MustCompile(`[^0-9]`)
)

// AnalysisCacheKey fingerprints a request: SHA-256 over the input type, the
// normalized payload, and a hash of the user's dietary context. Identical
// logical inputs always map to the same key regardless of incidental
// formatting.
func AnalysisCacheKey(input models.FoodAnalysisInput) string {
	var normalized string
	switch input.Type {
	case models.InputTypeBarcode:
		normalized = barcodeKeyStrip.ReplaceAllString(input.Data, "")
	case models.InputTypeImage:
		// image payloads are already content-addressed bytes
		normalized = input.Data
	default: // text, voice transcripts
		normalized = strings.ToLower(strings.TrimSpace(input.Data))
		normalized = textKeyStrip.ReplaceAllString(normalized, "")
		normalized = whitespaceRuns.ReplaceAllString(normalized, " ")
		normalized = strings.TrimSpace(normalized)
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s\x1f%s\x1f%s", input.Type, normalized, preferencesHash(input.UserPreferences))
	return hex.EncodeToString(h.Sum(nil))
}

// preferencesHash is order-insensitive: the same restrictions in a different
// order are the same dietary context.
func preferencesHash(prefs *models.UserPreferences) string {
	if prefs == nil {
		return "none"
	}
	diets := normalizeSorted(prefs.DietPreferences)
	allergens := normalizeSorted(prefs.AllergenRestrictions)
	h := sha256.Sum256([]byte("diets=" + strings.Join(diets, ",") + "|allergens=" + strings.Join(allergens, ",")))
	return hex.EncodeToString(h[:])
}

func normalizeSorted(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// cloneResult deep-copies via JSON so cached entries and handed-out results
// never share memory (copy-on-write semantics).
func cloneResult(r *models.FoodAnalysisResult) *models.FoodAnalysisResult {
	if r == nil {
		return nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	var out models.FoodAnalysisResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return &out
}

// ---------------------------------
// In-memory cache
// ---------------------------------

type memoryEntry struct {
	result    *models.FoodAnalysisResult
	createdAt time.Time
	hitCount  int64
}

// MemoryCache is the process-local default store.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	now     func() time.Time // injectable for expiry tests
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*memoryEntry),
		ttl:     AnalysisCacheTTL,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(key string) *CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		delete(c.entries, key) // lazy eviction
		return nil
	}
	e.hitCount++
	return &CacheEntry{
		Result:    cloneResult(e.result),
		CreatedAt: e.createdAt,
		HitCount:  e.hitCount,
	}
}

func (c *MemoryCache) Set(key string, result *models.FoodAnalysisResult) {
	stored := cloneResult(result)
	c.mu.Lock()
	defer c.mu.Unlock()
	// last set wins; both concurrent resolvers produced a correct result
	c.entries[key] = &memoryEntry{result: stored, createdAt: c.now()}
}

func (c *MemoryCache) Exists(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		delete(c.entries, key)
		return false
	}
	return true
}

// ---------------------------------
// Database-backed cache
// ---------------------------------

// DBCache persists entries through gorm so analyses survive restarts and are
// shared across instances. Hit counting uses an atomic SQL increment.
type DBCache struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewDBCache(db *gorm.DB) *DBCache {
	return &DBCache{db: db, ttl: AnalysisCacheTTL}
}

func (c *DBCache) Get(key string) *CacheEntry {
	var row models.AnalysisCacheEntry
	if err := c.db.Where("key = ?", key).First(&row).Error; err != nil {
		return nil
	}
	if time.Now().After(row.ExpiresAt) {
		_ = c.db.Delete(&models.AnalysisCacheEntry{}, row.ID).Error
		return nil
	}

	var result models.FoodAnalysisResult
	if err := json.Unmarshal(row.Payload, &result); err != nil {
		return nil
	}

	_ = c.db.Model(&models.AnalysisCacheEntry{}).
		Where("id = ?", row.ID).
		UpdateColumn("hit_count", gorm.Expr("hit_count + 1")).Error

	return &CacheEntry{
		Result:    &result,
		CreatedAt: row.CreatedAt,
		HitCount:  row.HitCount + 1,
	}
}

func (c *DBCache) Set(key string, result *models.FoodAnalysisResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	now := time.Now()
	_ = c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "hit_count", "created_at", "expires_at"}),
	}).Create(&models.AnalysisCacheEntry{
		Key:       key,
		Payload:   payload,
		HitCount:  0,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}).Error
}

func (c *DBCache) Exists(key string) bool {
	var count int64
	c.db.Model(&models.AnalysisCacheEntry{}).
		Where("key = ? AND expires_at > ?", key, time.Now()).
		Count(&count)
	return count > 0
}
