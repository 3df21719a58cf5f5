package services

import (
	"sync"
	"time"

	"github.com/platefulapp/plateful/internal/models"
)

const DefaultSettingsCacheTTL = 5 * time.Minute

type MealSettingsSource interface {
	ListOrdered() ([]models.MealSetting, error)
}

// MealSettingsCache holds the global meal settings behind an explicit TTL.
// It is owned by the handler wiring and injected where needed; there is no
// package-level settings state anywhere in this engine.
type MealSettingsCache struct {
	source MealSettingsSource
	ttl    time.Duration
	clock  Clock

	mu        sync.Mutex
	cached    []models.MealSetting
	fetchedAt time.Time
}

func NewMealSettingsCache(source MealSettingsSource, ttl time.Duration, clock Clock) *MealSettingsCache {
	if ttl <= 0 {
		ttl = DefaultSettingsCacheTTL
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &MealSettingsCache{source: source, ttl: ttl, clock: clock}
}

// Get returns the cached settings, refreshing first when the snapshot is
// older than the TTL or was never taken.
func (cache *MealSettingsCache) Get() ([]models.MealSetting, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	now := cache.clock.Now()
	if cache.cached != nil && now.Sub(cache.fetchedAt) < cache.ttl {
		return cache.cached, nil
	}
	return cache.refreshLocked(now)
}

// Refresh discards the snapshot and refetches, regardless of age.
func (cache *MealSettingsCache) Refresh() ([]models.MealSetting, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return cache.refreshLocked(cache.clock.Now())
}

func (cache *MealSettingsCache) LastFetchedAt() time.Time {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return cache.fetchedAt
}

func (cache *MealSettingsCache) refreshLocked(now time.Time) ([]models.MealSetting, error) {
	settings, err := cache.source.ListOrdered()
	if err != nil {
		if cache.cached != nil {
			// Serve the stale snapshot rather than failing the request.
			return cache.cached, nil
		}
		return nil, err
	}
	cache.cached = settings
	cache.fetchedAt = now
	return settings, nil
}
