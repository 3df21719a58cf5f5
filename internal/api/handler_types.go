package api

import (
	"time"

	"github.com/platefulapp/plateful/internal/db"
	"github.com/platefulapp/plateful/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	clock        services.Clock

	repositories    *db.Repositories
	settingsCache   *services.MealSettingsCache
	authService     *services.AuthService
	scheduleService *services.ScheduleService
	planService     *services.PlanService
}

const defaultAuthTokenTTL = 7 * 24 * time.Hour

func NewHandler(database *gorm.DB, secret string, location *time.Location, cookieSecure bool) (*Handler, error) {
	if location == nil {
		location = time.Local
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(secret),
		location:     location,
		cookieSecure: cookieSecure,
		clock:        services.SystemClock(),
	}
	return handler.withDependencies(database), nil
}

// SettingsCache exposes the global-settings cache so the reminder service
// can share the same snapshot the handlers serve from.
func (handler *Handler) SettingsCache() *services.MealSettingsCache {
	handler.ensureDependencies()
	return handler.settingsCache
}
