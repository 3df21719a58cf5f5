package api

import (
	"github.com/platefulapp/plateful/internal/db"
	"github.com/platefulapp/plateful/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.settingsCache = services.NewMealSettingsCache(handler.repositories.MealSettings, services.DefaultSettingsCacheTTL, handler.clock)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.scheduleService = services.NewScheduleService(handler.settingsCache, handler.repositories.Users, handler.repositories.MealPlans)
	handler.planService = services.NewPlanService(handler.repositories.MealPlans, handler.repositories.PlanItems)
	return handler
}

func (handler *Handler) ensureDependencies() {
	if handler.repositories == nil {
		if handler.db == nil {
			return
		}
		handler.withDependencies(handler.db)
	}
	if handler.clock == nil {
		handler.clock = services.SystemClock()
	}
}
