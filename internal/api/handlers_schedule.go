package api

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/platefulapp/plateful/internal/models"
	"github.com/platefulapp/plateful/internal/services"
)

type scheduleEntryPayload struct {
	MealType  string  `json:"meal_type"`
	Label     string  `json:"label"`
	StartHour float64 `json:"start_hour"`
	Start     string  `json:"start"`
	End       string  `json:"end,omitempty"`
	IsCustom  bool    `json:"is_custom"`
	Enabled   bool    `json:"enabled"`
}

type mealStatusPayload struct {
	MealType          string `json:"meal_type"`
	Label             string `json:"label"`
	Status            string `json:"status"`
	MinutesOverdue    int    `json:"minutes_overdue"`
	MinutesUntilStart int    `json:"minutes_until_start"`
}

func (handler *Handler) GetSchedule(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	resolved, ranges, _, err := handler.userSchedule(*user)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to resolve schedule")
	}

	entries := make([]scheduleEntryPayload, 0, len(resolved))
	for _, entry := range resolved {
		payload := scheduleEntryPayload{
			MealType:  entry.MealType,
			Label:     entry.Label,
			StartHour: entry.StartHour,
			Start:     services.FormatClockTime(entry.StartHour),
			IsCustom:  entry.IsCustom,
		}
		if mealRange, enabled := ranges[entry.MealType]; enabled {
			payload.Enabled = true
			payload.End = services.FormatClockTime(mealRange.End)
		}
		entries = append(entries, payload)
	}

	return c.JSON(fiber.Map{"schedule": entries})
}

// GetScheduleStatus classifies every enabled meal against "now" in the
// user's live timezone. Completions come from today's plan items; without an
// actionable plan the statuses are computed as if nothing were completed.
func (handler *Handler) GetScheduleStatus(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	resolved, ranges, plan, err := handler.userSchedule(*user)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to resolve schedule")
	}

	location := services.UserLocation(*user)
	now := handler.clock.Now().In(location)

	completions := make(map[string]*time.Time)
	if plan != nil {
		items, _, _, err := handler.planService.ItemsForToday(*plan, now, location)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to load plan items")
		}
		for index := range items {
			completions[items[index].MealType] = items[index].CompletedAt
		}
	}

	statuses := make([]mealStatusPayload, 0, len(resolved))
	for _, entry := range resolved {
		if _, enabled := ranges[entry.MealType]; !enabled {
			continue
		}
		statuses = append(statuses, mealStatusPayload{
			MealType:          entry.MealType,
			Label:             entry.Label,
			Status:            string(services.ClassifyMealStatus(entry.MealType, completions[entry.MealType], now, ranges)),
			MinutesOverdue:    services.MinutesOverdue(entry.MealType, now, ranges),
			MinutesUntilStart: services.MinutesUntilStart(entry.MealType, now, ranges),
		})
	}
	sort.SliceStable(statuses, func(i, j int) bool {
		return ranges[statuses[i].MealType].Start < ranges[statuses[j].MealType].Start
	})

	return c.JSON(fiber.Map{
		"now":      now.Format(time.RFC3339),
		"timezone": location.String(),
		"meals":    statuses,
	})
}

// userSchedule resolves the effective schedule together with the active plan
// when one exists, so plan-level overrides take effect.
func (handler *Handler) userSchedule(user models.User) ([]services.EffectiveMealTime, map[string]services.MealRange, *models.MealPlan, error) {
	var plan *models.MealPlan
	active, found, err := handler.planService.ActivePlan(user.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	if found {
		plan = &active
	}

	resolved, ranges, err := handler.scheduleService.EffectiveScheduleForUser(user, plan)
	if err != nil {
		return nil, nil, nil, err
	}
	return resolved, ranges, plan, nil
}
