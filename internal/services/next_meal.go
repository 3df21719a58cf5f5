package services

import (
	"log"
	"math"
	"sort"
	"time"

	"github.com/platefulapp/plateful/internal/models"
)

// NextMealState tells the caller why no item came back, so "no plan yet
// visible" is never confused with "nothing left to eat today".
type NextMealState string

const (
	NextMealReady          NextMealState = "ready"
	NextMealPlanNotStarted NextMealState = "plan_not_started"
	NextMealPlanLocked     NextMealState = "plan_locked"
	NextMealAllDone        NextMealState = "all_done"
)

// DaysSinceStart counts whole calendar days between the plan's start date
// and now, both collapsed to day boundaries in the plan's location, so the
// result cannot shift with the hour of day. The difference between two civil
// midnights is not always a multiple of 24h (DST transitions run a 23h or
// 25h day), so the quotient is rounded, never truncated. Negative means the
// plan has not started yet.
func DaysSinceStart(startDate time.Time, now time.Time, location *time.Location) int {
	start := DateAtLocation(startDate, location)
	today := DateAtLocation(now, location)
	return int(math.Round(today.Sub(start).Hours() / 24))
}

// PlanDayPosition derives the (week, day) grid coordinates from a
// non-negative day offset. Weeks are numbered from 1, days from 0.
func PlanDayPosition(daysSinceStart int) (weekNumber int, dayOfWeek int) {
	return daysSinceStart/7 + 1, daysSinceStart % 7
}

// SelectNextMeal walks today's plan items in canonical meal order and picks
// the first incomplete one. Items whose meal type is missing from the
// canonical order sort last with a logged warning instead of being dropped.
func SelectNextMeal(plan models.MealPlan, itemsForPlanDay []models.MealPlanItem, canonicalOrder []string, now time.Time, location *time.Location) (*models.MealPlanItem, NextMealState) {
	if DaysSinceStart(plan.StartDate, now, location) < 0 {
		return nil, NextMealPlanNotStarted
	}
	if plan.UnlocksAt != nil && plan.UnlocksAt.After(now) {
		return nil, NextMealPlanLocked
	}

	positions := make(map[string]int, len(canonicalOrder))
	for index, mealType := range canonicalOrder {
		positions[mealType] = index
	}

	ordered := make([]models.MealPlanItem, 0, len(itemsForPlanDay))
	ordered = append(ordered, itemsForPlanDay...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return mealOrderPosition(positions, ordered[i], len(canonicalOrder)) <
			mealOrderPosition(positions, ordered[j], len(canonicalOrder))
	})

	for index := range ordered {
		if ordered[index].CompletedAt == nil {
			item := ordered[index]
			return &item, NextMealReady
		}
	}
	return nil, NextMealAllDone
}

func mealOrderPosition(positions map[string]int, item models.MealPlanItem, fallback int) int {
	position, known := positions[item.MealType]
	if !known {
		log.Printf("next meal: item %d has meal type %q outside the canonical order, sorting last", item.ID, item.MealType)
		return fallback
	}
	return position
}
