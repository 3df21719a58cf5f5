package services

import (
	"math"
	"time"

	"github.com/platefulapp/plateful/internal/models"
)

type MealStatus string

const (
	StatusUpcoming  MealStatus = "upcoming"
	StatusOnTime    MealStatus = "on_time"
	StatusDelayed   MealStatus = "delayed"
	StatusCritical  MealStatus = "critical"
	StatusCompleted MealStatus = "completed"
)

const (
	// Grace offsets are measured from the scheduled start, so the
	// classifier stays insensitive to how range ends were packed.
	delayedGraceMinutes  = 60
	criticalGraceMinutes = 90

	// Supper keeps matching past midnight until this early-morning cutoff.
	lateNightCutoffMinutes = 6 * 60

	minutesPerDay = 24 * 60
)

// ClassifyMealStatus recomputes the meal's state from scratch on every call:
// completed is absorbing, otherwise the state is a pure function of "now"
// (already in the user's location) against the scheduled start.
func ClassifyMealStatus(mealType string, completedAt *time.Time, now time.Time, ranges map[string]MealRange) MealStatus {
	if completedAt != nil {
		return StatusCompleted
	}

	mealRange, ok := ranges[mealType]
	if !ok {
		return StatusUpcoming
	}

	nowMinutes := statusReferenceMinutes(mealType, now)
	startMinutes := scheduleMinutes(mealRange.Start)

	switch {
	case nowMinutes < startMinutes:
		return StatusUpcoming
	case nowMinutes >= startMinutes+criticalGraceMinutes:
		return StatusCritical
	case nowMinutes >= startMinutes+delayedGraceMinutes:
		return StatusDelayed
	default:
		return StatusOnTime
	}
}

// MinutesOverdue reports how far past the grace window the meal has slipped,
// zero while still on time or upcoming.
func MinutesOverdue(mealType string, now time.Time, ranges map[string]MealRange) int {
	mealRange, ok := ranges[mealType]
	if !ok {
		return 0
	}

	nowMinutes := statusReferenceMinutes(mealType, now)
	delayedAt := scheduleMinutes(mealRange.Start) + delayedGraceMinutes
	if nowMinutes <= delayedAt {
		return 0
	}
	return nowMinutes - delayedAt
}

func MinutesUntilStart(mealType string, now time.Time, ranges map[string]MealRange) int {
	mealRange, ok := ranges[mealType]
	if !ok {
		return 0
	}

	nowMinutes := statusReferenceMinutes(mealType, now)
	startMinutes := scheduleMinutes(mealRange.Start)
	if nowMinutes >= startMinutes {
		return 0
	}
	return startMinutes - nowMinutes
}

// scheduleMinutes converts a fractional hour of day to the minute of day.
// Parsed clock times carry float noise ("07:20" is not an exact binary
// fraction), so the product is rounded, never truncated.
func scheduleMinutes(hourOfDay float64) int {
	return int(math.Round(hourOfDay * 60))
}

// statusReferenceMinutes maps "now" onto the schedule axis. For the
// late-night meal, early-morning instants count as a continuation of the
// previous day so a supper scheduled at 23:00 is still current at 00:30.
func statusReferenceMinutes(mealType string, now time.Time) int {
	nowMinutes := CivilMinutes(now)
	if mealType == models.MealSupper && nowMinutes < lateNightCutoffMinutes {
		return nowMinutes + minutesPerDay
	}
	return nowMinutes
}
