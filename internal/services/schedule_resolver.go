package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/platefulapp/plateful/internal/models"
)

// EffectiveMealTime is one meal's resolved start after applying the
// plan → profile → global precedence. IsCustom marks that a plan or profile
// value won; it affects display only, never ordering.
type EffectiveMealTime struct {
	MealType  string
	Label     string
	StartHour float64
	SortOrder int
	IsCustom  bool
}

// ResolveSchedule merges the three configuration layers into one entry per
// global setting. A plan time wins outright; otherwise the profile time;
// otherwise the global start hour. Malformed "HH:MM" values are treated as
// absent at their level and fall through to the next one.
func ResolveSchedule(global []models.MealSetting, profileTimes map[string]string, planTimes map[string]string) []EffectiveMealTime {
	resolved := make([]EffectiveMealTime, 0, len(global))
	for _, setting := range global {
		entry := EffectiveMealTime{
			MealType:  setting.MealType,
			Label:     setting.Label,
			StartHour: setting.StartHour,
			SortOrder: setting.SortOrder,
		}

		if hour, ok := lookupClockTime(planTimes, setting.MealType); ok {
			entry.StartHour = hour
			entry.IsCustom = true
		} else if hour, ok := lookupClockTime(profileTimes, setting.MealType); ok {
			entry.StartHour = hour
			entry.IsCustom = true
		}

		resolved = append(resolved, entry)
	}
	return resolved
}

func lookupClockTime(times map[string]string, mealType string) (float64, bool) {
	if len(times) == 0 {
		return 0, false
	}
	raw, exists := times[mealType]
	if !exists {
		return 0, false
	}
	return ParseClockTime(raw)
}

// ParseClockTime converts an "HH:MM" string into a fractional hour of day
// (7.5 means 07:30). Any malformed value reports false rather than
// propagating a bogus number.
func ParseClockTime(raw string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, false
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	return float64(hour) + float64(minute)/60, true
}

// FormatClockTime is the inverse of ParseClockTime for display payloads.
func FormatClockTime(hourOfDay float64) string {
	totalMinutes := int(hourOfDay*60+0.5) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}
