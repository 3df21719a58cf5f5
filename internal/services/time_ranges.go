package services

import "sort"

// DelayToleranceHours bounds how long the last meal of the day stays
// "current" once no successor exists to close its range.
const DelayToleranceHours = 1.0

type MealRange struct {
	Start    float64
	End      float64
	IsCustom bool
}

// BuildMealRanges turns resolved start times into contiguous ranges: each
// enabled meal ends where the next one starts, sorted by the resolved start
// (not sort_order, since custom overrides can reorder the day). The last
// range closes at start + DelayToleranceHours, which may run past 24.0 for a
// late-night meal. Zero or one enabled meals still yield a valid range set.
func BuildMealRanges(times []EffectiveMealTime, enabled map[string]bool) map[string]MealRange {
	ordered := make([]EffectiveMealTime, 0, len(times))
	for _, entry := range times {
		if enabled != nil && !enabled[entry.MealType] {
			continue
		}
		ordered = append(ordered, entry)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].StartHour == ordered[j].StartHour {
			return ordered[i].SortOrder < ordered[j].SortOrder
		}
		return ordered[i].StartHour < ordered[j].StartHour
	})

	ranges := make(map[string]MealRange, len(ordered))
	for index, entry := range ordered {
		end := entry.StartHour + DelayToleranceHours
		if index+1 < len(ordered) {
			end = ordered[index+1].StartHour
		}
		ranges[entry.MealType] = MealRange{
			Start:    entry.StartHour,
			End:      end,
			IsCustom: entry.IsCustom,
		}
	}
	return ranges
}
