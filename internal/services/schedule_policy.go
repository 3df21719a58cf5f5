package services

import (
	"errors"
	"sort"
)

var (
	ErrMealTimeInvalid        = errors.New("meal time must be a valid HH:MM value")
	ErrMealUnknown            = errors.New("unknown meal type")
	ErrMealTimeBeforePrevious = errors.New("meal time must be later than the previous enabled meal")
	ErrMealTimeAfterNext      = errors.New("meal time must be earlier than the next enabled meal")
	ErrLastEnabledMeal        = errors.New("at least one meal must remain enabled")
)

// ScheduleEntry is the validator's view of one meal: its current resolved
// start and whether the user keeps it enabled.
type ScheduleEntry struct {
	MealType  string
	StartHour float64
	Enabled   bool
}

// ValidateMealTimeChange checks a proposed start against the nearest enabled
// neighbor on each side in time order. Disabled meals never constrain the
// edit. The proposed time must fall strictly between both neighbors.
func ValidateMealTimeChange(mealType string, proposedHour float64, entries []ScheduleEntry) error {
	ordered := sortedByTime(entries)

	editedIndex := -1
	for index, entry := range ordered {
		if entry.MealType == mealType {
			editedIndex = index
			break
		}
	}
	if editedIndex == -1 {
		return ErrMealUnknown
	}

	for index := editedIndex - 1; index >= 0; index-- {
		if !ordered[index].Enabled {
			continue
		}
		if proposedHour <= ordered[index].StartHour {
			return ErrMealTimeBeforePrevious
		}
		break
	}

	for index := editedIndex + 1; index < len(ordered); index++ {
		if !ordered[index].Enabled {
			continue
		}
		if proposedHour >= ordered[index].StartHour {
			return ErrMealTimeAfterNext
		}
		break
	}

	return nil
}

// ValidateMealToggle rejects disabling the last enabled meal; the enabled
// set must never become empty.
func ValidateMealToggle(mealType string, enable bool, entries []ScheduleEntry) error {
	found := false
	enabledOthers := 0
	for _, entry := range entries {
		if entry.MealType == mealType {
			found = true
			continue
		}
		if entry.Enabled {
			enabledOthers++
		}
	}
	if !found {
		return ErrMealUnknown
	}
	if !enable && enabledOthers == 0 {
		return ErrLastEnabledMeal
	}
	return nil
}

// ValidateCustomTimes vets a whole replacement map before any write: every
// value must parse, and each change must keep its meal strictly between its
// enabled neighbors as earlier changes from the same map take effect.
func ValidateCustomTimes(times map[string]string, entries []ScheduleEntry) error {
	working := sortedByTime(entries)

	for _, entry := range working {
		raw, present := times[entry.MealType]
		if !present {
			continue
		}

		proposedHour, ok := ParseClockTime(raw)
		if !ok {
			return ErrMealTimeInvalid
		}
		if err := ValidateMealTimeChange(entry.MealType, proposedHour, working); err != nil {
			return err
		}
		for index := range working {
			if working[index].MealType == entry.MealType {
				working[index].StartHour = proposedHour
				break
			}
		}
	}
	return nil
}

func sortedByTime(entries []ScheduleEntry) []ScheduleEntry {
	ordered := make([]ScheduleEntry, 0, len(entries))
	ordered = append(ordered, entries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartHour < ordered[j].StartHour
	})
	return ordered
}
