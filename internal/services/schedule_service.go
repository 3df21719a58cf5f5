package services

import (
	"time"

	"github.com/platefulapp/plateful/internal/models"
)

type ScheduleUserRepository interface {
	FindByID(userID uint) (models.User, error)
	UpdateTimezone(userID uint, timezone string) error
	UpdateCustomMealTimes(user *models.User) error
	UpdateEnabledMeals(user *models.User) error
}

type SchedulePlanRepository interface {
	FindActiveByUser(userID uint) (models.MealPlan, bool, error)
	UpdateCustomMealTimes(plan *models.MealPlan) error
}

// ScheduleService wires the pure schedule computations to stored
// configuration. Every method takes snapshots plus an explicit instant; the
// service itself never reads the clock.
type ScheduleService struct {
	settings *MealSettingsCache
	users    ScheduleUserRepository
	plans    SchedulePlanRepository
}

func NewScheduleService(settings *MealSettingsCache, users ScheduleUserRepository, plans SchedulePlanRepository) *ScheduleService {
	return &ScheduleService{settings: settings, users: users, plans: plans}
}

// EffectiveScheduleForUser resolves the user's schedule through the full
// plan → profile → global precedence and builds the enabled meal ranges.
func (service *ScheduleService) EffectiveScheduleForUser(user models.User, plan *models.MealPlan) ([]EffectiveMealTime, map[string]MealRange, error) {
	global, err := service.settings.Get()
	if err != nil {
		return nil, nil, err
	}

	var planTimes map[string]string
	if plan != nil {
		planTimes = plan.CustomMealTimes
	}

	resolved := ResolveSchedule(global, user.CustomMealTimes, planTimes)
	ranges := BuildMealRanges(resolved, user.EnabledMealSet(mealTypesOf(global)))
	return resolved, ranges, nil
}

// CanonicalOrderForUser returns the meal types in sort_order, the tie-break
// sequence for next-meal selection.
func (service *ScheduleService) CanonicalOrderForUser() ([]string, error) {
	global, err := service.settings.Get()
	if err != nil {
		return nil, err
	}
	return mealTypesOf(global), nil
}

// SyncTimezone reconciles the detected zone with storage, persisting only on
// change, and reports whether the caller should surface a travel notice.
func (service *ScheduleService) SyncTimezone(user *models.User, detected string, countryCode string) (TimezoneResolution, error) {
	resolution := ResolveTimezoneWithCountry(user.Timezone, detected, countryCode)
	if resolution.ShouldPersist {
		if err := service.users.UpdateTimezone(user.ID, resolution.Effective); err != nil {
			return TimezoneResolution{}, err
		}
		user.Timezone = resolution.Effective
	}
	return resolution, nil
}

// UpdateProfileMealTimes validates and stores a whole replacement of the
// user's profile-level custom times. Nothing is written on a validation
// failure.
func (service *ScheduleService) UpdateProfileMealTimes(user *models.User, times map[string]string) error {
	entries, err := service.validatorEntries(*user, nil)
	if err != nil {
		return err
	}
	if err := ValidateCustomTimes(times, entries); err != nil {
		return err
	}

	user.CustomMealTimes = times
	return service.users.UpdateCustomMealTimes(user)
}

// UpdatePlanMealTimes is the plan-level counterpart; the plan's own custom
// times take precedence over the profile for the lifetime of that plan.
func (service *ScheduleService) UpdatePlanMealTimes(user models.User, plan *models.MealPlan, times map[string]string) error {
	entries, err := service.validatorEntries(user, plan)
	if err != nil {
		return err
	}
	if err := ValidateCustomTimes(times, entries); err != nil {
		return err
	}

	plan.CustomMealTimes = times
	return service.plans.UpdateCustomMealTimes(plan)
}

// ToggleMeal enables or disables one meal type, refusing to empty the
// enabled set.
func (service *ScheduleService) ToggleMeal(user *models.User, mealType string, enable bool) error {
	entries, err := service.validatorEntries(*user, nil)
	if err != nil {
		return err
	}
	if err := ValidateMealToggle(mealType, enable, entries); err != nil {
		return err
	}

	enabled := make([]string, 0, len(entries))
	for _, entry := range entries {
		keep := entry.Enabled
		if entry.MealType == mealType {
			keep = enable
		}
		if keep {
			enabled = append(enabled, entry.MealType)
		}
	}

	user.EnabledMeals = enabled
	return service.users.UpdateEnabledMeals(user)
}

func (service *ScheduleService) validatorEntries(user models.User, plan *models.MealPlan) ([]ScheduleEntry, error) {
	resolved, _, err := service.EffectiveScheduleForUser(user, plan)
	if err != nil {
		return nil, err
	}

	global, err := service.settings.Get()
	if err != nil {
		return nil, err
	}
	enabledSet := user.EnabledMealSet(mealTypesOf(global))

	entries := make([]ScheduleEntry, 0, len(resolved))
	for _, entry := range resolved {
		entries = append(entries, ScheduleEntry{
			MealType:  entry.MealType,
			StartHour: entry.StartHour,
			Enabled:   enabledSet[entry.MealType],
		})
	}
	return entries, nil
}

func mealTypesOf(settings []models.MealSetting) []string {
	mealTypes := make([]string, 0, len(settings))
	for _, setting := range settings {
		mealTypes = append(mealTypes, setting.MealType)
	}
	return mealTypes
}

// UserLocation resolves the user's live location for civil-time math.
func UserLocation(user models.User) *time.Location {
	return LoadLocationOrDefault(user.Timezone)
}
