package models

const (
	MealBreakfast      = "breakfast"
	MealMorningSnack   = "morning_snack"
	MealLunch          = "lunch"
	MealAfternoonSnack = "afternoon_snack"
	MealDinner         = "dinner"
	MealSupper         = "supper"
)

// CanonicalMealOrder is the default tie-break order for next-meal selection.
// The effective order served to the engine comes from meal_settings.sort_order;
// this list only backs callers that have no settings snapshot at hand.
var CanonicalMealOrder = []string{
	MealBreakfast,
	MealMorningSnack,
	MealLunch,
	MealAfternoonSnack,
	MealDinner,
	MealSupper,
}

// MealSetting is the administrator-owned global schedule row, one per known
// meal type. StartHour is a fractional hour of day (7.5 means 07:30).
type MealSetting struct {
	ID        uint    `gorm:"primaryKey"`
	MealType  string  `gorm:"uniqueIndex;not null"`
	Label     string  `gorm:"not null"`
	StartHour float64 `gorm:"not null"`
	SortOrder int     `gorm:"not null"`
}
