package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Timezone holds the persisted IANA zone name. Empty until the first
	// session reports a detected zone.
	Timezone string

	// CustomMealTimes maps meal type to an "HH:MM" start time chosen in
	// settings. Replaced as a whole map, never patched key by key.
	CustomMealTimes map[string]string `gorm:"serializer:json"`

	// EnabledMeals lists the meal types the user keeps active. An empty
	// slice means every known meal is enabled.
	EnabledMeals []string `gorm:"serializer:json"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

// EnabledMealSet expands the stored slice against the known meal types.
// The schedule validator guarantees the set can never be emptied by edits.
func (user User) EnabledMealSet(knownMealTypes []string) map[string]bool {
	enabled := make(map[string]bool, len(knownMealTypes))
	if len(user.EnabledMeals) == 0 {
		for _, mealType := range knownMealTypes {
			enabled[mealType] = true
		}
		return enabled
	}
	for _, mealType := range user.EnabledMeals {
		enabled[mealType] = true
	}
	return enabled
}
