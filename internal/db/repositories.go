package db

import "gorm.io/gorm"

type Repositories struct {
	Users        *UserRepository
	MealSettings *MealSettingRepository
	MealPlans    *MealPlanRepository
	PlanItems    *MealPlanItemRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(database),
		MealSettings: NewMealSettingRepository(database),
		MealPlans:    NewMealPlanRepository(database),
		PlanItems:    NewMealPlanItemRepository(database),
	}
}
