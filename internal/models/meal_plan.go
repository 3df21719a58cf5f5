package models

import "time"

// MealPlan is one generated weekly plan. Only one plan per user is active at
// a time; creating a new plan supersedes the previous one. UnlocksAt, when
// set, defers visibility of the plan to a future instant.
type MealPlan struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"not null;index"`
	StartDate       time.Time `gorm:"type:date;not null"`
	IsActive        bool      `gorm:"not null;default:false"`
	UnlocksAt       *time.Time
	CustomMealTimes map[string]string `gorm:"serializer:json"`
	CreatedAt       time.Time         `gorm:"not null"`
	UpdatedAt       time.Time
}

// MealPlanItem is one cell of the plan grid. WeekNumber and DayOfWeek are
// derived from the plan's start date when the item is generated; DayOfWeek
// runs 0..6 counted from the start date, WeekNumber from 1.
type MealPlanItem struct {
	ID          uint   `gorm:"primaryKey"`
	PlanID      uint   `gorm:"not null;index:idx_plan_day"`
	WeekNumber  int    `gorm:"not null;index:idx_plan_day"`
	DayOfWeek   int    `gorm:"not null;index:idx_plan_day"`
	MealType    string `gorm:"not null"`
	RecipeName  string
	RecipeNotes string
	CompletedAt *time.Time
	Skipped     bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
