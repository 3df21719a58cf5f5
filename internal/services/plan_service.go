package services

import (
	"errors"
	"time"

	"github.com/platefulapp/plateful/internal/models"
)

var (
	ErrPlanNotFound     = errors.New("no active meal plan")
	ErrPlanItemNotFound = errors.New("meal plan item not found")
	ErrPlanItemNotOwned = errors.New("meal plan item belongs to another user")
)

type PlanRepository interface {
	FindActiveByUser(userID uint) (models.MealPlan, bool, error)
	FindByID(planID uint) (models.MealPlan, bool, error)
	CreateActive(plan *models.MealPlan, items []models.MealPlanItem) error
}

type PlanItemRepository interface {
	ListForPlanDay(planID uint, weekNumber int, dayOfWeek int) ([]models.MealPlanItem, error)
	ListForPlan(planID uint) ([]models.MealPlanItem, error)
	FindByID(itemID uint) (models.MealPlanItem, bool, error)
	Save(item *models.MealPlanItem) error
	Replace(old models.MealPlanItem, replacement *models.MealPlanItem) error
}

type PlanService struct {
	plans PlanRepository
	items PlanItemRepository
}

func NewPlanService(plans PlanRepository, items PlanItemRepository) *PlanService {
	return &PlanService{plans: plans, items: items}
}

func (service *PlanService) ActivePlan(userID uint) (models.MealPlan, bool, error) {
	return service.plans.FindActiveByUser(userID)
}

// CreatePlan activates a new plan grid for the user, superseding the
// previous active plan.
func (service *PlanService) CreatePlan(plan *models.MealPlan, items []models.MealPlanItem) error {
	return service.plans.CreateActive(plan, items)
}

// ItemsForToday loads the plan-day slice of the grid for "now" in the user's
// location. A plan that has not started yet has no items for today.
func (service *PlanService) ItemsForToday(plan models.MealPlan, now time.Time, location *time.Location) ([]models.MealPlanItem, int, int, error) {
	daysSinceStart := DaysSinceStart(plan.StartDate, now, location)
	if daysSinceStart < 0 {
		return nil, 0, 0, nil
	}

	weekNumber, dayOfWeek := PlanDayPosition(daysSinceStart)
	items, err := service.items.ListForPlanDay(plan.ID, weekNumber, dayOfWeek)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, weekNumber, dayOfWeek, nil
}

// NextMeal resolves today's next actionable item together with the state
// that explains an empty result.
func (service *PlanService) NextMeal(plan models.MealPlan, canonicalOrder []string, now time.Time, location *time.Location) (*models.MealPlanItem, NextMealState, error) {
	items, _, _, err := service.ItemsForToday(plan, now, location)
	if err != nil {
		return nil, "", err
	}
	item, state := SelectNextMeal(plan, items, canonicalOrder, now, location)
	return item, state, nil
}

// CompleteItem stamps the item as done (or skipped) at the given instant.
// Completion is absorbing: a second call leaves the original stamp in place.
func (service *PlanService) CompleteItem(userID uint, itemID uint, now time.Time, skipped bool) (models.MealPlanItem, error) {
	item, err := service.ownedItem(userID, itemID)
	if err != nil {
		return models.MealPlanItem{}, err
	}

	if item.CompletedAt != nil {
		return item, nil
	}

	completedAt := now
	item.CompletedAt = &completedAt
	item.Skipped = skipped
	if err := service.items.Save(&item); err != nil {
		return models.MealPlanItem{}, err
	}
	return item, nil
}

// RegenerateItem replaces the whole row with a fresh recipe, clearing any
// completion; regeneration is a full item replace, never a field patch.
func (service *PlanService) RegenerateItem(userID uint, itemID uint, recipeName string, recipeNotes string) (models.MealPlanItem, error) {
	item, err := service.ownedItem(userID, itemID)
	if err != nil {
		return models.MealPlanItem{}, err
	}

	replacement := models.MealPlanItem{
		RecipeName:  recipeName,
		RecipeNotes: recipeNotes,
	}
	if err := service.items.Replace(item, &replacement); err != nil {
		return models.MealPlanItem{}, err
	}
	return replacement, nil
}

func (service *PlanService) ownedItem(userID uint, itemID uint) (models.MealPlanItem, error) {
	item, found, err := service.items.FindByID(itemID)
	if err != nil {
		return models.MealPlanItem{}, err
	}
	if !found {
		return models.MealPlanItem{}, ErrPlanItemNotFound
	}

	plan, found, err := service.plans.FindByID(item.PlanID)
	if err != nil {
		return models.MealPlanItem{}, err
	}
	if !found || plan.UserID != userID {
		return models.MealPlanItem{}, ErrPlanItemNotOwned
	}
	return item, nil
}
