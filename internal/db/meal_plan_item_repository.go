package db

import (
	"github.com/platefulapp/plateful/internal/models"
	"gorm.io/gorm"
)

type MealPlanItemRepository struct {
	database *gorm.DB
}

func NewMealPlanItemRepository(database *gorm.DB) *MealPlanItemRepository {
	return &MealPlanItemRepository{database: database}
}

func (repo *MealPlanItemRepository) ListForPlanDay(planID uint, weekNumber int, dayOfWeek int) ([]models.MealPlanItem, error) {
	items := make([]models.MealPlanItem, 0)
	if err := repo.database.
		Where("plan_id = ? AND week_number = ? AND day_of_week = ?", planID, weekNumber, dayOfWeek).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (repo *MealPlanItemRepository) ListForPlan(planID uint) ([]models.MealPlanItem, error) {
	items := make([]models.MealPlanItem, 0)
	if err := repo.database.
		Where("plan_id = ?", planID).
		Order("week_number ASC, day_of_week ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (repo *MealPlanItemRepository) FindByID(itemID uint) (models.MealPlanItem, bool, error) {
	item := models.MealPlanItem{}
	result := repo.database.Limit(1).Find(&item, itemID)
	if result.Error != nil {
		return models.MealPlanItem{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.MealPlanItem{}, false, nil
	}
	return item, true, nil
}

func (repo *MealPlanItemRepository) Save(item *models.MealPlanItem) error {
	return repo.database.Save(item).Error
}

// Replace swaps the item's row for a regenerated one in a single transaction,
// keeping the grid position but clearing completion state.
func (repo *MealPlanItemRepository) Replace(old models.MealPlanItem, replacement *models.MealPlanItem) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MealPlanItem{}, old.ID).Error; err != nil {
			return err
		}
		replacement.PlanID = old.PlanID
		replacement.WeekNumber = old.WeekNumber
		replacement.DayOfWeek = old.DayOfWeek
		replacement.MealType = old.MealType
		return tx.Create(replacement).Error
	})
}
