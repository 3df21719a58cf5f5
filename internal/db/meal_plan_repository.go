package db

import (
	"github.com/platefulapp/plateful/internal/models"
	"gorm.io/gorm"
)

type MealPlanRepository struct {
	database *gorm.DB
}

func NewMealPlanRepository(database *gorm.DB) *MealPlanRepository {
	return &MealPlanRepository{database: database}
}

func (repo *MealPlanRepository) FindActiveByUser(userID uint) (models.MealPlan, bool, error) {
	plan := models.MealPlan{}
	result := repo.database.
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&plan)
	if result.Error != nil {
		return models.MealPlan{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.MealPlan{}, false, nil
	}
	return plan, true, nil
}

func (repo *MealPlanRepository) FindByID(planID uint) (models.MealPlan, bool, error) {
	plan := models.MealPlan{}
	result := repo.database.Limit(1).Find(&plan, planID)
	if result.Error != nil {
		return models.MealPlan{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.MealPlan{}, false, nil
	}
	return plan, true, nil
}

// CreateActive stores a new plan and deactivates the user's previous active
// plan inside the same transaction.
func (repo *MealPlanRepository) CreateActive(plan *models.MealPlan, items []models.MealPlanItem) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MealPlan{}).
			Where("user_id = ? AND is_active = ?", plan.UserID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		plan.IsActive = true
		if err := tx.Create(plan).Error; err != nil {
			return err
		}

		for index := range items {
			items[index].PlanID = plan.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateCustomMealTimes replaces the plan's whole custom-times map in one write.
func (repo *MealPlanRepository) UpdateCustomMealTimes(plan *models.MealPlan) error {
	return repo.database.Model(plan).Select("custom_meal_times").Updates(plan).Error
}
