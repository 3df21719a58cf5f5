package db

import (
	"github.com/platefulapp/plateful/internal/models"
	"gorm.io/gorm"
)

type MealSettingRepository struct {
	database *gorm.DB
}

func NewMealSettingRepository(database *gorm.DB) *MealSettingRepository {
	return &MealSettingRepository{database: database}
}

func (repo *MealSettingRepository) ListOrdered() ([]models.MealSetting, error) {
	settings := make([]models.MealSetting, 0)
	if err := repo.database.Order("sort_order ASC, id ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
