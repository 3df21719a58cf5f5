package db

import (
	"github.com/platefulapp/plateful/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("lower(trim(email)) = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) UpdateTimezone(userID uint, timezone string) error {
	return repo.database.Model(&models.User{}).
		Where("id = ?", userID).
		Update("timezone", timezone).Error
}

// UpdateCustomMealTimes replaces the whole stored map in one write so the
// schedule invariants cannot be observed half-applied.
func (repo *UserRepository) UpdateCustomMealTimes(user *models.User) error {
	return repo.database.Model(user).Select("custom_meal_times").Updates(user).Error
}

func (repo *UserRepository) UpdateEnabledMeals(user *models.User) error {
	return repo.database.Model(user).Select("enabled_meals").Updates(user).Error
}
