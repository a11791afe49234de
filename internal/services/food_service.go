package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/database"
	"gorm.io/gorm"
)

type FoodService struct {
	db *gorm.DB
}

func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{db: db}
}

func validateFoodEntry(item string, carbs, calories, sugars float64, date string) error {
	if strings.TrimSpace(item) == "" {
		return apperrors.NewValidationError("Food item name is required")
	}
	if carbs < 0 {
		return apperrors.NewValidationError("Carbohydrates cannot be negative")
	}
	if calories < 0 || sugars < 0 {
		return apperrors.NewValidationError("Calories and sugars cannot be negative")
	}
	return validateDateKey(date)
}

func (s *FoodService) AddEntry(ctx context.Context, userID uint, item string, carbs, calories, sugars float64, date, clock, notes string) (*database.FoodEntry, error) {
	if err := validateFoodEntry(item, carbs, calories, sugars, date); err != nil {
		return nil, err
	}

	entry := &database.FoodEntry{
		UserID:   userID,
		Item:     strings.TrimSpace(item),
		Carbs:    carbs,
		Calories: calories,
		Sugars:   sugars,
		Date:     date,
		Time:     clock,
		Notes:    notes,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entry, nil
}

func (s *FoodService) ListEntries(ctx context.Context, userID uint) ([]database.FoodEntry, error) {
	var entries []database.FoodEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, time DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entries, nil
}

// UpdateEntry replaces the editable fields of an entry in full.
func (s *FoodService) UpdateEntry(ctx context.Context, userID, entryID uint, item string, carbs, calories, sugars float64, date, clock, notes string) error {
	if err := validateFoodEntry(item, carbs, calories, sugars, date); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&database.FoodEntry{}).
		Where("user_id = ? AND id = ?", userID, entryID).
		Updates(map[string]interface{}{
			"item":     strings.TrimSpace(item),
			"carbs":    carbs,
			"calories": calories,
			"sugars":   sugars,
			"date":     date,
			"time":     clock,
			"notes":    notes,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("food entry not found")
	}
	return nil
}

func (s *FoodService) DeleteEntry(ctx context.Context, userID, entryID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, entryID).
		Delete(&database.FoodEntry{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("food entry not found")
	}
	return nil
}
