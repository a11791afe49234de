package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/database"
	"gorm.io/gorm"
)

type ExerciseService struct {
	db *gorm.DB
}

func NewExerciseService(db *gorm.DB) *ExerciseService {
	return &ExerciseService{db: db}
}

func validateExercise(activity string, duration float64, date string) error {
	if strings.TrimSpace(activity) == "" {
		return apperrors.NewValidationError("Activity type is required")
	}
	if duration <= 0 {
		return apperrors.NewValidationError("Duration must be a positive number of minutes")
	}
	return validateDateKey(date)
}

func (s *ExerciseService) AddEntry(ctx context.Context, userID uint, activity string, duration float64, date, clock, notes string) (*database.ExerciseEntry, error) {
	if err := validateExercise(activity, duration, date); err != nil {
		return nil, err
	}

	entry := &database.ExerciseEntry{
		UserID:       userID,
		ActivityType: strings.TrimSpace(activity),
		Duration:     duration,
		Date:         date,
		Time:         clock,
		Notes:        notes,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entry, nil
}

func (s *ExerciseService) ListEntries(ctx context.Context, userID uint) ([]database.ExerciseEntry, error) {
	var entries []database.ExerciseEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, time DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entries, nil
}

// UpdateEntry replaces the editable fields of an entry in full.
func (s *ExerciseService) UpdateEntry(ctx context.Context, userID, entryID uint, activity string, duration float64, date, clock, notes string) error {
	if err := validateExercise(activity, duration, date); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&database.ExerciseEntry{}).
		Where("user_id = ? AND id = ?", userID, entryID).
		Updates(map[string]interface{}{
			"activity_type": strings.TrimSpace(activity),
			"duration":      duration,
			"date":          date,
			"time":          clock,
			"notes":         notes,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("exercise entry not found")
	}
	return nil
}

func (s *ExerciseService) DeleteEntry(ctx context.Context, userID, entryID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, entryID).
		Delete(&database.ExerciseEntry{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("exercise entry not found")
	}
	return nil
}
