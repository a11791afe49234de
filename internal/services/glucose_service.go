package services

import (
	"context"
	"fmt"

	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/database"
	"gorm.io/gorm"
)

type GlucoseService struct {
	db *gorm.DB
}

func NewGlucoseService(db *gorm.DB) *GlucoseService {
	return &GlucoseService{db: db}
}

func validateReading(value float64, date string) error {
	if value <= 0 {
		return apperrors.NewValidationError("Glucose value must be a positive number")
	}
	if err := validateDateKey(date); err != nil {
		return err
	}
	return nil
}

func (s *GlucoseService) AddReading(ctx context.Context, userID uint, value float64, date, clock, notes string) (*database.GlucoseReading, error) {
	if err := validateReading(value, date); err != nil {
		return nil, err
	}

	reading := &database.GlucoseReading{
		UserID: userID,
		Value:  value,
		Date:   date,
		Time:   clock,
		Notes:  notes,
	}
	if err := s.db.WithContext(ctx).Create(reading).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return reading, nil
}

func (s *GlucoseService) ListReadings(ctx context.Context, userID uint) ([]database.GlucoseReading, error) {
	var readings []database.GlucoseReading
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, time DESC").
		Find(&readings).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return readings, nil
}

// UpdateReading replaces the editable fields of a reading in full.
func (s *GlucoseService) UpdateReading(ctx context.Context, userID, readingID uint, value float64, date, clock, notes string) error {
	if err := validateReading(value, date); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&database.GlucoseReading{}).
		Where("user_id = ? AND id = ?", userID, readingID).
		Updates(map[string]interface{}{
			"value": value,
			"date":  date,
			"time":  clock,
			"notes": notes,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("glucose reading not found")
	}
	return nil
}

func (s *GlucoseService) DeleteReading(ctx context.Context, userID, readingID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, readingID).
		Delete(&database.GlucoseReading{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("glucose reading not found")
	}
	return nil
}
