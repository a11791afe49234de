package services

import (
	"context"
	"time"

	"github.com/glucolog/glucolog/internal/analytics"
	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/database"
	"gorm.io/gorm"
)

// validateDateKey rejects date strings that are not calendar-day keys.
func validateDateKey(date string) error {
	if _, err := time.Parse(analytics.DateLayout, date); err != nil {
		return apperrors.NewValidationError("Date must use the YYYY-MM-DD format")
	}
	return nil
}

// loadSnapshot fetches the full per-user record set in one pass. The
// aggregator and evaluator operate on this copy without further
// synchronization; concurrent writes show up on the next load.
func loadSnapshot(ctx context.Context, db *gorm.DB, userID uint) (analytics.Snapshot, error) {
	var snap analytics.Snapshot

	var readings []database.GlucoseReading
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&readings).Error; err != nil {
		return snap, apperrors.NewDatabaseError(err)
	}
	snap.Glucose = make([]analytics.GlucoseSample, len(readings))
	for i, r := range readings {
		snap.Glucose[i] = analytics.GlucoseSample{Date: r.Date, Value: r.Value}
	}

	var foods []database.FoodEntry
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&foods).Error; err != nil {
		return snap, apperrors.NewDatabaseError(err)
	}
	snap.Food = make([]analytics.FoodSample, len(foods))
	for i, f := range foods {
		snap.Food[i] = analytics.FoodSample{Date: f.Date, Carbs: f.Carbs, Calories: f.Calories, Sugars: f.Sugars}
	}

	var workouts []database.ExerciseEntry
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&workouts).Error; err != nil {
		return snap, apperrors.NewDatabaseError(err)
	}
	snap.Exercise = make([]analytics.ExerciseSample, len(workouts))
	for i, w := range workouts {
		snap.Exercise[i] = analytics.ExerciseSample{Date: w.Date, Duration: w.Duration}
	}

	return snap, nil
}
