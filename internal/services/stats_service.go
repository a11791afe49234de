package services

import (
	"context"
	"errors"
	"time"

	"github.com/glucolog/glucolog/internal/analytics"
	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/database"
	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Dashboard is the at-a-glance summary shown on the stats screen.
type Dashboard struct {
	LatestGlucose     *database.GlucoseReading
	AvgGlucose7d      float64
	TodayCarbs        float64
	TodayCalories     float64
	TodaySugars       float64
	WeeklyExerciseMin float64
}

func (s *StatsService) Dashboard(ctx context.Context, userID uint, now time.Time) (*Dashboard, error) {
	snap, err := loadSnapshot(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		AvgGlucose7d:      analytics.CurrentValue(analytics.MetricAvgGlucose, snap, now),
		TodayCarbs:        analytics.CurrentValue(analytics.MetricDailyCarbs, snap, now),
		TodayCalories:     analytics.CurrentValue(analytics.MetricDailyCalories, snap, now),
		TodaySugars:       analytics.CurrentValue(analytics.MetricDailySugars, snap, now),
		WeeklyExerciseMin: analytics.CurrentValue(analytics.MetricWeeklyExercise, snap, now),
	}

	var latest database.GlucoseReading
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, time DESC").
		First(&latest).Error
	if err == nil {
		d.LatestGlucose = &latest
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewDatabaseError(err)
	}

	return d, nil
}

// GlucoseSeries is the per-day mean glucose trend across all records.
func (s *StatsService) GlucoseSeries(ctx context.Context, userID uint) ([]analytics.Point, error) {
	snap, err := loadSnapshot(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return analytics.DailySeries(analytics.GlucoseValues(snap.Glucose), analytics.Mean, nil), nil
}

// FoodSeries is the per-day total of one nutrient across all records.
func (s *StatsService) FoodSeries(ctx context.Context, userID uint, nutrient analytics.Nutrient) ([]analytics.Point, error) {
	snap, err := loadSnapshot(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return analytics.DailySeries(analytics.FoodValues(snap.Food, nutrient), analytics.Sum, nil), nil
}

// ExerciseSeries is the per-day total exercise minutes across all records.
func (s *StatsService) ExerciseSeries(ctx context.Context, userID uint) ([]analytics.Point, error) {
	snap, err := loadSnapshot(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return analytics.DailySeries(analytics.ExerciseValues(snap.Exercise), analytics.Sum, nil), nil
}
