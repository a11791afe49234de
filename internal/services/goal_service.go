package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glucolog/glucolog/internal/analytics"
	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/database"
	"gorm.io/gorm"
)

type GoalService struct {
	db *gorm.DB
}

func NewGoalService(db *gorm.DB) *GoalService {
	return &GoalService{db: db}
}

// GoalProgress pairs a stored goal with its evaluated state.
type GoalProgress struct {
	Goal     database.Goal
	Progress analytics.Progress
}

// CreateGoal validates and stores a new goal. At most one goal may exist per
// metric type; the pre-insert check gives a friendly error and the composite
// unique index closes the remaining race window.
func (s *GoalService) CreateGoal(ctx context.Context, userID uint, metric analytics.MetricType, target float64) (*database.Goal, error) {
	info, ok := analytics.Metrics[metric]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Unknown goal type %q", metric))
	}
	if target <= 0 {
		return nil, apperrors.NewValidationError("Please enter a valid, positive target value")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&database.Goal{}).
		Where("user_id = ? AND metric_type = ?", userID, string(metric)).
		Count(&count).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateGoal
	}

	goal := &database.Goal{
		UserID:        userID,
		MetricType:    string(metric),
		Title:         info.Title,
		TargetValue:   target,
		Unit:          info.Unit,
		LowerIsBetter: info.LowerIsBetter,
	}
	if err := s.db.WithContext(ctx).Create(goal).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateGoal
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return goal, nil
}

// isUniqueViolation spots constraint errors the driver does not translate.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

func (s *GoalService) ListGoals(ctx context.Context, userID uint) ([]database.Goal, error) {
	var goals []database.Goal
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return goals, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, goalID).
		Delete(&database.Goal{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("goal not found")
	}
	return nil
}

// Progress evaluates every active goal against a fresh snapshot of the
// user's records.
func (s *GoalService) Progress(ctx context.Context, userID uint, now time.Time) ([]GoalProgress, error) {
	goals, err := s.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, nil
	}

	snap, err := loadSnapshot(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	progress := make([]GoalProgress, len(goals))
	for i, g := range goals {
		progress[i] = GoalProgress{
			Goal: g,
			Progress: analytics.Evaluate(analytics.Goal{
				Metric:        analytics.MetricType(g.MetricType),
				TargetValue:   g.TargetValue,
				LowerIsBetter: g.LowerIsBetter,
			}, snap, now),
		}
	}
	return progress, nil
}
