// Package interfaces defines the service contracts the bot handlers depend on.
package interfaces

import (
	"context"
	"time"

	"github.com/glucolog/glucolog/internal/ai"
	"github.com/glucolog/glucolog/internal/analytics"
	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/services"
)

// UserServiceInterface defines the contract for user operations
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*database.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*database.User, error)
	UpdateProfile(ctx context.Context, userID uint, age int, restrictions, healthGoal string) error
}

// GlucoseServiceInterface defines the contract for glucose reading operations
type GlucoseServiceInterface interface {
	AddReading(ctx context.Context, userID uint, value float64, date, clock, notes string) (*database.GlucoseReading, error)
	ListReadings(ctx context.Context, userID uint) ([]database.GlucoseReading, error)
	UpdateReading(ctx context.Context, userID, readingID uint, value float64, date, clock, notes string) error
	DeleteReading(ctx context.Context, userID, readingID uint) error
}

// FoodServiceInterface defines the contract for food entry operations
type FoodServiceInterface interface {
	AddEntry(ctx context.Context, userID uint, item string, carbs, calories, sugars float64, date, clock, notes string) (*database.FoodEntry, error)
	ListEntries(ctx context.Context, userID uint) ([]database.FoodEntry, error)
	UpdateEntry(ctx context.Context, userID, entryID uint, item string, carbs, calories, sugars float64, date, clock, notes string) error
	DeleteEntry(ctx context.Context, userID, entryID uint) error
}

// ExerciseServiceInterface defines the contract for exercise entry operations
type ExerciseServiceInterface interface {
	AddEntry(ctx context.Context, userID uint, activity string, duration float64, date, clock, notes string) (*database.ExerciseEntry, error)
	ListEntries(ctx context.Context, userID uint) ([]database.ExerciseEntry, error)
	UpdateEntry(ctx context.Context, userID, entryID uint, activity string, duration float64, date, clock, notes string) error
	DeleteEntry(ctx context.Context, userID, entryID uint) error
}

// GoalServiceInterface defines the contract for goal operations
type GoalServiceInterface interface {
	CreateGoal(ctx context.Context, userID uint, metric analytics.MetricType, target float64) (*database.Goal, error)
	ListGoals(ctx context.Context, userID uint) ([]database.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID uint) error
	Progress(ctx context.Context, userID uint, now time.Time) ([]services.GoalProgress, error)
}

// ImageAnalysisServiceInterface defines the contract for food-photo analysis
type ImageAnalysisServiceInterface interface {
	Analyze(ctx context.Context, userID uint, image []byte) (*database.ImageAnalysis, error)
	History(ctx context.Context, userID uint) ([]database.ImageAnalysis, error)
	Delete(ctx context.Context, userID, analysisID uint) error
}

// ChatServiceInterface defines the contract for the diet-assistant chat
type ChatServiceInterface interface {
	SendMessage(ctx context.Context, user *database.User, text string, image []byte) (string, error)
	History(userID uint) []services.ChatMessage
	Reset(userID uint)
	NutrientFact(ctx context.Context) string
	LookupNutrition(ctx context.Context, food string) (*ai.NutritionInfo, error)
	MealPlan(ctx context.Context, user *database.User, request string) (*ai.MealPlan, error)
}

// StatsServiceInterface defines the contract for dashboard and chart data
type StatsServiceInterface interface {
	Dashboard(ctx context.Context, userID uint, now time.Time) (*services.Dashboard, error)
	GlucoseSeries(ctx context.Context, userID uint) ([]analytics.Point, error)
	FoodSeries(ctx context.Context, userID uint, nutrient analytics.Nutrient) ([]analytics.Point, error)
	ExerciseSeries(ctx context.Context, userID uint) ([]analytics.Point, error)
}
