package database

import (
	"fmt"

	"github.com/glucolog/glucolog/internal/config"
	"github.com/glucolog/glucolog/internal/database/migrations"
	"github.com/glucolog/glucolog/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	FirstName  string
	LastName   string
	// Profile fields prime the diet-assistant chat context.
	Age                 int
	DietaryRestrictions string
	HealthGoal          string
}

// GlucoseReading is one blood glucose measurement in mg/dL. Date and Time
// are kept as the user entered them; Date is the aggregation key.
type GlucoseReading struct {
	gorm.Model
	UserID uint `gorm:"index"`
	User   User
	Value  float64
	Date   string `gorm:"index"` // "YYYY-MM-DD"
	Time   string // "HH:MM"
	Notes  string
}

type FoodEntry struct {
	gorm.Model
	UserID   uint `gorm:"index"`
	User     User
	Item     string
	Carbs    float64 // grams
	Calories float64 `gorm:"default:0"` // kcal
	Sugars   float64 `gorm:"default:0"` // grams
	Date     string  `gorm:"index"`
	Time     string
	Notes    string
}

type ExerciseEntry struct {
	gorm.Model
	UserID       uint `gorm:"index"`
	User         User
	ActivityType string
	Duration     float64 // minutes
	Date         string  `gorm:"index"`
	Time         string
	Notes        string
}

// Goal is one active target per metric type per user. The composite unique
// index closes the check-then-insert race at the database level.
type Goal struct {
	gorm.Model
	UserID        uint   `gorm:"uniqueIndex:idx_goals_user_metric"`
	User          User
	MetricType    string `gorm:"uniqueIndex:idx_goals_user_metric"`
	Title         string
	TargetValue   float64
	Unit          string
	LowerIsBetter bool
}

// FoodItem is one recognized item inside an image analysis. Stored as part
// of the analysis JSON payload, not as its own table.
type FoodItem struct {
	Name           string  `json:"foodItem"`
	LocalName      string  `json:"localName"`
	CarbohydratesG float64 `json:"carbohydrates_g"`
	SugarsG        float64 `json:"sugars_g"`
	CaloriesKcal   float64 `json:"calories_kcal"`
	Suitability    string  `json:"diabeticSuitability"`
	Recommendation string  `json:"recommendation"`
}

// ImageAnalysis is one immutable food-photo analysis result.
type ImageAnalysis struct {
	gorm.Model
	UserID         uint `gorm:"index"`
	User           User
	Title          string
	FoodItems      []FoodItem `gorm:"serializer:json"`
	OtherItems     []string   `gorm:"serializer:json"`
	OverallSummary string
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := migrations.Run(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed")
	return db, nil
}

// Migrate applies the schema for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&GlucoseReading{},
		&FoodEntry{},
		&ExerciseEntry{},
		&Goal{},
		&ImageAnalysis{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
