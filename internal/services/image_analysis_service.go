package services

import (
	"context"

	"github.com/glucolog/glucolog/internal/ai"
	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/logger"
	"gorm.io/gorm"
)

type ImageAnalysisService struct {
	db *gorm.DB
	ai *ai.Service
}

func NewImageAnalysisService(db *gorm.DB, aiService *ai.Service) *ImageAnalysisService {
	return &ImageAnalysisService{db: db, ai: aiService}
}

// Analyze runs the food-photo analysis and persists the result. Analyses are
// immutable once written; there is no update path.
func (s *ImageAnalysisService) Analyze(ctx context.Context, userID uint, image []byte) (*database.ImageAnalysis, error) {
	if len(image) == 0 {
		return nil, apperrors.NewValidationError("Image data is empty")
	}

	result, err := s.ai.AnalyzeFoodImage(ctx, image)
	if err != nil {
		return nil, err
	}

	analysis := &database.ImageAnalysis{
		UserID:         userID,
		Title:          analysisTitle(result),
		FoodItems:      make([]database.FoodItem, len(result.FoodItems)),
		OtherItems:     result.OtherItems,
		OverallSummary: result.OverallSummary,
	}
	for i, item := range result.FoodItems {
		analysis.FoodItems[i] = database.FoodItem{
			Name:           item.Name,
			LocalName:      item.LocalName,
			CarbohydratesG: item.CarbohydratesG,
			SugarsG:        item.SugarsG,
			CaloriesKcal:   item.CaloriesKcal,
			Suitability:    item.Suitability,
			Recommendation: item.Recommendation,
		}
	}

	if err := s.db.WithContext(ctx).Create(analysis).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	logger.WithFields("user_id", userID, "food_items", len(analysis.FoodItems)).Info("Food image analyzed")
	return analysis, nil
}

func (s *ImageAnalysisService) History(ctx context.Context, userID uint) ([]database.ImageAnalysis, error) {
	var analyses []database.ImageAnalysis
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&analyses).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return analyses, nil
}

func (s *ImageAnalysisService) Delete(ctx context.Context, userID, analysisID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", analysisID, userID).
		Delete(&database.ImageAnalysis{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewValidationError("Analysis not found")
	}
	return nil
}

// analysisTitle derives the history label from the first recognized item.
func analysisTitle(result *ai.ImageAnalysisResult) string {
	if len(result.FoodItems) > 0 && result.FoodItems[0].Name != "" {
		return result.FoodItems[0].Name
	}
	return "Food analysis"
}
