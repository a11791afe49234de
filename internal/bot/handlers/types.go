package handlers

import (
	"github.com/glucolog/glucolog/internal/ai"
	"github.com/glucolog/glucolog/internal/interfaces"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService      interfaces.UserServiceInterface
	GlucoseSvc       interfaces.GlucoseServiceInterface
	FoodSvc          interfaces.FoodServiceInterface
	ExerciseSvc      interfaces.ExerciseServiceInterface
	GoalSvc          interfaces.GoalServiceInterface
	ImageAnalysisSvc interfaces.ImageAnalysisServiceInterface
	ChatSvc          interfaces.ChatServiceInterface
	StatsSvc         interfaces.StatsServiceInterface
	TTS              *ai.TTSClient
}
