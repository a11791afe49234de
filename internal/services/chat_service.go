package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/glucolog/glucolog/internal/ai"
	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/logger"
)

// ChatMessage is one turn of a user's diet-assistant conversation.
type ChatMessage struct {
	FromUser bool
	Text     string
	SentAt   time.Time
}

// ChatService keeps per-user conversation sessions in memory. Sessions do not
// survive a restart; the chat is a scratchpad, not a record.
type ChatService struct {
	ai *ai.Service

	mu       sync.Mutex
	sessions map[uint][]ChatMessage
}

func NewChatService(aiService *ai.Service) *ChatService {
	return &ChatService{
		ai:       aiService,
		sessions: make(map[uint][]ChatMessage),
	}
}

// SendMessage forwards the user's message (optionally with an attached photo)
// to the assistant and records both turns in the session. The user's turn is
// recorded even when the assistant call fails, matching what the user saw on
// screen.
func (s *ChatService) SendMessage(ctx context.Context, user *database.User, text string, image []byte) (string, error) {
	if text == "" && len(image) == 0 {
		return "", apperrors.NewValidationError("Message text is empty")
	}

	profile := ai.Profile{
		Name:         user.FirstName,
		Age:          user.Age,
		Restrictions: user.DietaryRestrictions,
		Goal:         user.HealthGoal,
	}
	history := s.historyForAI(user.ID)
	s.append(user.ID, ChatMessage{FromUser: true, Text: text, SentAt: time.Now()})

	var reply string
	var err error
	if len(image) > 0 {
		reply, err = s.ai.ChatWithImage(ctx, text, image)
	} else {
		reply, err = s.ai.Chat(ctx, profile, history, text)
	}
	if err != nil {
		logger.WithFields("user_id", user.ID, "error", err.Error()).Error("Chat message failed")
		return "", err
	}

	s.append(user.ID, ChatMessage{FromUser: false, Text: reply, SentAt: time.Now()})
	return reply, nil
}

// History returns a copy of the user's session so far.
func (s *ChatService) History(userID uint) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessions[userID]
	out := make([]ChatMessage, len(session))
	copy(out, session)
	return out
}

// Reset drops the user's session, starting the conversation over.
func (s *ChatService) Reset(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// LookupNutrition returns the per-100g nutritional breakdown of a named food.
func (s *ChatService) LookupNutrition(ctx context.Context, food string) (*ai.NutritionInfo, error) {
	food = strings.TrimSpace(food)
	if food == "" {
		return nil, apperrors.NewValidationError("Food name is empty")
	}
	info, err := s.ai.LookupNutrition(ctx, food)
	if err != nil {
		logger.WithFields("food", food, "error", err.Error()).Error("Nutrition lookup failed")
		return nil, err
	}
	return info, nil
}

// MealPlan generates a meal plan and grocery list from a free-text request,
// folding the user's dietary restrictions into it.
func (s *ChatService) MealPlan(ctx context.Context, user *database.User, request string) (*ai.MealPlan, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, apperrors.NewValidationError("Meal plan request is empty")
	}
	if user.DietaryRestrictions != "" {
		request = fmt.Sprintf("%s. Dietary restrictions: %s", request, user.DietaryRestrictions)
	}
	plan, err := s.ai.GenerateMealPlan(ctx, request)
	if err != nil {
		logger.WithFields("user_id", user.ID, "error", err.Error()).Error("Meal plan generation failed")
		return nil, err
	}
	return plan, nil
}

const fallbackFact = "Bananas are rich in potassium, which helps regulate blood pressure and supports muscle function."

// NutrientFact returns a short fruit-nutrition fact for the chat greeting.
// The assistant call is best-effort; a static fact covers failures so the
// greeting never errors out.
func (s *ChatService) NutrientFact(ctx context.Context) string {
	fact, err := s.ai.NutrientFact(ctx)
	if err != nil {
		logger.Debug("Nutrient fact fetch failed, using fallback", "error", err)
		return fallbackFact
	}
	return fact
}

func (s *ChatService) append(userID uint, msg ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = append(s.sessions[userID], msg)
}

func (s *ChatService) historyForAI(userID uint) []ai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessions[userID]
	history := make([]ai.Message, len(session))
	for i, m := range session {
		history[i] = ai.Message{FromUser: m.FromUser, Text: m.Text}
	}
	return history
}
