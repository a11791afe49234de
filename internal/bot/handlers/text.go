package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/glucolog/glucolog/internal/analytics"
	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/bot/keyboards"
	"github.com/glucolog/glucolog/internal/bot/menus"
	"github.com/glucolog/glucolog/internal/bot/state"
	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/logger"
	"github.com/glucolog/glucolog/internal/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TextHandler handles text messages
type TextHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	userState := h.stateManager.GetUserState(user.TelegramID)

	switch userState {
	case state.WaitingForGlucose:
		return h.handleGlucose(ctx, message, user)
	case state.WaitingForFood:
		return h.handleFood(ctx, message, user)
	case state.WaitingForExercise:
		return h.handleExercise(ctx, message, user)
	case state.WaitingForGoalTarget:
		return h.handleGoalTarget(ctx, message, user)
	case state.WaitingForProfile:
		return h.handleProfile(ctx, message, user)
	case state.WaitingForFoodLookup:
		return h.handleFoodLookup(ctx, message, user)
	case state.WaitingForMealPlan:
		return h.handleMealPlan(ctx, message, user)
	case state.Chatting:
		return h.handleChatMessage(ctx, message, user)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Please use the menu to pick an action, or /start to show it.")
		_, err := h.api.Send(msg)
		return err
	}
}

// handleGlucose parses "value" or "value, note"
func (h *TextHandler) handleGlucose(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	parts := splitFields(message.Text)
	value, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return h.reply(message.Chat.ID, "Please enter a number in mg/dL (for example: 112).")
	}
	var notes string
	if len(parts) > 1 {
		notes = strings.Join(parts[1:], ", ")
	}

	if id, date, clock, editing := h.editTarget(user); editing {
		if err := h.deps.GlucoseSvc.UpdateReading(ctx, user.ID, id, value, date, clock, notes); err != nil {
			return h.replyError(message.Chat.ID, err, "Could not update the reading. Please try again.")
		}
		h.finishInput(user)
		return h.confirm(message.Chat.ID, fmt.Sprintf("✅ Reading updated to %.0f mg/dL", value))
	}

	date, clock := nowKeys()
	if _, err := h.deps.GlucoseSvc.AddReading(ctx, user.ID, value, date, clock, notes); err != nil {
		return h.replyError(message.Chat.ID, err, "Could not save the reading. Please try again.")
	}

	h.finishInput(user)
	return h.confirm(message.Chat.ID, fmt.Sprintf("✅ Glucose reading %.0f mg/dL saved", value))
}

// handleFood parses "item, carbs[, calories[, sugars]]"
func (h *TextHandler) handleFood(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	parts := splitFields(message.Text)
	if len(parts) < 2 {
		return h.reply(message.Chat.ID, "Please use the format \"item, carbs\" — for example: \"Oatmeal, 40\".")
	}

	item := parts[0]
	carbs, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return h.reply(message.Chat.ID, "Carbohydrates must be a number of grams (for example: 40).")
	}
	var calories, sugars float64
	if len(parts) > 2 {
		if calories, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return h.reply(message.Chat.ID, "Calories must be a number (for example: 300).")
		}
	}
	if len(parts) > 3 {
		if sugars, err = strconv.ParseFloat(parts[3], 64); err != nil {
			return h.reply(message.Chat.ID, "Sugars must be a number of grams (for example: 5).")
		}
	}

	if id, date, clock, editing := h.editTarget(user); editing {
		if err := h.deps.FoodSvc.UpdateEntry(ctx, user.ID, id, item, carbs, calories, sugars, date, clock, ""); err != nil {
			return h.replyError(message.Chat.ID, err, "Could not update the meal. Please try again.")
		}
		h.finishInput(user)
		return h.confirm(message.Chat.ID, fmt.Sprintf("✅ %s updated (%.1f g carbs)", item, carbs))
	}

	date, clock := nowKeys()
	if _, err := h.deps.FoodSvc.AddEntry(ctx, user.ID, item, carbs, calories, sugars, date, clock, ""); err != nil {
		return h.replyError(message.Chat.ID, err, "Could not save the meal. Please try again.")
	}

	h.finishInput(user)
	return h.confirm(message.Chat.ID, fmt.Sprintf("✅ %s saved (%.1f g carbs)", item, carbs))
}

// handleExercise parses "activity, minutes"
func (h *TextHandler) handleExercise(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	parts := splitFields(message.Text)
	if len(parts) < 2 {
		return h.reply(message.Chat.ID, "Please use the format \"activity, minutes\" — for example: \"Walking, 45\".")
	}

	activity := parts[0]
	duration, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return h.reply(message.Chat.ID, "Duration must be a number of minutes (for example: 45).")
	}

	if id, date, clock, editing := h.editTarget(user); editing {
		if err := h.deps.ExerciseSvc.UpdateEntry(ctx, user.ID, id, activity, duration, date, clock, ""); err != nil {
			return h.replyError(message.Chat.ID, err, "Could not update the activity. Please try again.")
		}
		h.finishInput(user)
		return h.confirm(message.Chat.ID, fmt.Sprintf("✅ %s updated (%.0f min)", activity, duration))
	}

	date, clock := nowKeys()
	if _, err := h.deps.ExerciseSvc.AddEntry(ctx, user.ID, activity, duration, date, clock, ""); err != nil {
		return h.replyError(message.Chat.ID, err, "Could not save the activity. Please try again.")
	}

	h.finishInput(user)
	return h.confirm(message.Chat.ID, fmt.Sprintf("✅ %s saved (%.0f min)", activity, duration))
}

// handleGoalTarget finishes the set-goal flow started from the goals menu
func (h *TextHandler) handleGoalTarget(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	target, err := strconv.ParseFloat(strings.TrimSpace(message.Text), 64)
	if err != nil || target <= 0 {
		return h.reply(message.Chat.ID, "Please enter a positive number for your target.")
	}

	metricVal, ok := h.stateManager.GetTempData(user.TelegramID, "goalMetric")
	if !ok {
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return h.reply(message.Chat.ID, "I lost track of which goal you were setting. Please pick it again from the goals menu.")
	}
	metric, _ := metricVal.(string)

	goal, err := h.deps.GoalSvc.CreateGoal(ctx, user.ID, analytics.MetricType(metric), target)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateGoal) {
			return h.reply(message.Chat.ID, "You already have a goal for that metric. Delete it first to set a new target.")
		}
		return h.replyError(message.Chat.ID, err, "Could not save the goal. Please try again.")
	}

	h.stateManager.ClearTempData(user.TelegramID)
	h.stateManager.SetUserState(user.TelegramID, state.None)
	return h.confirm(message.Chat.ID, fmt.Sprintf("✅ Goal set: %s — %.1f %s", goal.Title, goal.TargetValue, goal.Unit))
}

// handleProfile parses "age, restrictions, health goal"
func (h *TextHandler) handleProfile(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	parts := splitFields(message.Text)
	if len(parts) < 3 {
		return h.reply(message.Chat.ID, "Please use the format \"age, dietary restrictions, health goal\".")
	}

	age, err := strconv.Atoi(parts[0])
	if err != nil || age <= 0 || age > 120 {
		return h.reply(message.Chat.ID, "Age must be a number (for example: 54).")
	}
	restrictions := parts[1]
	healthGoal := strings.Join(parts[2:], ", ")

	if err := h.deps.UserService.UpdateProfile(ctx, user.ID, age, restrictions, healthGoal); err != nil {
		return h.replyError(message.Chat.ID, err, "Could not save your profile. Please try again.")
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)

	// Echo back what was actually persisted.
	saved, err := h.deps.UserService.GetUserByTelegramID(ctx, user.TelegramID)
	if err != nil {
		logger.Errorf("Failed to reload profile for user %d: %v", user.ID, err)
		return h.confirm(message.Chat.ID, "✅ Profile saved. The diet assistant will use it to personalize answers.")
	}
	return h.confirm(message.Chat.ID, fmt.Sprintf(
		"✅ Profile saved:\nAge: %d\nRestrictions: %s\nGoal: %s\n\nThe diet assistant will use it to personalize answers.",
		saved.Age, valueOr(saved.DietaryRestrictions, "none"), valueOr(saved.HealthGoal, "not set")))
}

// handleFoodLookup fetches the per-100g nutrition card for a named food
func (h *TextHandler) handleFoodLookup(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	typing := tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatTyping)
	h.api.Send(typing)

	info, err := h.deps.ChatSvc.LookupNutrition(ctx, message.Text)
	if err != nil {
		return h.replyError(message.Chat.ID, err, "Sorry, I couldn't look that food up right now. Please try again in a moment.")
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)
	return menus.SendNutrition(h.api, message.Chat.ID, info)
}

// handleMealPlan generates a meal plan with grocery list from the request
func (h *TextHandler) handleMealPlan(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	working := tgbotapi.NewMessage(message.Chat.ID, "🛒 Building your plan, this can take a moment...")
	sentMsg, err := h.api.Send(working)
	if err != nil {
		return fmt.Errorf("failed to send status message: %w", err)
	}

	plan, err := h.deps.ChatSvc.MealPlan(ctx, user, message.Text)

	h.api.Send(tgbotapi.NewDeleteMessage(message.Chat.ID, sentMsg.MessageID))

	if err != nil {
		return h.replyError(message.Chat.ID, err, "Sorry, I couldn't build that plan right now. Please try again in a moment.")
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)
	return menus.SendMealPlan(h.api, message.Chat.ID, plan)
}

// handleChatMessage forwards the message to the diet assistant
func (h *TextHandler) handleChatMessage(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	typing := tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatTyping)
	h.api.Send(typing)

	reply, err := h.deps.ChatSvc.SendMessage(ctx, user, message.Text, nil)
	if err != nil {
		logger.Errorf("Chat failed for user %d: %v", user.ID, err)
		return h.reply(message.Chat.ID, "Sorry, I couldn't answer that right now. Please try again in a moment.")
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, render.Telegram(render.Parse(reply)))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboards.ChatMenu()
	if _, err := h.api.Send(msg); err != nil {
		// Fall back to plain text when the formatted message is rejected.
		plain := tgbotapi.NewMessage(message.Chat.ID, reply)
		plain.ReplyMarkup = keyboards.ChatMenu()
		_, err = h.api.Send(plain)
		return err
	}
	return nil
}

// editTarget reports whether the pending input corrects an existing entry,
// stashed by the edit buttons in the entry logs. The Redis-backed state
// manager round-trips temp data through JSON, so all three values are
// stored and read back as strings.
func (h *TextHandler) editTarget(user *database.User) (uint, string, string, bool) {
	rawID, ok := h.stateManager.GetTempData(user.TelegramID, "editID")
	if !ok {
		return 0, "", "", false
	}
	idStr, _ := rawID.(string)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, "", "", false
	}
	rawDate, _ := h.stateManager.GetTempData(user.TelegramID, "editDate")
	rawTime, _ := h.stateManager.GetTempData(user.TelegramID, "editTime")
	date, _ := rawDate.(string)
	clock, _ := rawTime.(string)
	return uint(id), date, clock, true
}

// finishInput leaves the input state and drops any pending edit target.
func (h *TextHandler) finishInput(user *database.User) {
	h.stateManager.ClearTempData(user.TelegramID)
	h.stateManager.SetUserState(user.TelegramID, state.None)
}

func (h *TextHandler) reply(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}

// replyError shows the validation message when the user can act on it,
// otherwise the generic fallback.
func (h *TextHandler) replyError(chatID int64, err error, fallback string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
		return h.reply(chatID, appErr.Message)
	}
	logger.Errorf("Operation failed: %v", err)
	return h.reply(chatID, fallback)
}

func (h *TextHandler) confirm(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := h.api.Send(msg)
	return err
}

// splitFields splits comma-separated input, trimming whitespace per field.
func splitFields(text string) []string {
	raw := strings.Split(text, ",")
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		fields = append(fields, strings.TrimSpace(f))
	}
	return fields
}

// nowKeys returns the current date and clock keys entries are stamped with.
func nowKeys() (string, string) {
	now := time.Now().UTC()
	return now.Format("2006-01-02"), now.Format("15:04")
}
