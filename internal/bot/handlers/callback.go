package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/glucolog/glucolog/internal/analytics"
	"github.com/glucolog/glucolog/internal/bot/keyboards"
	"github.com/glucolog/glucolog/internal/bot/menus"
	"github.com/glucolog/glucolog/internal/bot/state"
	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *database.User) error {
	// Answer the callback query first
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		logger.Warningf("Failed to answer callback query: %v", err)
	}

	chatID := query.Message.Chat.ID
	data := query.Data

	switch {
	case data == "main_menu":
		h.stateManager.SetUserState(user.TelegramID, state.None)
		h.stateManager.ClearTempData(user.TelegramID)
		return menus.SendMainMenu(h.api, chatID)
	case data == "log_glucose":
		return h.prompt(user, chatID, state.WaitingForGlucose,
			"🩸 Enter your glucose reading in mg/dL (for example: 112).\nYou can add a note after a comma: \"112, before breakfast\"")
	case data == "log_food":
		return h.prompt(user, chatID, state.WaitingForFood,
			"🍽️ Enter the meal as \"item, carbs\" with optional calories and sugars.\nExample: \"Oatmeal, 40, 300, 5\"")
	case data == "log_exercise":
		return h.prompt(user, chatID, state.WaitingForExercise,
			"🏃 Enter the activity as \"activity, minutes\".\nExample: \"Walking, 45\"")
	case data == "goals":
		return h.handleGoals(ctx, chatID, user)
	case strings.HasPrefix(data, "set_goal:"):
		return h.handleSetGoal(chatID, user, strings.TrimPrefix(data, "set_goal:"))
	case strings.HasPrefix(data, "delete_goal:"):
		return h.handleDeleteGoal(ctx, chatID, user, strings.TrimPrefix(data, "delete_goal:"))
	case data == "stats":
		return h.handleStats(ctx, chatID, user)
	case data == "history":
		msg := tgbotapi.NewMessage(chatID, "📈 Which series would you like to see?")
		msg.ReplyMarkup = keyboards.HistoryMenu()
		_, err := h.api.Send(msg)
		return err
	case strings.HasPrefix(data, "series:"):
		return h.handleSeries(ctx, chatID, user, strings.TrimPrefix(data, "series:"))
	case strings.HasPrefix(data, "entries:"):
		return h.handleEntries(ctx, chatID, user, strings.TrimPrefix(data, "entries:"))
	case strings.HasPrefix(data, "edit_glucose:"):
		return h.handleEditGlucose(ctx, chatID, user, strings.TrimPrefix(data, "edit_glucose:"))
	case strings.HasPrefix(data, "edit_food:"):
		return h.handleEditFood(ctx, chatID, user, strings.TrimPrefix(data, "edit_food:"))
	case strings.HasPrefix(data, "edit_exercise:"):
		return h.handleEditExercise(ctx, chatID, user, strings.TrimPrefix(data, "edit_exercise:"))
	case strings.HasPrefix(data, "del_glucose:"):
		return h.handleDeleteEntry(ctx, chatID, user, "glucose", strings.TrimPrefix(data, "del_glucose:"))
	case strings.HasPrefix(data, "del_food:"):
		return h.handleDeleteEntry(ctx, chatID, user, "food", strings.TrimPrefix(data, "del_food:"))
	case strings.HasPrefix(data, "del_exercise:"):
		return h.handleDeleteEntry(ctx, chatID, user, "exercise", strings.TrimPrefix(data, "del_exercise:"))
	case data == "analyses":
		return h.handleAnalyses(ctx, chatID, user)
	case strings.HasPrefix(data, "show_analysis:"):
		return h.handleShowAnalysis(ctx, chatID, user, strings.TrimPrefix(data, "show_analysis:"))
	case strings.HasPrefix(data, "del_analysis:"):
		return h.handleDeleteAnalysis(ctx, chatID, user, strings.TrimPrefix(data, "del_analysis:"))
	case data == "food_lookup":
		return h.prompt(user, chatID, state.WaitingForFoodLookup,
			"🔎 Which food would you like to look up? I'll show its nutrition per 100g.\nExample: \"Quinoa\"")
	case data == "meal_plan":
		return h.prompt(user, chatID, state.WaitingForMealPlan,
			"🛒 Describe the meal plan you need and I'll build it with a grocery list.\nExample: \"3 days of low-carb dinners for two\"")
	case data == "analyze_food":
		return h.handleAnalyzeFood(ctx, chatID, user)
	case data == "chat":
		return h.handleChat(ctx, chatID, user)
	case data == "chat_reset":
		h.deps.ChatSvc.Reset(user.ID)
		return h.handleChat(ctx, chatID, user)
	case data == "tts_last":
		return h.handleListen(ctx, chatID, user)
	case data == "profile":
		return h.handleProfile(chatID, user)
	default:
		msg := tgbotapi.NewMessage(chatID, "Unknown action")
		_, err := h.api.Send(msg)
		return err
	}
}

func (h *CallbackHandler) prompt(user *database.User, chatID int64, newState, text string) error {
	// A fresh input prompt never continues an edit.
	h.stateManager.ClearTempData(user.TelegramID)
	h.stateManager.SetUserState(user.TelegramID, newState)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleGoals(ctx context.Context, chatID int64, user *database.User) error {
	progress, err := h.deps.GoalSvc.Progress(ctx, user.ID, time.Now().UTC())
	if err != nil {
		logger.Errorf("Failed to evaluate goals for user %d: %v", user.ID, err)
		msg := tgbotapi.NewMessage(chatID, "Something went wrong loading your goals. Please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	return menus.SendGoals(h.api, chatID, progress)
}

func (h *CallbackHandler) handleSetGoal(chatID int64, user *database.User, metric string) error {
	info, ok := analytics.Metrics[analytics.MetricType(metric)]
	if !ok {
		msg := tgbotapi.NewMessage(chatID, "Unknown goal type")
		_, err := h.api.Send(msg)
		return err
	}

	h.stateManager.SetTempData(user.TelegramID, "goalMetric", metric)
	h.stateManager.SetUserState(user.TelegramID, state.WaitingForGoalTarget)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🎯 Enter your target for %s (%s):", info.Title, info.Unit))
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleDeleteGoal(ctx context.Context, chatID int64, user *database.User, rawID string) error {
	goalID, err := parseEntryID(rawID)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "Unknown goal")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	if err := h.deps.GoalSvc.DeleteGoal(ctx, user.ID, goalID); err != nil {
		logger.Errorf("Failed to delete goal %d for user %d: %v", goalID, user.ID, err)
		msg := tgbotapi.NewMessage(chatID, "Could not delete that goal. Please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	return h.handleGoals(ctx, chatID, user)
}

func (h *CallbackHandler) handleStats(ctx context.Context, chatID int64, user *database.User) error {
	dashboard, err := h.deps.StatsSvc.Dashboard(ctx, user.ID, time.Now().UTC())
	if err != nil {
		logger.Errorf("Failed to build dashboard for user %d: %v", user.ID, err)
		msg := tgbotapi.NewMessage(chatID, "Something went wrong loading your dashboard. Please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	return menus.SendDashboard(h.api, chatID, dashboard)
}

func (h *CallbackHandler) handleSeries(ctx context.Context, chatID int64, user *database.User, name string) error {
	var (
		points []analytics.Point
		title  string
		unit   string
		err    error
	)
	switch name {
	case "glucose":
		title, unit = "Daily Average Glucose", "mg/dL"
		points, err = h.deps.StatsSvc.GlucoseSeries(ctx, user.ID)
	case "carbs":
		title, unit = "Daily Carbohydrates", "g"
		points, err = h.deps.StatsSvc.FoodSeries(ctx, user.ID, analytics.NutrientCarbs)
	case "calories":
		title, unit = "Daily Calories", "kcal"
		points, err = h.deps.StatsSvc.FoodSeries(ctx, user.ID, analytics.NutrientCalories)
	case "sugars":
		title, unit = "Daily Sugars", "g"
		points, err = h.deps.StatsSvc.FoodSeries(ctx, user.ID, analytics.NutrientSugars)
	case "exercise":
		title, unit = "Daily Exercise", "min"
		points, err = h.deps.StatsSvc.ExerciseSeries(ctx, user.ID)
	default:
		msg := tgbotapi.NewMessage(chatID, "Unknown series")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	if err != nil {
		logger.Errorf("Failed to build %s series for user %d: %v", name, user.ID, err)
		msg := tgbotapi.NewMessage(chatID, "Something went wrong loading the chart. Please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	return menus.SendSeries(h.api, chatID, title, unit, points)
}

func (h *CallbackHandler) handleEntries(ctx context.Context, chatID int64, user *database.User, kind string) error {
	var err error
	switch kind {
	case "glucose":
		var readings []database.GlucoseReading
		if readings, err = h.deps.GlucoseSvc.ListReadings(ctx, user.ID); err == nil {
			return menus.SendGlucoseLog(h.api, chatID, readings)
		}
	case "food":
		var entries []database.FoodEntry
		if entries, err = h.deps.FoodSvc.ListEntries(ctx, user.ID); err == nil {
			return menus.SendFoodLog(h.api, chatID, entries)
		}
	case "exercise":
		var entries []database.ExerciseEntry
		if entries, err = h.deps.ExerciseSvc.ListEntries(ctx, user.ID); err == nil {
			return menus.SendExerciseLog(h.api, chatID, entries)
		}
	default:
		msg := tgbotapi.NewMessage(chatID, "Unknown log")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	logger.Errorf("Failed to list %s entries for user %d: %v", kind, user.ID, err)
	msg := tgbotapi.NewMessage(chatID, "Something went wrong loading your entries. Please try again.")
	_, sendErr := h.api.Send(msg)
	return sendErr
}

// startEdit stashes the entry being corrected and moves the user into the
// matching input state. The entry keeps its original date and time; the
// corrected values replace the rest.
func (h *CallbackHandler) startEdit(user *database.User, id uint, date, clock, newState string) {
	h.stateManager.SetTempData(user.TelegramID, "editID", strconv.FormatUint(uint64(id), 10))
	h.stateManager.SetTempData(user.TelegramID, "editDate", date)
	h.stateManager.SetTempData(user.TelegramID, "editTime", clock)
	h.stateManager.SetUserState(user.TelegramID, newState)
}

func (h *CallbackHandler) handleEditGlucose(ctx context.Context, chatID int64, user *database.User, rawID string) error {
	id, err := parseEntryID(rawID)
	if err != nil {
		return h.unknownEntry(chatID)
	}
	readings, err := h.deps.GlucoseSvc.ListReadings(ctx, user.ID)
	if err != nil {
		logger.Errorf("Failed to list readings for user %d: %v", user.ID, err)
		return h.unknownEntry(chatID)
	}
	for _, r := range readings {
		if r.ID == id {
			h.startEdit(user, r.ID, r.Date, r.Time, state.WaitingForGlucose)
			msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
				"✏️ Correcting the reading from %s %s (currently %.0f mg/dL).\nEnter the new value, optionally with a note: \"112, before breakfast\"",
				r.Date, r.Time, r.Value))
			msg.ReplyMarkup = keyboards.BackToMenu()
			_, err := h.api.Send(msg)
			return err
		}
	}
	return h.unknownEntry(chatID)
}

func (h *CallbackHandler) handleEditFood(ctx context.Context, chatID int64, user *database.User, rawID string) error {
	id, err := parseEntryID(rawID)
	if err != nil {
		return h.unknownEntry(chatID)
	}
	entries, err := h.deps.FoodSvc.ListEntries(ctx, user.ID)
	if err != nil {
		logger.Errorf("Failed to list food entries for user %d: %v", user.ID, err)
		return h.unknownEntry(chatID)
	}
	for _, e := range entries {
		if e.ID == id {
			h.startEdit(user, e.ID, e.Date, e.Time, state.WaitingForFood)
			msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
				"✏️ Correcting %s from %s %s (currently %.1f g carbs, %.0f kcal, %.1f g sugars).\nEnter the replacement as \"item, carbs[, calories[, sugars]]\"",
				e.Item, e.Date, e.Time, e.Carbs, e.Calories, e.Sugars))
			msg.ReplyMarkup = keyboards.BackToMenu()
			_, err := h.api.Send(msg)
			return err
		}
	}
	return h.unknownEntry(chatID)
}

func (h *CallbackHandler) handleEditExercise(ctx context.Context, chatID int64, user *database.User, rawID string) error {
	id, err := parseEntryID(rawID)
	if err != nil {
		return h.unknownEntry(chatID)
	}
	entries, err := h.deps.ExerciseSvc.ListEntries(ctx, user.ID)
	if err != nil {
		logger.Errorf("Failed to list exercise entries for user %d: %v", user.ID, err)
		return h.unknownEntry(chatID)
	}
	for _, e := range entries {
		if e.ID == id {
			h.startEdit(user, e.ID, e.Date, e.Time, state.WaitingForExercise)
			msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
				"✏️ Correcting %s from %s %s (currently %.0f min).\nEnter the replacement as \"activity, minutes\"",
				e.ActivityType, e.Date, e.Time, e.Duration))
			msg.ReplyMarkup = keyboards.BackToMenu()
			_, err := h.api.Send(msg)
			return err
		}
	}
	return h.unknownEntry(chatID)
}

func (h *CallbackHandler) handleDeleteEntry(ctx context.Context, chatID int64, user *database.User, kind, rawID string) error {
	id, err := parseEntryID(rawID)
	if err != nil {
		return h.unknownEntry(chatID)
	}
	switch kind {
	case "glucose":
		err = h.deps.GlucoseSvc.DeleteReading(ctx, user.ID, id)
	case "food":
		err = h.deps.FoodSvc.DeleteEntry(ctx, user.ID, id)
	case "exercise":
		err = h.deps.ExerciseSvc.DeleteEntry(ctx, user.ID, id)
	}
	if err != nil {
		logger.Errorf("Failed to delete %s entry %d for user %d: %v", kind, id, user.ID, err)
		msg := tgbotapi.NewMessage(chatID, "Could not delete that entry. Please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	return h.handleEntries(ctx, chatID, user, kind)
}

func (h *CallbackHandler) handleAnalyses(ctx context.Context, chatID int64, user *database.User) error {
	analyses, err := h.deps.ImageAnalysisSvc.History(ctx, user.ID)
	if err != nil {
		logger.Errorf("Failed to load analysis history for user %d: %v", user.ID, err)
		msg := tgbotapi.NewMessage(chatID, "Something went wrong loading your analyses. Please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	return menus.SendAnalyses(h.api, chatID, analyses)
}

func (h *CallbackHandler) handleShowAnalysis(ctx context.Context, chatID int64, user *database.User, rawID string) error {
	id, err := parseEntryID(rawID)
	if err != nil {
		return h.unknownEntry(chatID)
	}
	analyses, err := h.deps.ImageAnalysisSvc.History(ctx, user.ID)
	if err != nil {
		logger.Errorf("Failed to load analysis history for user %d: %v", user.ID, err)
		return h.unknownEntry(chatID)
	}
	for i := range analyses {
		if analyses[i].ID == id {
			msg := tgbotapi.NewMessage(chatID, formatAnalysis(&analyses[i]))
			msg.ParseMode = "Markdown"
			msg.ReplyMarkup = keyboards.BackToMenu()
			if _, err := h.api.Send(msg); err != nil {
				msg.ParseMode = ""
				_, err = h.api.Send(msg)
				return err
			}
			return nil
		}
	}
	return h.unknownEntry(chatID)
}

func (h *CallbackHandler) handleDeleteAnalysis(ctx context.Context, chatID int64, user *database.User, rawID string) error {
	id, err := parseEntryID(rawID)
	if err != nil {
		return h.unknownEntry(chatID)
	}
	if err := h.deps.ImageAnalysisSvc.Delete(ctx, user.ID, id); err != nil {
		logger.Errorf("Failed to delete analysis %d for user %d: %v", id, user.ID, err)
		msg := tgbotapi.NewMessage(chatID, "Could not delete that analysis. Please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	return h.handleAnalyses(ctx, chatID, user)
}

func (h *CallbackHandler) unknownEntry(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "I couldn't find that entry anymore. It may have been removed.")
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := h.api.Send(msg)
	return err
}

func parseEntryID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}

func (h *CallbackHandler) handleAnalyzeFood(ctx context.Context, chatID int64, user *database.User) error {
	h.stateManager.SetUserState(user.TelegramID, state.AnalyzingFood)

	text := `📷 *Send a photo of your meal*

I'll identify the food items and estimate carbohydrates, sugars and
calories per item, with a note on how suitable each is for a diabetic.

💡 Photograph the whole plate in good light for the best result.`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleChat(ctx context.Context, chatID int64, user *database.User) error {
	h.stateManager.SetUserState(user.TelegramID, state.Chatting)

	fact := h.deps.ChatSvc.NutrientFact(ctx)
	text := fmt.Sprintf("💬 *Diet Assistant*\n\nAsk me anything about nutrition and diabetes-friendly eating.\n\n💡 *Did you know?* %s", fact)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.ChatMenu()
	_, err := h.api.Send(msg)
	return err
}

// handleListen synthesizes the assistant's last reply to speech.
func (h *CallbackHandler) handleListen(ctx context.Context, chatID int64, user *database.User) error {
	var last string
	for _, m := range h.deps.ChatSvc.History(user.ID) {
		if !m.FromUser {
			last = m.Text
		}
	}
	if last == "" {
		msg := tgbotapi.NewMessage(chatID, "Nothing to read out yet — ask me something first.")
		_, err := h.api.Send(msg)
		return err
	}
	if h.deps.TTS == nil {
		msg := tgbotapi.NewMessage(chatID, "Speech output is not available.")
		_, err := h.api.Send(msg)
		return err
	}

	working := tgbotapi.NewMessage(chatID, "🔊 Preparing audio...")
	sentMsg, err := h.api.Send(working)
	if err != nil {
		return fmt.Errorf("failed to send status message: %w", err)
	}

	audio, err := h.deps.TTS.Synthesize(ctx, last)
	if err != nil {
		logger.Errorf("TTS failed for user %d: %v", user.ID, err)
		msg := tgbotapi.NewMessage(chatID, "Sorry, I couldn't generate the audio. Please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	h.api.Send(tgbotapi.NewDeleteMessage(chatID, sentMsg.MessageID))

	audioMsg := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{Name: "reply.wav", Bytes: audio})
	audioMsg.Title = "Assistant reply"
	_, err = h.api.Send(audioMsg)
	return err
}

func (h *CallbackHandler) handleProfile(chatID int64, user *database.User) error {
	h.stateManager.SetUserState(user.TelegramID, state.WaitingForProfile)

	var current string
	if user.Age > 0 || user.DietaryRestrictions != "" || user.HealthGoal != "" {
		current = fmt.Sprintf("\n\nCurrent profile:\nAge: %d\nRestrictions: %s\nGoal: %s",
			user.Age, valueOr(user.DietaryRestrictions, "none"), valueOr(user.HealthGoal, "not set"))
	}

	msg := tgbotapi.NewMessage(chatID, "👤 Enter your profile as \"age, dietary restrictions, health goal\".\nExample: \"54, vegetarian, lower my average glucose\""+current)
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := h.api.Send(msg)
	return err
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
