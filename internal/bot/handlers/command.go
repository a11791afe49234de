package handlers

import (
	"context"

	"github.com/glucolog/glucolog/internal/bot/menus"
	"github.com/glucolog/glucolog/internal/bot/state"
	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          *tgbotapi.BotAPI
	stateManager state.StateManager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api *tgbotapi.BotAPI, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		stateManager: stateManager,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	logger.Infof("Handling command %s from user %d", message.Command(), user.ID)

	switch message.Command() {
	case "start":
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return menus.SendMainMenu(h.api, message.Chat.ID)
	case "cancel":
		h.stateManager.SetUserState(user.TelegramID, state.None)
		h.stateManager.ClearTempData(user.TelegramID)
		return menus.SendMainMenu(h.api, message.Chat.ID)
	case "help":
		return h.handleHelp(message.Chat.ID)
	default:
		return h.handleUnknownCommand(message.Chat.ID)
	}
}

// handleHelp handles the /help command
func (h *CommandHandler) handleHelp(chatID int64) error {
	text := `Available commands:
/start - Show the main menu
/cancel - Abandon the current action
/help - Show this message

Logging entries:
🩸 Glucose: send the reading in mg/dL, e.g. "112"
🍽️ Food: "item, carbs" with optional calories and sugars, e.g. "Oatmeal, 40, 300, 5"
🏃 Exercise: "activity, minutes", e.g. "Walking, 45"

📈 Under History you can open your entry logs to correct (✏️) or
remove (🗑️) anything you logged, and revisit saved photo analyses.

📷 In photo analysis mode, send a picture of your meal and I'll break down
its nutrition and how suitable it is for a diabetic.

🔎 Food Lookup shows the per-100g nutrition of any food you name.
🛒 Meal Plan builds a multi-day plan with a grocery list from your request.

💬 In assistant mode, ask any diet or nutrition question. Use the Listen
button to hear the last answer.`

	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Unknown command. Use /help to see what I can do.")
	_, err := h.api.Send(msg)
	return err
}
