package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/glucolog/glucolog/internal/bot/keyboards"
	"github.com/glucolog/glucolog/internal/bot/state"
	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// PhotoHandler handles photo messages
type PhotoHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *PhotoHandler {
	return &PhotoHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a photo message
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	userState := h.stateManager.GetUserState(user.TelegramID)

	switch userState {
	case state.AnalyzingFood:
		return h.handleAnalysis(ctx, message, user)
	case state.Chatting:
		return h.handleChatPhoto(ctx, message, user)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Please press '📷 Analyze Food Photo' in the menu first, then send the picture.")
		msg.ReplyMarkup = keyboards.MainMenu()
		_, err := h.api.Send(msg)
		return err
	}
}

func (h *PhotoHandler) handleAnalysis(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	image, err := h.downloadPhoto(ctx, message)
	if err != nil {
		logger.Errorf("Failed to download photo from user %d: %v", user.ID, err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "I couldn't download that photo. Please try sending it again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	processingMsg := tgbotapi.NewMessage(message.Chat.ID, "🔍 Analyzing your meal...")
	sentMsg, err := h.api.Send(processingMsg)
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}

	logger.Infof("Starting food photo analysis for user %d", user.ID)
	analysis, err := h.deps.ImageAnalysisSvc.Analyze(ctx, user.ID, image)

	h.api.Send(tgbotapi.NewDeleteMessage(message.Chat.ID, sentMsg.MessageID))

	if err != nil {
		logger.Errorf("Photo analysis failed for user %d: %v", user.ID, err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Sorry, something went wrong analyzing the image. Please try again in a few minutes.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	if len(analysis.FoodItems) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "I couldn't find any food in that picture. Please send a photo of a meal.")
		msg.ReplyMarkup = keyboards.BackToMenu()
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	resultText := formatAnalysis(analysis)

	photo := message.Photo[len(message.Photo)-1]
	photoMsg := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FileID(photo.FileID))
	photoMsg.Caption = resultText
	photoMsg.ParseMode = "Markdown"
	photoMsg.ReplyMarkup = keyboards.BackToMenu()

	if _, err := h.api.Send(photoMsg); err != nil {
		// If Markdown parsing fails, try sending without Markdown
		photoMsg.ParseMode = ""
		if _, err := h.api.Send(photoMsg); err != nil {
			return fmt.Errorf("failed to send analysis result: %w", err)
		}
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)
	return nil
}

func (h *PhotoHandler) handleChatPhoto(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	image, err := h.downloadPhoto(ctx, message)
	if err != nil {
		logger.Errorf("Failed to download photo from user %d: %v", user.ID, err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "I couldn't download that photo. Please try sending it again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	prompt := message.Caption
	if prompt == "" {
		prompt = "What can you tell me about this food from a diabetic's perspective?"
	}

	reply, err := h.deps.ChatSvc.SendMessage(ctx, user, prompt, image)
	if err != nil {
		logger.Errorf("Chat photo failed for user %d: %v", user.ID, err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Sorry, I couldn't look at that right now. Please try again in a moment.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, reply)
	msg.ReplyMarkup = keyboards.ChatMenu()
	_, err = h.api.Send(msg)
	return err
}

// downloadPhoto fetches the bytes of the largest size of the photo.
func (h *PhotoHandler) downloadPhoto(ctx context.Context, message *tgbotapi.Message) ([]byte, error) {
	photo := message.Photo[len(message.Photo)-1]
	file, err := h.api.GetFile(tgbotapi.FileConfig{FileID: photo.FileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(h.api.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// formatAnalysis renders an analysis as a Telegram caption. Captions cap at
// 1024 characters, so long item lists are truncated.
func formatAnalysis(analysis *database.ImageAnalysis) string {
	var b strings.Builder
	b.WriteString("🍽️ *Meal Analysis*\n")

	for _, item := range analysis.FoodItems {
		name := item.Name
		if item.LocalName != "" && item.LocalName != item.Name {
			name = fmt.Sprintf("%s (%s)", item.Name, item.LocalName)
		}
		b.WriteString(fmt.Sprintf("\n*%s*\n", name))
		b.WriteString(fmt.Sprintf("🍞 %.1f g carbs  🍬 %.1f g sugars  🔥 %.0f kcal\n",
			item.CarbohydratesG, item.SugarsG, item.CaloriesKcal))
		if item.Suitability != "" {
			b.WriteString(fmt.Sprintf("💡 %s", item.Suitability))
			if item.Recommendation != "" {
				b.WriteString(" — " + item.Recommendation)
			}
			b.WriteString("\n")
		}
	}
	if analysis.OverallSummary != "" {
		b.WriteString("\n📋 " + analysis.OverallSummary)
	}

	text := b.String()
	const maxCaptionLength = 1000
	if len(text) > maxCaptionLength {
		text = text[:maxCaptionLength-3] + "..."
	}
	return strings.ToValidUTF8(text, "")
}
