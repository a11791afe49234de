package keyboards

import (
	"testing"

	"github.com/glucolog/glucolog/internal/database"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"
)

func callbackData(markup tgbotapi.InlineKeyboardMarkup) []string {
	var data []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				data = append(data, *btn.CallbackData)
			}
		}
	}
	return data
}

func assertHasCallbacks(t *testing.T, markup tgbotapi.InlineKeyboardMarkup, want ...string) {
	t.Helper()
	have := make(map[string]bool)
	for _, d := range callbackData(markup) {
		have[d] = true
	}
	for _, w := range want {
		if !have[w] {
			t.Errorf("keyboard missing callback %q, have %v", w, callbackData(markup))
		}
	}
}

func TestMainMenuActions(t *testing.T) {
	assertHasCallbacks(t, MainMenu(),
		"log_glucose", "log_food", "log_exercise", "goals", "stats", "history",
		"analyze_food", "chat", "food_lookup", "meal_plan", "profile")
}

func TestHistoryMenuActions(t *testing.T) {
	assertHasCallbacks(t, HistoryMenu(),
		"series:glucose", "series:carbs", "series:calories", "series:sugars", "series:exercise",
		"entries:glucose", "entries:food", "entries:exercise", "analyses", "main_menu")
}

func TestGlucoseLogMenu(t *testing.T) {
	readings := []database.GlucoseReading{
		{Model: gorm.Model{ID: 11}, Value: 112, Date: "2025-06-15"},
		{Model: gorm.Model{ID: 12}, Value: 98, Date: "2025-06-14"},
	}
	assertHasCallbacks(t, GlucoseLogMenu(readings),
		"edit_glucose:11", "del_glucose:11", "edit_glucose:12", "del_glucose:12", "history", "main_menu")
}

func TestFoodLogMenu(t *testing.T) {
	entries := []database.FoodEntry{
		{Model: gorm.Model{ID: 21}, Item: "Oatmeal", Date: "2025-06-15"},
	}
	assertHasCallbacks(t, FoodLogMenu(entries),
		"edit_food:21", "del_food:21", "history", "main_menu")
}

func TestExerciseLogMenu(t *testing.T) {
	entries := []database.ExerciseEntry{
		{Model: gorm.Model{ID: 31}, ActivityType: "Walking", Date: "2025-06-15"},
	}
	assertHasCallbacks(t, ExerciseLogMenu(entries),
		"edit_exercise:31", "del_exercise:31", "history", "main_menu")
}

func TestAnalysesMenu(t *testing.T) {
	analyses := []database.ImageAnalysis{
		{Model: gorm.Model{ID: 41}, Title: "Grilled chicken"},
	}
	assertHasCallbacks(t, AnalysesMenu(analyses),
		"show_analysis:41", "del_analysis:41", "history", "main_menu")
}

func TestEmptyLogMenusKeepNavigation(t *testing.T) {
	assertHasCallbacks(t, GlucoseLogMenu(nil), "history", "main_menu")
	assertHasCallbacks(t, AnalysesMenu(nil), "history", "main_menu")
}
