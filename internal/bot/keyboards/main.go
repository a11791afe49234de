package keyboards

import (
	"fmt"

	"github.com/glucolog/glucolog/internal/analytics"
	"github.com/glucolog/glucolog/internal/database"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🩸 Log Glucose", "log_glucose"),
			tgbotapi.NewInlineKeyboardButtonData("🍽️ Log Food", "log_food"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏃 Log Exercise", "log_exercise"),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Goals", "goals"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Dashboard", "stats"),
			tgbotapi.NewInlineKeyboardButtonData("📈 History", "history"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📷 Analyze Food Photo", "analyze_food"),
			tgbotapi.NewInlineKeyboardButtonData("💬 Diet Assistant", "chat"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔎 Food Lookup", "food_lookup"),
			tgbotapi.NewInlineKeyboardButtonData("🛒 Meal Plan", "meal_plan"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Profile", "profile"),
		),
	)
}

// BackToMenu creates a single back-to-main-menu row
func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main Menu", "main_menu"),
		),
	)
}

// GoalsMenu lists one set-goal button per metric without an active goal and
// one delete button per active goal.
func GoalsMenu(goals []database.Goal) tgbotapi.InlineKeyboardMarkup {
	active := make(map[string]bool, len(goals))
	for _, g := range goals {
		active[g.MetricType] = true
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	// Fixed order keeps the menu stable between renders.
	order := []analytics.MetricType{
		analytics.MetricAvgGlucose,
		analytics.MetricDailyCarbs,
		analytics.MetricDailyCalories,
		analytics.MetricDailySugars,
		analytics.MetricWeeklyExercise,
	}
	for _, metric := range order {
		if active[string(metric)] {
			continue
		}
		info := analytics.Metrics[metric]
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+info.Title, "set_goal:"+string(metric)),
		))
	}
	for _, g := range goals {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ "+g.Title, fmt.Sprintf("delete_goal:%d", g.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main Menu", "main_menu"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ChatMenu creates the in-conversation keyboard for the diet assistant
func ChatMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔊 Listen", "tts_last"),
			tgbotapi.NewInlineKeyboardButtonData("🔄 New Conversation", "chat_reset"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main Menu", "main_menu"),
		),
	)
}

// HistoryMenu selects a chart series or an entry log to show
func HistoryMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🩸 Glucose", "series:glucose"),
			tgbotapi.NewInlineKeyboardButtonData("🍞 Carbs", "series:carbs"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔥 Calories", "series:calories"),
			tgbotapi.NewInlineKeyboardButtonData("🍬 Sugars", "series:sugars"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏃 Exercise", "series:exercise"),
			tgbotapi.NewInlineKeyboardButtonData("🗒️ Glucose Log", "entries:glucose"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽️ Food Log", "entries:food"),
			tgbotapi.NewInlineKeyboardButtonData("🏋️ Exercise Log", "entries:exercise"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🖼️ Photo Analyses", "analyses"),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main Menu", "main_menu"),
		),
	)
}

// entryRows builds one edit/delete button row per listed entry.
func entryRows(kind string, ids []uint, labels []string) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(ids)+2)
	for i, id := range ids {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✏️ %s", labels[i]), fmt.Sprintf("edit_%s:%d", kind, id)),
			tgbotapi.NewInlineKeyboardButtonData("🗑️", fmt.Sprintf("del_%s:%d", kind, id)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📈 History", "history"),
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main Menu", "main_menu"),
	))
	return rows
}

// GlucoseLogMenu lists recent readings with per-reading edit and delete.
func GlucoseLogMenu(readings []database.GlucoseReading) tgbotapi.InlineKeyboardMarkup {
	ids := make([]uint, len(readings))
	labels := make([]string, len(readings))
	for i, r := range readings {
		ids[i] = r.ID
		labels[i] = fmt.Sprintf("%s %.0f mg/dL", r.Date, r.Value)
	}
	return tgbotapi.NewInlineKeyboardMarkup(entryRows("glucose", ids, labels)...)
}

// FoodLogMenu lists recent meals with per-entry edit and delete.
func FoodLogMenu(entries []database.FoodEntry) tgbotapi.InlineKeyboardMarkup {
	ids := make([]uint, len(entries))
	labels := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		labels[i] = fmt.Sprintf("%s %s", e.Date, e.Item)
	}
	return tgbotapi.NewInlineKeyboardMarkup(entryRows("food", ids, labels)...)
}

// ExerciseLogMenu lists recent activities with per-entry edit and delete.
func ExerciseLogMenu(entries []database.ExerciseEntry) tgbotapi.InlineKeyboardMarkup {
	ids := make([]uint, len(entries))
	labels := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		labels[i] = fmt.Sprintf("%s %s", e.Date, e.ActivityType)
	}
	return tgbotapi.NewInlineKeyboardMarkup(entryRows("exercise", ids, labels)...)
}

// AnalysesMenu lists saved photo analyses with view and delete per analysis.
func AnalysesMenu(analyses []database.ImageAnalysis) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(analyses)+1)
	for _, a := range analyses {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 "+a.Title, fmt.Sprintf("show_analysis:%d", a.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑️", fmt.Sprintf("del_analysis:%d", a.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📈 History", "history"),
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main Menu", "main_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
