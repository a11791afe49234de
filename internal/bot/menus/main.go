package menus

import (
	"fmt"
	"strings"

	"github.com/glucolog/glucolog/internal/ai"
	"github.com/glucolog/glucolog/internal/analytics"
	"github.com/glucolog/glucolog/internal/bot/keyboards"
	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api *tgbotapi.BotAPI, chatID int64) error {
	text := `🤖 *GlucoLog* — your diabetes & nutrition companion

🩸 Track glucose, meals and exercise
🎯 Set targets and follow your progress
📷 Send a food photo for a nutrition breakdown
💬 Ask the diet assistant anything

⚠️ *Important:* this is reference information, always consult your doctor!

Choose an action:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendDashboard renders the at-a-glance stats summary
func SendDashboard(api *tgbotapi.BotAPI, chatID int64, d *services.Dashboard) error {
	var b strings.Builder
	b.WriteString("📊 *Your Dashboard*\n\n")

	if d.LatestGlucose != nil {
		b.WriteString(fmt.Sprintf("🩸 *Latest glucose:* %.0f mg/dL (%s %s)\n",
			d.LatestGlucose.Value, d.LatestGlucose.Date, d.LatestGlucose.Time))
	} else {
		b.WriteString("🩸 *Latest glucose:* no readings yet\n")
	}
	if d.AvgGlucose7d > 0 {
		b.WriteString(fmt.Sprintf("📉 *7-day average:* %.1f mg/dL\n", d.AvgGlucose7d))
	}
	b.WriteString(fmt.Sprintf("\n🍞 *Carbs today:* %.1f g\n", d.TodayCarbs))
	b.WriteString(fmt.Sprintf("🔥 *Calories today:* %.0f kcal\n", d.TodayCalories))
	b.WriteString(fmt.Sprintf("🍬 *Sugars today:* %.1f g\n", d.TodaySugars))
	b.WriteString(fmt.Sprintf("🏃 *Exercise this week:* %.0f min\n", d.WeeklyExerciseMin))

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := api.Send(msg)
	return err
}

// SendGoals renders every goal with its progress bar and the goals keyboard
func SendGoals(api *tgbotapi.BotAPI, chatID int64, progress []services.GoalProgress) error {
	var b strings.Builder
	if len(progress) == 0 {
		b.WriteString("🎯 You have no goals yet. Pick a metric to set a target:")
	} else {
		b.WriteString("🎯 *Your Goals*\n\n")
		for _, p := range progress {
			b.WriteString(fmt.Sprintf("%s %s\n", statusIcon(p.Progress.Status), p.Goal.Title))
			b.WriteString(fmt.Sprintf("   %.1f / %.1f %s  —  %s\n",
				p.Progress.Current, p.Progress.Target, p.Goal.Unit, progressBar(p.Progress.Percent)))
		}
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.GoalsMenu(goalsOf(progress))
	_, err := api.Send(msg)
	return err
}

// SendSeries renders a day-bucketed chart as a text sparkline list
func SendSeries(api *tgbotapi.BotAPI, chatID int64, title, unit string, points []analytics.Point) error {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 *%s*\n\n", title))
	if len(points) == 0 {
		b.WriteString("No data recorded yet.")
	} else {
		// Show the most recent 14 buckets.
		start := 0
		if len(points) > 14 {
			start = len(points) - 14
		}
		max := points[start].Value
		for _, p := range points[start:] {
			if p.Value > max {
				max = p.Value
			}
		}
		for _, p := range points[start:] {
			b.WriteString(fmt.Sprintf("`%s` %s %.1f %s\n", p.Date, bar(p.Value, max), p.Value, unit))
		}
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.HistoryMenu()
	_, err := api.Send(msg)
	return err
}

// Entry logs show the most recent entries only; older ones stay reachable
// through the charts.
const logPageSize = 5

// SendGlucoseLog lists recent readings with edit/delete buttons
func SendGlucoseLog(api *tgbotapi.BotAPI, chatID int64, readings []database.GlucoseReading) error {
	if len(readings) > logPageSize {
		readings = readings[:logPageSize]
	}
	var b strings.Builder
	if len(readings) == 0 {
		b.WriteString("🗒️ No glucose readings logged yet.")
	} else {
		b.WriteString("🗒️ *Recent Glucose Readings*\n\n")
		for _, r := range readings {
			b.WriteString(fmt.Sprintf("`%s %s` — %.0f mg/dL", r.Date, r.Time, r.Value))
			if r.Notes != "" {
				b.WriteString(" · " + r.Notes)
			}
			b.WriteString("\n")
		}
		b.WriteString("\nTap ✏️ to correct an entry or 🗑️ to remove it.")
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.GlucoseLogMenu(readings)
	_, err := api.Send(msg)
	return err
}

// SendFoodLog lists recent meals with edit/delete buttons
func SendFoodLog(api *tgbotapi.BotAPI, chatID int64, entries []database.FoodEntry) error {
	if len(entries) > logPageSize {
		entries = entries[:logPageSize]
	}
	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString("🗒️ No meals logged yet.")
	} else {
		b.WriteString("🗒️ *Recent Meals*\n\n")
		for _, e := range entries {
			b.WriteString(fmt.Sprintf("`%s %s` — %s: %.1f g carbs, %.0f kcal, %.1f g sugars\n",
				e.Date, e.Time, e.Item, e.Carbs, e.Calories, e.Sugars))
		}
		b.WriteString("\nTap ✏️ to correct an entry or 🗑️ to remove it.")
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.FoodLogMenu(entries)
	_, err := api.Send(msg)
	return err
}

// SendExerciseLog lists recent activities with edit/delete buttons
func SendExerciseLog(api *tgbotapi.BotAPI, chatID int64, entries []database.ExerciseEntry) error {
	if len(entries) > logPageSize {
		entries = entries[:logPageSize]
	}
	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString("🗒️ No activities logged yet.")
	} else {
		b.WriteString("🗒️ *Recent Activities*\n\n")
		for _, e := range entries {
			b.WriteString(fmt.Sprintf("`%s %s` — %s, %.0f min\n", e.Date, e.Time, e.ActivityType, e.Duration))
		}
		b.WriteString("\nTap ✏️ to correct an entry or 🗑️ to remove it.")
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.ExerciseLogMenu(entries)
	_, err := api.Send(msg)
	return err
}

// SendAnalyses lists saved photo analyses
func SendAnalyses(api *tgbotapi.BotAPI, chatID int64, analyses []database.ImageAnalysis) error {
	if len(analyses) > logPageSize {
		analyses = analyses[:logPageSize]
	}
	var b strings.Builder
	if len(analyses) == 0 {
		b.WriteString("🖼️ No photo analyses saved yet. Send a meal photo via '📷 Analyze Food Photo'.")
	} else {
		b.WriteString("🖼️ *Saved Photo Analyses*\n\n")
		for _, a := range analyses {
			b.WriteString(fmt.Sprintf("`%s` — %s (%d items)\n",
				a.CreatedAt.Format("2006-01-02"), a.Title, len(a.FoodItems)))
		}
		b.WriteString("\nTap 📄 to view an analysis or 🗑️ to remove it.")
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.AnalysesMenu(analyses)
	_, err := api.Send(msg)
	return err
}

// SendNutrition renders a per-100g nutrition card
func SendNutrition(api *tgbotapi.BotAPI, chatID int64, info *ai.NutritionInfo) error {
	serving := info.ServingSize
	if serving == "" {
		serving = "100g"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔎 *%s* (per %s)\n\n", info.FoodName, serving))
	rows := []struct{ icon, label, value string }{
		{"🔥", "Calories", info.Calories},
		{"🥩", "Protein", info.Protein},
		{"🍞", "Carbohydrates", info.Carbohydrates},
		{"🍬", "Sugar", info.Sugar},
		{"🧈", "Fat", info.Fat},
		{"🌾", "Fiber", info.Fiber},
	}
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", r.icon, r.label, r.value))
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := api.Send(msg)
	return err
}

// SendMealPlan renders a generated plan followed by its grocery list.
// Telegram messages cap at 4096 characters, so long plans are truncated.
func SendMealPlan(api *tgbotapi.BotAPI, chatID int64, plan *ai.MealPlan) error {
	var b strings.Builder
	b.WriteString("🛒 *Your Meal Plan*\n")
	for _, day := range plan.Days {
		b.WriteString(fmt.Sprintf("\n📅 *%s*\n", day.Day))
		for _, meal := range day.Meals {
			b.WriteString(fmt.Sprintf("\n*%s:* %s\n", meal.MealType, meal.DishName))
			if len(meal.Ingredients) > 0 {
				b.WriteString("• " + strings.Join(meal.Ingredients, "\n• ") + "\n")
			}
			if meal.Instructions != "" {
				b.WriteString(meal.Instructions + "\n")
			}
		}
	}
	if len(plan.Grocery) > 0 {
		b.WriteString("\n🛍️ *Grocery List*\n")
		for _, cat := range plan.Grocery {
			b.WriteString(fmt.Sprintf("\n*%s:* %s\n", cat.Category, strings.Join(cat.Items, ", ")))
		}
	}

	text := b.String()
	const maxMessageLength = 4000
	if len(text) > maxMessageLength {
		text = strings.ToValidUTF8(text[:maxMessageLength-3], "") + "..."
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMenu()
	if _, err := api.Send(msg); err != nil {
		// Model output can break Markdown parsing; retry as plain text.
		msg.ParseMode = ""
		_, err = api.Send(msg)
		return err
	}
	return nil
}

func statusIcon(status analytics.Status) string {
	switch status {
	case analytics.StatusAchieved:
		return "✅"
	case analytics.StatusExceeded:
		return "❗"
	default:
		return "⏳"
	}
}

func progressBar(percent float64) string {
	const width = 10
	filled := int(percent / 100 * width)
	if filled > width {
		filled = width
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled) + fmt.Sprintf(" %.0f%%", percent)
}

func bar(value, max float64) string {
	const width = 8
	if max <= 0 {
		return strings.Repeat("▫", width)
	}
	filled := int(value / max * width)
	if filled < 1 && value > 0 {
		filled = 1
	}
	return strings.Repeat("▪", filled) + strings.Repeat("▫", width-filled)
}

func goalsOf(progress []services.GoalProgress) []database.Goal {
	goals := make([]database.Goal, len(progress))
	for i, p := range progress {
		goals[i] = p.Goal
	}
	return goals
}
