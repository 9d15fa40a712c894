package bot

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	appmodels "github.com/akerbs/pocket-accountant-bot/internal/models"
)

// Main menu button labels. Registered as exact-match text handlers, so the
// labels double as the conversation's command vocabulary.
const (
	restartButton    = "🔄 Restart"
	addExpenseButton = "➕ Add expense"
	statsButton      = "📊 Statistics"
	limitsButton     = "🎯 Limits"
	adviceButton     = "🧠 Tips"
	resetStatsButton = "🗑 Reset statistics"
)

// Callback data prefixes and values.
const (
	selectCategoryPrefix      = "select_category:"
	selectLimitCategoryPrefix = "select_limit_category:"
	resetStatsConfirmCallback = "reset_stats_confirm"
	resetStatsCancelCallback  = "reset_stats_cancel"
)

// categoryButtonsPerRow keeps inline keyboards compact on narrow screens.
const categoryButtonsPerRow = 2

// mainKeyboard returns the persistent reply keyboard attached to every reply.
func mainKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: restartButton}},
			{{Text: addExpenseButton}, {Text: statsButton}},
			{{Text: limitsButton}, {Text: adviceButton}},
			{{Text: resetStatsButton}},
		},
		ResizeKeyboard: true,
		IsPersistent:   true,
	}
}

// categoryKeyboard builds an inline keyboard of category buttons with the
// given callback prefix, two per row.
func categoryKeyboard(categories []appmodels.Category, prefix string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton

	for _, cat := range categories {
		row = append(row, models.InlineKeyboardButton{
			Text:         fmt.Sprintf("%s %s", emojiOrDefault(cat.Emoji), cat.Name),
			CallbackData: fmt.Sprintf("%s%d", prefix, cat.ID),
		})
		if len(row) == categoryButtonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// resetConfirmKeyboard builds the confirm/cancel keyboard for the
// reset-statistics prompt.
func resetConfirmKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "✅ Yes, reset", CallbackData: resetStatsConfirmCallback}},
			{{Text: "❌ Cancel", CallbackData: resetStatsCancelCallback}},
		},
	}
}

func emojiOrDefault(emoji string) string {
	if emoji == "" {
		return "🧾"
	}
	return emoji
}
