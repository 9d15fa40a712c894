package bot

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akerbs/pocket-accountant-bot/internal/models"
	"github.com/akerbs/pocket-accountant-bot/internal/service"
)

// progressBarLength is the width of the text progress bar, in cells.
const progressBarLength = 12

// renderSummary renders the today/week/month header of the stats message.
func renderSummary(stats *service.Snapshot) string {
	return strings.Join([]string{
		"*📊 Quick overview*",
		"Today: " + money(stats.Today, stats.Currency),
		"Week: " + money(stats.Week, stats.Currency),
		"Month: " + money(stats.Month, stats.Currency),
	}, "\n")
}

// renderCategories renders the month's category breakdown with share bars
// and limit badges.
func renderCategories(stats *service.Snapshot) string {
	if len(stats.Categories) == 0 {
		return "No categories yet — log your first purchase."
	}

	lines := []string{"*💡 Categories this month*"}
	for _, cat := range stats.Categories {
		bar := progressBar(cat.Share)

		badge := ""
		limitLine := ""
		if cat.Limit != nil {
			switch {
			case cat.Limit.Exceeded:
				badge = " 🚨"
			case cat.Limit.Coverage > 0.85:
				badge = " ⚠️"
			default:
				badge = " 🎯"
			}
			limitLine = fmt.Sprintf(" — %s / %s",
				cat.Limit.Spent.StringFixed(0), cat.Limit.Amount.StringFixed(0))
		}

		lines = append(lines, fmt.Sprintf("%s %s: %s%s\n%s%s",
			emojiOrDefault(cat.Emoji), cat.Name, money(cat.Total, stats.Currency),
			limitLine, bar, badge))
	}
	return strings.Join(lines, "\n")
}

// renderRecent renders the latest-operations section.
func renderRecent(stats *service.Snapshot) string {
	if len(stats.Recent) == 0 {
		return "No operations yet. Tap \"" + addExpenseButton + "\"."
	}

	lines := []string{"*🧾 Recent operations*"}
	for _, item := range stats.Recent {
		note := ""
		if item.Note != "" {
			note = " — " + item.Note
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s%s",
			emojiOrDefault(item.Emoji),
			item.SpentAt.Format("02.01 15:04"),
			money(item.Amount, stats.Currency),
			note))
	}
	return strings.Join(lines, "\n")
}

// renderLimitLines renders the current limit statuses shown above the limit
// category picker.
func renderLimitLines(limits []models.CategoryLimit, statuses map[int]*service.LimitStatus, currency string) string {
	if len(limits) == 0 {
		return "No limits set yet."
	}

	var blocks []string
	for _, limit := range limits {
		status := statuses[limit.CategoryID]
		if status == nil || !status.Active {
			blocks = append(blocks, fmt.Sprintf("%s %s: %s %s",
				emojiOrDefault(limit.Category.Emoji), limit.Category.Name,
				limit.Amount.StringFixed(0), currency))
			continue
		}

		badge := "🎯"
		switch {
		case status.Exceeded:
			badge = "🚨"
		case status.Coverage >= status.Threshold:
			badge = "⚠️"
		}

		blocks = append(blocks, fmt.Sprintf("%s %s %s: %s / %s %s\n%s",
			badge, emojiOrDefault(status.Emoji), status.CategoryName,
			status.Spent.StringFixed(0), status.Amount.StringFixed(0), currency,
			progressBar(status.Coverage)))
	}
	return strings.Join(blocks, "\n\n")
}

// progressBar renders a coverage ratio as a fixed-width bar, clamped to
// [0, 1].
func progressBar(value float64) string {
	clamped := math.Min(math.Max(value, 0), 1)
	filled := int(math.Round(clamped * progressBarLength))
	return strings.Repeat("▰", filled) + strings.Repeat("▱", progressBarLength-filled)
}

func money(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(0) + " " + currency
}
