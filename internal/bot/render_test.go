package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akerbs/pocket-accountant-bot/internal/models"
	"github.com/akerbs/pocket-accountant-bot/internal/service"
)

func TestRenderSummary(t *testing.T) {
	stats := &service.Snapshot{
		Today:    mustDecimal(t, "250"),
		Week:     mustDecimal(t, "1800.40"),
		Month:    mustDecimal(t, "7400"),
		Currency: "RUB",
	}

	out := renderSummary(stats)
	require.Contains(t, out, "Today: 250 RUB")
	require.Contains(t, out, "Week: 1800 RUB")
	require.Contains(t, out, "Month: 7400 RUB")
}

func TestRenderCategories(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := renderCategories(&service.Snapshot{Currency: "RUB"})
		require.Contains(t, out, "No categories yet")
	})

	t.Run("with limit badges", func(t *testing.T) {
		stats := &service.Snapshot{
			Currency: "RUB",
			Categories: []service.CategoryStat{
				{
					Name: "Groceries", Emoji: "🥗",
					Total: mustDecimal(t, "16000"), Share: 0.6,
					Limit: &service.LimitStatus{
						Active:   true,
						Spent:    mustDecimal(t, "16000"),
						Amount:   mustDecimal(t, "15000"),
						Coverage: 1.07,
						Exceeded: true,
					},
				},
				{
					Name: "Coffee & Bars", Emoji: "☕️",
					Total: mustDecimal(t, "2400"), Share: 0.1,
				},
			},
		}

		out := renderCategories(stats)
		require.Contains(t, out, "🚨")
		require.Contains(t, out, "16000 / 15000")
		require.Contains(t, out, "Coffee & Bars: 2400 RUB")
	})
}

func TestRenderRecent(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := renderRecent(&service.Snapshot{Currency: "RUB"})
		require.Contains(t, out, "No operations yet")
	})

	t.Run("formats entries", func(t *testing.T) {
		spentAt := time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC)
		stats := &service.Snapshot{
			Currency: "RUB",
			Recent: []service.RecentPurchase{
				{Amount: mustDecimal(t, "250"), Note: "Latte", CategoryName: "Coffee & Bars", Emoji: "☕️", SpentAt: spentAt},
				{Amount: mustDecimal(t, "45"), CategoryName: "Transport", Emoji: "🚌", SpentAt: spentAt},
			},
		}

		out := renderRecent(stats)
		require.Contains(t, out, "12.08 09:30")
		require.Contains(t, out, "250 RUB — Latte")
		require.Contains(t, out, "45 RUB")
		require.NotContains(t, out, "45 RUB —")
	})
}

func TestRenderLimitLines(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := renderLimitLines(nil, nil, "RUB")
		require.Contains(t, out, "No limits set yet")
	})

	t.Run("badges reflect coverage", func(t *testing.T) {
		category := &models.Category{ID: 1, Name: "Groceries", Emoji: "🥗"}
		limits := []models.CategoryLimit{
			{CategoryID: 1, Amount: mustDecimal(t, "15000"), Category: category},
		}
		statuses := map[int]*service.LimitStatus{
			1: {
				Active:       true,
				CategoryName: "Groceries",
				Emoji:        "🥗",
				Spent:        mustDecimal(t, "12000"),
				Amount:       mustDecimal(t, "15000"),
				Coverage:     0.8,
				Threshold:    0.75,
			},
		}

		out := renderLimitLines(limits, statuses, "RUB")
		require.Contains(t, out, "⚠️")
		require.Contains(t, out, "12000 / 15000 RUB")
	})
}

func TestProgressBar(t *testing.T) {
	require.Equal(t, strings.Repeat("▱", progressBarLength), progressBar(0))
	require.Equal(t, strings.Repeat("▰", progressBarLength), progressBar(1))
	require.Equal(t, strings.Repeat("▰", progressBarLength), progressBar(2.5), "overshoot clamps to full")
	require.Equal(t, strings.Repeat("▱", progressBarLength), progressBar(-1), "negative clamps to empty")

	half := progressBar(0.5)
	require.Equal(t, progressBarLength, len([]rune(half)))
	require.Equal(t, strings.Repeat("▰", 6)+strings.Repeat("▱", 6), half)
}
