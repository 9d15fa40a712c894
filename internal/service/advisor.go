package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Advisor heuristics. Thresholds tuned by eye, not science.
const (
	advisorMaxTips         = 3
	advisorTopShare        = 0.45
	advisorWarnCoverage    = 0.75
	advisorTailShare       = 0.05
	advisorIdleDays        = 3
	advisorWeekMonthFactor = 0.5
)

// Advisor derives budgeting tips from a stats snapshot.
type Advisor struct {
	now func() time.Time
}

// NewAdvisor creates an Advisor.
func NewAdvisor() *Advisor {
	return &Advisor{now: time.Now}
}

// Tips returns up to three heuristic tips for the snapshot. The last
// purchase time may be zero when the user has no history.
func (a *Advisor) Tips(stats *Snapshot, lastPurchase time.Time) []string {
	var tips []string

	if len(stats.Categories) > 0 {
		top := stats.Categories[0]

		if top.Share > advisorTopShare {
			tips = append(tips, fmt.Sprintf(
				"%s Category *%s* eats %.0f%% of your budget. Consider a soft limit or a daily checklist.",
				emojiOr(top.Emoji, "📌"), top.Name, top.Share*100,
			))
		}

		switch {
		case top.Limit != nil && top.Limit.Exceeded:
			tips = append(tips, fmt.Sprintf(
				"🚨 The limit for *%s* is exceeded. Lock in the essentials and push the rest to next month.",
				top.Name,
			))
		case top.Limit != nil && top.Limit.Coverage > advisorWarnCoverage:
			tips = append(tips, fmt.Sprintf(
				"⚠️ Only %.0f%% left until the *%s* limit. Check your subscriptions and auto-payments.",
				100-top.Limit.Coverage*100, top.Name,
			))
		}
	}

	if stats.Week.GreaterThan(stats.Month.Mul(decimal.NewFromFloat(advisorWeekMonthFactor))) {
		tips = append(tips, "📈 This week's spending is catching up with the month. Try a savings week with hard limits.")
	}

	if len(stats.Categories) >= 3 {
		tail := stats.Categories[len(stats.Categories)-2:]
		if tail[0].Share < advisorTailShare && tail[1].Share < advisorTailShare {
			tips = append(tips, "🧺 You have tiny categories under 5%. Merge them into \"Other\" to focus on the big ones.")
		}
	}

	if !lastPurchase.IsZero() {
		if a.now().Sub(lastPurchase) >= advisorIdleDays*24*time.Hour {
			tips = append(tips, "⏱ A few days without entries. Log your receipts before the context is gone.")
		}
	}

	if len(tips) == 0 {
		tips = append(tips, "✨ Your balance looks steady. Keep logging expenses at the same pace.")
	}

	if len(tips) > advisorMaxTips {
		tips = tips[:advisorMaxTips]
	}
	return tips
}

func emojiOr(emoji, fallback string) string {
	if emoji == "" {
		return fallback
	}
	return emoji
}
