// Package models defines the domain entities for the pocket accountant.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assigned to users who never picked one.
const DefaultCurrency = "RUB"

// LimitPeriodMonth is the only limit period the bot supports.
const LimitPeriodMonth = "month"

// DefaultLimitThreshold is the coverage percentage above which a limit
// warning fires.
const DefaultLimitThreshold = 75

// User represents a Telegram user. ID is the Telegram user ID.
type User struct {
	ID        int64
	Username  string
	FirstName string
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category is a per-user spending category.
type Category struct {
	ID        int
	UserID    int64
	Name      string
	Emoji     string
	CreatedAt time.Time
}

// Purchase is a single logged expense.
type Purchase struct {
	ID         int
	UserID     int64
	CategoryID int
	Amount     decimal.Decimal
	Note       string
	Category   *Category
	SpentAt    time.Time
	CreatedAt  time.Time
}

// CategoryLimit is a monthly spending cap for one category.
type CategoryLimit struct {
	ID             int
	UserID         int64
	CategoryID     int
	Amount         decimal.Decimal
	Period         string
	PeriodStart    time.Time
	Threshold      int
	LastNotifiedAt *time.Time
	Category       *Category
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DefaultCategory describes one entry of the seed set every user receives.
type DefaultCategory struct {
	Name  string
	Emoji string
}

// DefaultCategories is seeded per user on first contact.
var DefaultCategories = []DefaultCategory{
	{Name: "Groceries", Emoji: "🥗"},
	{Name: "Coffee & Bars", Emoji: "☕️"},
	{Name: "Transport", Emoji: "🚌"},
	{Name: "Home", Emoji: "🏠"},
	{Name: "Health", Emoji: "💊"},
	{Name: "Education", Emoji: "📚"},
	{Name: "Entertainment", Emoji: "🎮"},
	{Name: "Travel", Emoji: "✈️"},
	{Name: "Gifts", Emoji: "🎁"},
	{Name: "Other", Emoji: "🧩"},
}
