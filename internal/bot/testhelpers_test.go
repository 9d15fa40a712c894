package bot

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/akerbs/pocket-accountant-bot/internal/config"
	"github.com/akerbs/pocket-accountant-bot/internal/intent"
	"github.com/akerbs/pocket-accountant-bot/internal/models"
	"github.com/akerbs/pocket-accountant-bot/internal/service"
)

// In-memory fakes behind the controller interfaces so handler tests run
// without a database.

type fakeUsers struct {
	users map[int64]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]*models.User)}
}

func (f *fakeUsers) EnsureUser(_ context.Context, user *models.User) (*models.User, error) {
	if existing, ok := f.users[user.ID]; ok {
		return existing, nil
	}
	stored := *user
	if stored.Currency == "" {
		stored.Currency = models.DefaultCurrency
	}
	f.users[user.ID] = &stored
	return &stored, nil
}

type fakeCategories struct {
	nextID     int
	categories map[int]*models.Category
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{nextID: 1, categories: make(map[int]*models.Category)}
}

func (f *fakeCategories) add(userID int64, name, emoji string) *models.Category {
	category := &models.Category{ID: f.nextID, UserID: userID, Name: name, Emoji: emoji}
	f.categories[category.ID] = category
	f.nextID++
	return category
}

func (f *fakeCategories) EnsureDefaults(_ context.Context, userID int64) error {
	for _, c := range f.categories {
		if c.UserID == userID {
			return nil
		}
	}
	for _, d := range models.DefaultCategories {
		f.add(userID, d.Name, d.Emoji)
	}
	return nil
}

func (f *fakeCategories) List(_ context.Context, userID int64) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategories) GetByID(_ context.Context, userID int64, id int) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return c, nil
}

func (f *fakeCategories) FindOrCreate(_ context.Context, userID int64, name string) (*models.Category, error) {
	for _, c := range f.categories {
		if c.UserID == userID && strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return f.add(userID, name, "🧾"), nil
}

type fakePurchases struct {
	nextID    int
	purchases []*models.Purchase
	createErr error
}

func (f *fakePurchases) Create(_ context.Context, purchase *models.Purchase) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	purchase.ID = f.nextID
	if purchase.SpentAt.IsZero() {
		purchase.SpentAt = time.Now()
	}
	purchase.CreatedAt = time.Now()
	f.purchases = append(f.purchases, purchase)
	return nil
}

func (f *fakePurchases) DeleteAllByUser(_ context.Context, userID int64) (int, error) {
	var kept []*models.Purchase
	deleted := 0
	for _, p := range f.purchases {
		if p.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	f.purchases = kept
	return deleted, nil
}

type fakeLimits struct {
	upserts  []models.CategoryLimit
	active   []models.CategoryLimit
	statuses map[int]*service.LimitStatus
	notified map[int]bool
}

func newFakeLimits() *fakeLimits {
	return &fakeLimits{
		statuses: make(map[int]*service.LimitStatus),
		notified: make(map[int]bool),
	}
}

func (f *fakeLimits) Upsert(_ context.Context, userID int64, categoryID int, amount decimal.Decimal) (*models.CategoryLimit, error) {
	limit := models.CategoryLimit{UserID: userID, CategoryID: categoryID, Amount: amount}
	f.upserts = append(f.upserts, limit)
	return &limit, nil
}

func (f *fakeLimits) ListActive(_ context.Context, _ int64) ([]models.CategoryLimit, error) {
	return f.active, nil
}

func (f *fakeLimits) Status(_ context.Context, _ int64, categoryID int) (*service.LimitStatus, error) {
	if status, ok := f.statuses[categoryID]; ok {
		return status, nil
	}
	return &service.LimitStatus{}, nil
}

func (f *fakeLimits) NotifyIfNeeded(_ context.Context, _ int64, categoryID int, warn func(message string) error) error {
	status, ok := f.statuses[categoryID]
	if !ok || !status.Active || status.Coverage < status.Threshold || f.notified[categoryID] {
		return nil
	}
	if err := warn("⚠️ limit warning"); err != nil {
		return nil
	}
	f.notified[categoryID] = true
	return nil
}

type fakeStats struct {
	snapshot *service.Snapshot
}

func (f *fakeStats) Snapshot(_ context.Context, _ int64, currency string) (*service.Snapshot, error) {
	if f.snapshot != nil {
		return f.snapshot, nil
	}
	return &service.Snapshot{Currency: currency}, nil
}

// testBot bundles a Bot wired to fakes with handles on each fake.
type testBot struct {
	bot        *Bot
	users      *fakeUsers
	categories *fakeCategories
	purchases  *fakePurchases
	limits     *fakeLimits
	stats      *fakeStats
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	tb := &testBot{
		users:      newFakeUsers(),
		categories: newFakeCategories(),
		purchases:  &fakePurchases{},
		limits:     newFakeLimits(),
		stats:      &fakeStats{},
	}
	tb.bot = &Bot{
		cfg:        &config.Config{TelegramBotToken: "test-token", DefaultCurrency: models.DefaultCurrency},
		users:      tb.users,
		categories: tb.categories,
		purchases:  tb.purchases,
		limits:     tb.limits,
		stats:      tb.stats,
		advisor:    service.NewAdvisor(),
		intents:    intent.NewMemoryStore(),
		tracker:    NewMessageTracker(),
	}
	return tb
}

func mustDecimal(t require.TestingT, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
