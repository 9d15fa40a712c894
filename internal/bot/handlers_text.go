package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgmodels "github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/akerbs/pocket-accountant-bot/internal/intent"
	"github.com/akerbs/pocket-accountant-bot/internal/models"
)

// handleTextCore routes free text through the pending-intent state machine.
// Text that arrives with no pending intent gets a gentle hint.
func (b *Bot) handleTextCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	if update.Message == nil || update.Message.Text == "" {
		return nil
	}
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	b.trackIncoming(update)

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}
	key := userKey(user.ID)

	pending, ok := b.intents.Get(key)
	if !ok {
		return b.reply(ctx, tg, chatID,
			"I didn't get that. Use the buttons below, or send a purchase like `650; Groceries`.")
	}

	switch pending.Kind {
	case intent.KindAddPurchase:
		return b.processPurchaseLine(ctx, tg, user, chatID, text)
	case intent.KindAddPurchaseNote:
		return b.processPurchaseNote(ctx, tg, user, chatID, pending, text)
	case intent.KindAddPurchaseAmount:
		return b.processPurchaseAmount(ctx, tg, user, chatID, pending, text)
	case intent.KindSetLimit:
		return b.processLimitLine(ctx, tg, user, chatID, text)
	case intent.KindSetLimitAmount:
		return b.processLimitAmount(ctx, tg, user, chatID, pending, text)
	default:
		b.intents.Clear(key)
		return b.reply(ctx, tg, chatID, "Let's start over. Use the buttons below.")
	}
}

// processPurchaseLine handles the one-shot `amount; category; note` form.
// Both outcomes are terminal for the intent.
func (b *Bot) processPurchaseLine(
	ctx context.Context,
	tg TelegramAPI,
	user *models.User,
	chatID int64,
	text string,
) error {
	defer b.intents.Clear(userKey(user.ID))

	parsed, err := ParsePurchaseLine(text)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return b.reply(ctx, tg, chatID, parseErr.Message)
		}
		return err
	}

	category, err := b.categories.FindOrCreate(ctx, user.ID, parsed.Category)
	if err != nil {
		return err
	}

	return b.finishPurchase(ctx, tg, user, chatID, category.ID, parsed.Note, parsed.Amount)
}

// processPurchaseNote stores the purchase name typed after a category button.
// Empty input re-prompts and keeps the intent.
func (b *Bot) processPurchaseNote(
	ctx context.Context,
	tg TelegramAPI,
	user *models.User,
	chatID int64,
	pending intent.Intent,
	text string,
) error {
	note := strings.TrimSpace(text)
	if note == "" {
		return b.reply(ctx, tg, chatID, "Please name the purchase, e.g. \"Morning coffee\".")
	}

	b.intents.Set(userKey(user.ID), intent.Intent{
		Kind:       intent.KindAddPurchaseAmount,
		CategoryID: pending.CategoryID,
		Note:       note,
	})
	return b.reply(ctx, tg, chatID, fmt.Sprintf("How much did \"%s\" cost in %s?", note, user.Currency))
}

// processPurchaseAmount completes the guided purchase flow. Invalid amounts
// re-prompt and keep the intent.
func (b *Bot) processPurchaseAmount(
	ctx context.Context,
	tg TelegramAPI,
	user *models.User,
	chatID int64,
	pending intent.Intent,
	text string,
) error {
	amount, err := ParseAmount(text)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return b.reply(ctx, tg, chatID, parseErr.Message)
		}
		return err
	}

	defer b.intents.Clear(userKey(user.ID))
	return b.finishPurchase(ctx, tg, user, chatID, pending.CategoryID, pending.Note, amount)
}

// finishPurchase persists the purchase, confirms it and checks the
// category's limit. The limit warning is best-effort and never fails the
// purchase itself.
func (b *Bot) finishPurchase(
	ctx context.Context,
	tg TelegramAPI,
	user *models.User,
	chatID int64,
	categoryID int,
	note string,
	amount decimal.Decimal,
) error {
	category, err := b.categories.GetByID(ctx, user.ID, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return b.reply(ctx, tg, chatID, "Category not found.")
	}

	purchase := &models.Purchase{
		UserID:     user.ID,
		CategoryID: category.ID,
		Amount:     amount,
		Note:       note,
	}
	if err := b.purchases.Create(ctx, purchase); err != nil {
		return err
	}

	confirmation := fmt.Sprintf("✅ Logged %s to %s %s",
		money(amount, user.Currency), emojiOrDefault(category.Emoji), category.Name)
	if note != "" {
		confirmation += fmt.Sprintf(" (%s)", note)
	}
	if err := b.reply(ctx, tg, chatID, confirmation); err != nil {
		return err
	}

	return b.limits.NotifyIfNeeded(ctx, user.ID, category.ID, func(message string) error {
		return b.replyMarkdown(ctx, tg, chatID, message)
	})
}

// processLimitLine handles the one-shot `category; amount` limit form.
func (b *Bot) processLimitLine(
	ctx context.Context,
	tg TelegramAPI,
	user *models.User,
	chatID int64,
	text string,
) error {
	defer b.intents.Clear(userKey(user.ID))

	parsed, err := ParseLimitLine(text)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return b.reply(ctx, tg, chatID, parseErr.Message)
		}
		return err
	}

	category, err := b.categories.FindOrCreate(ctx, user.ID, parsed.Category)
	if err != nil {
		return err
	}

	return b.saveLimit(ctx, tg, user, chatID, category, parsed.Amount)
}

// processLimitAmount completes the guided limit flow. Invalid amounts
// re-prompt and keep the intent.
func (b *Bot) processLimitAmount(
	ctx context.Context,
	tg TelegramAPI,
	user *models.User,
	chatID int64,
	pending intent.Intent,
	text string,
) error {
	amount, err := ParseAmount(text)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return b.reply(ctx, tg, chatID, parseErr.Message)
		}
		return err
	}

	defer b.intents.Clear(userKey(user.ID))

	category, err := b.categories.GetByID(ctx, user.ID, pending.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return b.reply(ctx, tg, chatID, "Category not found.")
	}

	return b.saveLimit(ctx, tg, user, chatID, category, amount)
}

func (b *Bot) saveLimit(
	ctx context.Context,
	tg TelegramAPI,
	user *models.User,
	chatID int64,
	category *models.Category,
	amount decimal.Decimal,
) error {
	if _, err := b.limits.Upsert(ctx, user.ID, category.ID, amount); err != nil {
		return err
	}

	status, err := b.limits.Status(ctx, user.ID, category.ID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("🎯 Limit for %s %s set to %s per month.",
		emojiOrDefault(category.Emoji), category.Name, money(amount, user.Currency))
	if status.Active {
		message += fmt.Sprintf("\nAlready spent this month: %s %s",
			progressBar(status.Coverage), money(status.Spent, user.Currency))
	}
	return b.reply(ctx, tg, chatID, message)
}
