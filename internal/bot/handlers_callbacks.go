package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/akerbs/pocket-accountant-bot/internal/intent"
)

// handleSelectCategoryCore reacts to a category button in the add-expense
// flow: the guided path continues by asking for the purchase name.
func (b *Bot) handleSelectCategoryCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	query := update.CallbackQuery
	if query == nil {
		return nil
	}
	b.answerCallback(ctx, tg, query.ID)

	categoryID, err := parseCallbackID(query.Data, selectCategoryPrefix)
	if err != nil {
		return err
	}
	chatID := extractChatID(update)

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}

	category, err := b.categories.GetByID(ctx, user.ID, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		b.intents.Clear(userKey(user.ID))
		return b.reply(ctx, tg, chatID, "Category not found.")
	}

	b.intents.Set(userKey(user.ID), intent.Intent{
		Kind:       intent.KindAddPurchaseNote,
		CategoryID: category.ID,
	})

	return b.reply(ctx, tg, chatID,
		fmt.Sprintf("%s %s\nWhat did you buy?", emojiOrDefault(category.Emoji), category.Name))
}

// handleSelectLimitCategoryCore reacts to a category button in the limit
// flow and asks for the monthly amount.
func (b *Bot) handleSelectLimitCategoryCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	query := update.CallbackQuery
	if query == nil {
		return nil
	}
	b.answerCallback(ctx, tg, query.ID)

	categoryID, err := parseCallbackID(query.Data, selectLimitCategoryPrefix)
	if err != nil {
		return err
	}
	chatID := extractChatID(update)

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}

	category, err := b.categories.GetByID(ctx, user.ID, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		b.intents.Clear(userKey(user.ID))
		return b.reply(ctx, tg, chatID, "Category not found.")
	}

	b.intents.Set(userKey(user.ID), intent.Intent{
		Kind:       intent.KindSetLimitAmount,
		CategoryID: category.ID,
	})

	return b.reply(ctx, tg, chatID,
		fmt.Sprintf("%s %s\nMonthly limit amount in %s?",
			emojiOrDefault(category.Emoji), category.Name, user.Currency))
}

// handleResetStatsCallbackCore handles both buttons of the reset
// confirmation message.
func (b *Bot) handleResetStatsCallbackCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	query := update.CallbackQuery
	if query == nil {
		return nil
	}
	b.answerCallback(ctx, tg, query.ID)
	chatID := extractChatID(update)

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}
	b.intents.Clear(userKey(user.ID))

	switch query.Data {
	case resetStatsConfirmCallback:
		deleted, err := b.purchases.DeleteAllByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		return b.reply(ctx, tg, chatID,
			fmt.Sprintf("🗑 Done. Removed %d record(s). Starting from a clean slate!", deleted))

	case resetStatsCancelCallback:
		if query.Message.Message != nil {
			_, err := tg.EditMessageText(ctx, &tgbot.EditMessageTextParams{
				ChatID:    chatID,
				MessageID: query.Message.Message.ID,
				Text:      "Reset cancelled. Your records are safe.",
			})
			if err == nil {
				return nil
			}
		}
		return b.reply(ctx, tg, chatID, "Reset cancelled. Your records are safe.")

	default:
		// Only the two known buttons may act. Anything else under the
		// prefix is stale or forged data and must not touch records.
		return nil
	}
}

// answerCallback stops the button spinner. A failed answer only degrades UX,
// so it is logged by Telegram client internals and otherwise ignored.
func (b *Bot) answerCallback(ctx context.Context, tg TelegramAPI, queryID string) {
	_, _ = tg.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
	})
}

func parseCallbackID(data, prefix string) (int, error) {
	raw := strings.TrimPrefix(data, prefix)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("malformed callback data %q: %w", data, err)
	}
	return id, nil
}
