package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/akerbs/pocket-accountant-bot/internal/intent"
	"github.com/akerbs/pocket-accountant-bot/internal/service"
)

const welcomeBody = "👋 Hi! I'm your pocket accountant.\n\n" +
	"Use the \"" + addExpenseButton + "\" button to quickly log spending.\n" +
	"You can also send a line like `amount; category; note` (separators `; , |`)."

// handleStartCore handles /start: registers the user, seeds categories and
// resets the conversation.
func (b *Bot) handleStartCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	if update.Message == nil {
		return nil
	}
	b.trackIncoming(update)

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}
	if err := b.categories.EnsureDefaults(ctx, user.ID); err != nil {
		return err
	}
	b.intents.Clear(userKey(user.ID))

	text := welcomeBody + "\n\n💡 Use \"" + restartButton + "\" to wipe the chat and start over."
	return b.replyMarkdown(ctx, tg, update.Message.Chat.ID, text)
}

// handleRestartCore force-clears the conversation, deletes tracked chat
// messages best-effort and greets the user again.
func (b *Bot) handleRestartCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	if update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID
	b.trackIncoming(update)

	b.intents.Clear(userKey(extractUserID(update)))

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}
	if err := b.categories.EnsureDefaults(ctx, user.ID); err != nil {
		return err
	}

	// Old messages may already be gone or too old to delete; that is fine.
	for _, messageID := range b.tracker.Pull(chatID) {
		_, _ = tg.DeleteMessage(ctx, &tgbot.DeleteMessageParams{
			ChatID:    chatID,
			MessageID: messageID,
		})
	}

	text := "🔄 *Restart done*\n\n" + welcomeBody + "\n\n💡 Your statistics were kept."
	return b.replyMarkdown(ctx, tg, chatID, text)
}

// promptPurchaseCore starts the add-purchase flow: category buttons when the
// user has categories, otherwise the one-shot free-text format.
func (b *Bot) promptPurchaseCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	if update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID
	b.trackIncoming(update)

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}
	b.intents.Clear(userKey(user.ID))

	categories, err := b.categories.List(ctx, user.ID)
	if err != nil {
		return err
	}

	if len(categories) == 0 {
		err := b.replyMarkdown(ctx, tg, chatID,
			"You have no categories yet. Send a purchase like `650; Groceries; Morning market` (separators `; , |`).")
		if err != nil {
			return err
		}
		b.intents.Set(userKey(user.ID), intent.Intent{Kind: intent.KindAddPurchase})
		return nil
	}

	return b.send(ctx, tg, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        "Pick a category for the expense:",
		ReplyMarkup: categoryKeyboard(categories, selectCategoryPrefix),
	})
}

// promptLimitCore shows current limit statuses and the category picker for
// setting a monthly limit.
func (b *Bot) promptLimitCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	if update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID
	b.trackIncoming(update)

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}
	b.intents.Clear(userKey(user.ID))

	limits, err := b.limits.ListActive(ctx, user.ID)
	if err != nil {
		return err
	}

	statuses := make(map[int]*service.LimitStatus, len(limits))
	for _, limit := range limits {
		status, err := b.limits.Status(ctx, user.ID, limit.CategoryID)
		if err != nil {
			return err
		}
		statuses[limit.CategoryID] = status
	}
	limitLines := renderLimitLines(limits, statuses, user.Currency)

	categories, err := b.categories.List(ctx, user.ID)
	if err != nil {
		return err
	}

	if len(categories) == 0 {
		text := strings.Join([]string{
			"*🎯 Limits*", limitLines, "",
			"You have no categories yet. Send a limit like `Groceries; 15000` (separators `; |`).",
		}, "\n")
		if err := b.replyMarkdown(ctx, tg, chatID, text); err != nil {
			return err
		}
		b.intents.Set(userKey(user.ID), intent.Intent{Kind: intent.KindSetLimit})
		return nil
	}

	text := strings.Join([]string{
		"*🎯 Limits*", limitLines, "",
		"Pick a category to set a monthly limit:",
	}, "\n")
	return b.send(ctx, tg, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   tgmodels.ParseModeMarkdownV1,
		ReplyMarkup: categoryKeyboard(categories, selectLimitCategoryPrefix),
	})
}

// sendStatsCore renders and sends the stats snapshot.
func (b *Bot) sendStatsCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	if update.Message == nil {
		return nil
	}
	b.trackIncoming(update)

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}
	b.intents.Clear(userKey(user.ID))

	stats, err := b.stats.Snapshot(ctx, user.ID, user.Currency)
	if err != nil {
		return err
	}

	message := strings.Join([]string{
		renderSummary(stats), "",
		renderCategories(stats), "",
		renderRecent(stats),
	}, "\n")
	return b.replyMarkdown(ctx, tg, update.Message.Chat.ID, message)
}

// sendAdviceCore sends heuristic budgeting tips.
func (b *Bot) sendAdviceCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	if update.Message == nil {
		return nil
	}
	b.trackIncoming(update)

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}
	b.intents.Clear(userKey(user.ID))

	stats, err := b.stats.Snapshot(ctx, user.ID, user.Currency)
	if err != nil {
		return err
	}

	var lastPurchase time.Time
	if len(stats.Recent) > 0 {
		lastPurchase = stats.Recent[0].SpentAt
	}

	lines := []string{"*🧠 Personal tips*"}
	for _, tip := range b.advisor.Tips(stats, lastPurchase) {
		lines = append(lines, "• "+tip)
	}
	return b.replyMarkdown(ctx, tg, update.Message.Chat.ID, strings.Join(lines, "\n"))
}

// sendChartCore renders this month's category breakdown as a pie chart.
func (b *Bot) sendChartCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	if update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID
	b.trackIncoming(update)

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}
	b.intents.Clear(userKey(user.ID))

	stats, err := b.stats.Snapshot(ctx, user.ID, user.Currency)
	if err != nil {
		return err
	}

	if len(stats.Categories) == 0 {
		return b.reply(ctx, tg, chatID, "Nothing to chart yet — log a purchase first.")
	}

	now := time.Now()
	buf, err := GenerateSpendingChart(stats, "Spending "+now.Format("January 2006"))
	if err != nil {
		return err
	}

	_, err = tg.SendDocument(ctx, &tgbot.SendDocumentParams{
		ChatID: chatID,
		Document: &tgmodels.InputFileUpload{
			Filename: chartFilename(now),
			Data:     bytes.NewReader(buf),
		},
		Caption: "📈 This month by category",
	})
	if err != nil {
		return fmt.Errorf("failed to send chart: %w", err)
	}
	return nil
}

// promptResetStatsCore asks for confirmation before wiping all purchases.
func (b *Bot) promptResetStatsCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error {
	if update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID
	b.trackIncoming(update)

	user, err := b.ensureUser(ctx, update)
	if err != nil {
		return err
	}
	b.intents.Clear(userKey(user.ID))

	stats, err := b.stats.Snapshot(ctx, user.ID, user.Currency)
	if err != nil {
		return err
	}

	if stats.Month.IsZero() && len(stats.Recent) == 0 {
		return b.reply(ctx, tg, chatID, "You have no records to reset yet.")
	}

	text := strings.Join([]string{
		"⚠️ *Careful!*", "",
		fmt.Sprintf("You are about to delete all your expense records (%s %s this month).",
			stats.Month.StringFixed(0), user.Currency),
		"",
		"This cannot be undone. Continue?",
	}, "\n")
	return b.send(ctx, tg, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   tgmodels.ParseModeMarkdownV1,
		ReplyMarkup: resetConfirmKeyboard(),
	})
}

// trackIncoming records the inbound message for restart cleanup.
func (b *Bot) trackIncoming(update *tgmodels.Update) {
	if update.Message != nil {
		b.tracker.Track(update.Message.Chat.ID, update.Message.ID)
	}
}
