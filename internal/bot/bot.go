// Package bot implements the conversation controller of the pocket
// accountant: it translates Telegram updates and the pending-intent state
// into replies, follow-up questions and persistence calls.
package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akerbs/pocket-accountant-bot/internal/config"
	"github.com/akerbs/pocket-accountant-bot/internal/intent"
	"github.com/akerbs/pocket-accountant-bot/internal/logger"
	"github.com/akerbs/pocket-accountant-bot/internal/models"
	"github.com/akerbs/pocket-accountant-bot/internal/repository"
	"github.com/akerbs/pocket-accountant-bot/internal/service"
)

// handlerFunc is the internal shape of every event handler. Returned errors
// hit the per-event boundary in dispatch: logged, replied to generically,
// and the user's pending intent cleared.
type handlerFunc func(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) error

// Bot wraps the Telegram bot with application dependencies.
type Bot struct {
	bot        *tgbot.Bot
	cfg        *config.Config
	users      UserDirectory
	categories CategoryDirectory
	purchases  PurchaseLedger
	limits     LimitKeeper
	stats      StatsSource
	advisor    *service.Advisor
	intents    intent.Store
	tracker    *MessageTracker
}

// New creates a Bot wired to the given database pool.
func New(cfg *config.Config, pool *pgxpool.Pool) (*Bot, error) {
	purchaseRepo := repository.NewPurchaseRepository(pool)
	limitSvc := service.NewLimitService(repository.NewLimitRepository(pool), purchaseRepo)

	b := &Bot{
		cfg:        cfg,
		users:      repository.NewUserRepository(pool),
		categories: repository.NewCategoryRepository(pool),
		purchases:  purchaseRepo,
		limits:     limitSvc,
		stats:      service.NewStatsService(purchaseRepo, limitSvc),
		advisor:    service.NewAdvisor(),
		intents:    intent.NewMemoryStore(),
		tracker:    NewMessageTracker(),
	}

	telegramBot, err := tgbot.New(cfg.TelegramBotToken,
		tgbot.WithDefaultHandler(b.wrap(b.handleTextCore)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b.bot = telegramBot
	b.registerHandlers()

	return b, nil
}

// Start begins polling for updates and blocks until the context is done.
func (b *Bot) Start(ctx context.Context) {
	logger.Log.Info().Msg("Bot started polling")
	b.bot.Start(ctx)
}

// ProcessUpdate feeds one already-decoded update through the registered
// handlers. Used by the webhook entry point.
func (b *Bot) ProcessUpdate(ctx context.Context, update *tgmodels.Update) {
	b.bot.ProcessUpdate(ctx, update)
}

// registerHandlers sets up command, button and callback handlers.
func (b *Bot) registerHandlers() {
	commands := map[string]handlerFunc{
		"/start":  b.handleStartCore,
		"/stats":  b.sendStatsCore,
		"/limit":  b.promptLimitCore,
		"/advice": b.sendAdviceCore,
		"/chart":  b.sendChartCore,
	}
	for pattern, h := range commands {
		b.bot.RegisterHandler(tgbot.HandlerTypeMessageText, pattern, tgbot.MatchTypePrefix, b.wrap(h))
	}

	buttons := map[string]handlerFunc{
		restartButton:    b.handleRestartCore,
		addExpenseButton: b.promptPurchaseCore,
		statsButton:      b.sendStatsCore,
		limitsButton:     b.promptLimitCore,
		adviceButton:     b.sendAdviceCore,
		resetStatsButton: b.promptResetStatsCore,
	}
	for pattern, h := range buttons {
		b.bot.RegisterHandler(tgbot.HandlerTypeMessageText, pattern, tgbot.MatchTypeExact, b.wrap(h))
	}

	b.bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData,
		selectCategoryPrefix, tgbot.MatchTypePrefix, b.wrap(b.handleSelectCategoryCore))
	b.bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData,
		selectLimitCategoryPrefix, tgbot.MatchTypePrefix, b.wrap(b.handleSelectLimitCategoryCore))
	b.bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData,
		"reset_stats_", tgbot.MatchTypePrefix, b.wrap(b.handleResetStatsCallbackCore))
}

// wrap adapts an internal handler to the library's handler signature.
func (b *Bot) wrap(h handlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, tg *tgbot.Bot, update *tgmodels.Update) {
		b.dispatch(ctx, tg, update, h)
	}
}

// dispatch runs one handler inside the per-event error boundary. On an
// internal error the pending intent is cleared so the user cannot get stuck
// in a flow that can no longer succeed.
func (b *Bot) dispatch(ctx context.Context, tg TelegramAPI, update *tgmodels.Update, h handlerFunc) {
	if err := h(ctx, tg, update); err != nil {
		userID := extractUserID(update)
		chatID := extractChatID(update)

		logger.Log.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("chat_id", chatID).
			Msg("Handler failed")

		b.intents.Clear(userKey(userID))

		if chatID != 0 {
			_ = b.reply(ctx, tg, chatID, "Oops, something went wrong. Please try again later.")
		}
	}
}

// ensureUser registers or refreshes the user behind the update.
func (b *Bot) ensureUser(ctx context.Context, update *tgmodels.Update) (*models.User, error) {
	from := extractFrom(update)
	if from == nil {
		return nil, fmt.Errorf("update carries no user")
	}

	return b.users.EnsureUser(ctx, &models.User{
		ID:        from.ID,
		Username:  from.Username,
		FirstName: from.FirstName,
		Currency:  b.cfg.DefaultCurrency,
	})
}

// reply sends a plain-text message with the main keyboard attached.
func (b *Bot) reply(ctx context.Context, tg TelegramAPI, chatID int64, text string) error {
	return b.send(ctx, tg, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: mainKeyboard(),
	})
}

// replyMarkdown sends a Markdown message with the main keyboard attached.
func (b *Bot) replyMarkdown(ctx context.Context, tg TelegramAPI, chatID int64, text string) error {
	return b.send(ctx, tg, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   tgmodels.ParseModeMarkdownV1,
		ReplyMarkup: mainKeyboard(),
	})
}

// send delivers the message and tracks its ID for restart cleanup.
func (b *Bot) send(ctx context.Context, tg TelegramAPI, params *tgbot.SendMessageParams) error {
	msg, err := tg.SendMessage(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	if chatID, ok := params.ChatID.(int64); ok {
		b.tracker.Track(chatID, msg.ID)
	}
	return nil
}

// userKey renders a Telegram user ID as the intent store's opaque key.
func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// extractFrom gets the sending user from message or callback updates.
func extractFrom(update *tgmodels.Update) *tgmodels.User {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From
	}
	if update.CallbackQuery != nil {
		return &update.CallbackQuery.From
	}
	return nil
}

// extractUserID gets the user ID from various update types.
func extractUserID(update *tgmodels.Update) int64 {
	if from := extractFrom(update); from != nil {
		return from.ID
	}
	return 0
}

// extractChatID gets the chat ID from various update types.
func extractChatID(update *tgmodels.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil {
		return update.CallbackQuery.Message.Message.Chat.ID
	}
	return 0
}
