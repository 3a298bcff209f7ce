package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// TelegramNotifier sends price-drop alerts to a Telegram chat
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger
}

// NewTelegramNotifier creates a notifier backed by the Telegram Bot API
func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		log:    logger.Get().With("component", "telegram_notifier"),
	}, nil
}

var _ Notifier = (*TelegramNotifier)(nil)

// NotifyPriceDrop sends a formatted price-drop message
func (n *TelegramNotifier) NotifyPriceDrop(ctx context.Context, drop PriceDrop) error {
	text := fmt.Sprintf(
		"📉 Price drop for %q\n\n%s\n%s: %.2f %s (was %.2f %s)\n%s",
		drop.Query,
		drop.Title,
		drop.Retailer,
		drop.Price, drop.Currency,
		drop.PreviousMin, drop.Currency,
		drop.URL,
	)

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		return errors.Wrap(err, "failed to send telegram message")
	}

	n.log.Infow("price drop alert sent",
		"query", drop.Query,
		"title", drop.Title,
		"price", drop.Price,
		"previous_min", drop.PreviousMin,
	)
	return nil
}
