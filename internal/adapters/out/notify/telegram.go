// Package notify pushes out-of-band notifications to senders and couriers.
// Notifications are best-effort by contract: callers invoke them after
// commit and swallow failures.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/errs"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers notifications as Telegram messages. The
// recipient is the chat ID as a decimal string; recipients without one are
// skipped, not failed, because notification delivery is best-effort.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

// NewTelegramNotifier authorizes the bot with the given token.
func NewTelegramNotifier(token string, logger *slog.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		api:    api,
		logger: logger.With("component", "telegram_notifier"),
	}, nil
}

// Notify sends one notification message.
func (n *TelegramNotifier) Notify(ctx context.Context, recipient string, kind string, data map[string]string) error {
	chatID, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		n.logger.WarnContext(ctx, "Recipient has no telegram chat ID, skipping notification",
			"kind", kind)
		return nil
	}

	message := tgbotapi.NewMessage(chatID, renderMessage(kind, data))
	if _, err = n.api.Send(message); err != nil {
		return errs.NewExternalDependencyErrorWithCause("telegram", true, err)
	}
	return nil
}

// renderMessage turns a notification kind and its data into human text.
func renderMessage(kind string, data map[string]string) string {
	number := data["number"]
	if number == "" {
		number = data["delivery_id"]
	}

	switch kind {
	case ports.NotifyDeliveryAssigned:
		return fmt.Sprintf("Delivery %s is yours. Head to the pickup point.", number)
	case ports.NotifyDeliveryPickedUp:
		return fmt.Sprintf("Delivery %s was picked up and is on its way.", number)
	case ports.NotifyDeliveryDelivered:
		return fmt.Sprintf("Delivery %s was delivered.", number)
	case ports.NotifyDeliveryCancelled:
		if reason := data["reason"]; reason != "" {
			return fmt.Sprintf("Delivery %s was cancelled: %s", number, reason)
		}
		return fmt.Sprintf("Delivery %s was cancelled.", number)
	case ports.NotifyDeliveryFailed:
		if reason := data["reason"]; reason != "" {
			return fmt.Sprintf("Delivery %s failed: %s", number, reason)
		}
		return fmt.Sprintf("Delivery %s failed.", number)
	case ports.NotifyPaymentSettled:
		if amount := data["amount"]; amount != "" {
			return fmt.Sprintf("Payment of %s for delivery %s went through.", amount, number)
		}
		return fmt.Sprintf("Payment for delivery %s went through.", number)
	default:
		return fmt.Sprintf("Update on delivery %s.", number)
	}
}
