package bot

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/Houeta/stock-flow/internal/models"
	"gopkg.in/telebot.v4"
)

// NotifyStockAvailable tells every subscribed chat that a desired size is back.
func (b *Bot) NotifyStockAvailable(ctx context.Context, alert models.StockAlert) error {
	const opn = "bot.NotifyStockAvailable"

	if err := b.broadcast(ctx, formatStockAlert(alert)); err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// NotifyPriceDrop tells every subscribed chat that a product got cheaper.
func (b *Bot) NotifyPriceDrop(ctx context.Context, drop models.PriceDrop) error {
	const opn = "bot.NotifyPriceDrop"

	if err := b.broadcast(ctx, formatPriceDrop(drop)); err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// broadcast sends text to all subscribed chats. A chat that blocked the bot is unsubscribed.
func (b *Bot) broadcast(ctx context.Context, text string) error {
	chats, err := b.subs.GetSubscribedChats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get subscribed chats: %w", err)
	}

	if len(chats) == 0 {
		b.log.WarnContext(ctx, "No subscribed chats, alert dropped")
		return nil
	}

	var errs []error
	for _, chatID := range chats {
		_, err = b.bot.Send(telebot.ChatID(chatID), text, telebot.ModeHTML)
		if err == nil {
			continue
		}

		if errors.Is(err, telebot.ErrBlockedByUser) {
			b.log.InfoContext(ctx, "Chat blocked the bot, unsubscribing", "chat_id", chatID)
			if _, unsubErr := b.subs.UnsubscribeChat(ctx, chatID); unsubErr != nil {
				b.log.ErrorContext(ctx, "Failed to unsubscribe chat", "chat_id", chatID, "error", unsubErr)
			}
			continue
		}

		errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
	}

	return errors.Join(errs...)
}

func formatStockAlert(alert models.StockAlert) string {
	return fmt.Sprintf("🔔 <b>Back in stock</b>\n%s\nSize: <b>%s</b>\nPrice: %s\n<a href=\"%s\">Open product</a>",
		html.EscapeString(alert.ProductName),
		html.EscapeString(alert.Size),
		alert.Price.StringFixed(2),
		html.EscapeString(alert.URL),
	)
}

func formatPriceDrop(drop models.PriceDrop) string {
	return fmt.Sprintf("📉 <b>Price drop</b>\n%s\n<s>%s</s> → <b>%s</b> (-%s)\n<a href=\"%s\">Open product</a>",
		html.EscapeString(drop.ProductName),
		drop.OldPrice.StringFixed(2),
		drop.NewPrice.StringFixed(2),
		drop.Savings().StringFixed(2),
		html.EscapeString(drop.URL),
	)
}
