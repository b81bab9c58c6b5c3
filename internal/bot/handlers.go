package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Houeta/stock-flow/internal/repository"
	"github.com/Houeta/stock-flow/internal/services/tracker"
	"gopkg.in/telebot.v4"
)

const helpText = `Commands:
/add &lt;url&gt; [size] - track a product
/remove &lt;id&gt; - stop tracking a product
/list - tracked products
/stop - stop receiving alerts`

// startHandler process command /start.
func (b *Bot) startHandler(c telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	b.log.InfoContext(ctx, "User started the bot", "username", c.Sender().Username, "chat_id", c.Chat().ID)

	added, err := b.subs.SubscribeChat(ctx, c.Chat().ID)
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to subscribe chat", "chat_id", c.Chat().ID, "error", err)
		return b.reply(c, "Something went wrong, please try again later.")
	}

	greeting := "You will get an alert when a tracked size is back in stock or a price drops."
	if !added {
		greeting = "You are already subscribed."
	}

	return b.reply(c, greeting+"\n\n"+helpText)
}

// stopHandler process command /stop.
func (b *Bot) stopHandler(c telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	removed, err := b.subs.UnsubscribeChat(ctx, c.Chat().ID)
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to unsubscribe chat", "chat_id", c.Chat().ID, "error", err)
		return b.reply(c, "Something went wrong, please try again later.")
	}

	if !removed {
		return b.reply(c, "You were not subscribed.")
	}

	return b.reply(c, "Alerts are off. Send /start to turn them back on.")
}

func (b *Bot) listHandler(c telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	return b.reply(c, b.listReply(ctx))
}

func (b *Bot) addHandler(c telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	return b.reply(c, b.addReply(ctx, c.Args()))
}

func (b *Bot) removeHandler(c telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	return b.reply(c, b.removeReply(ctx, c.Args()))
}

func (b *Bot) reply(c telebot.Context, text string) error {
	if err := c.Send(text, telebot.ModeHTML); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	return nil
}

func (b *Bot) listReply(ctx context.Context) string {
	products, err := b.tracker.List(ctx)
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to list products", "error", err)
		return "Something went wrong, please try again later."
	}

	if len(products) == 0 {
		return "No tracked products. Add one with /add &lt;url&gt; [size]."
	}

	var sb strings.Builder
	sb.WriteString("<b>Tracked products</b>\n")
	for _, p := range products {
		size := p.DesiredSize
		if size == "" {
			size = "any"
		}

		status := "unknown"
		if entry, ok := p.DesiredStatus(); ok {
			status = string(entry.Status)
		}

		fmt.Fprintf(&sb, "\n%d. <a href=\"%s\">%s</a>\nsize: %s (%s), price: %s\n",
			p.ID, html.EscapeString(p.URL), html.EscapeString(p.Name), html.EscapeString(size), status, p.Price.StringFixed(2))
	}

	return sb.String()
}

func (b *Bot) addReply(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /add &lt;url&gt; [size]"
	}

	var size string
	if len(args) > 1 {
		size = args[1]
	}

	res, err := b.tracker.Add(ctx, args[0], size)

	var sizeErr *tracker.SizeError
	switch {
	case errors.Is(err, tracker.ErrUnsupportedURL):
		return "Only zara.com product links are supported."
	case errors.Is(err, repository.ErrProductExists):
		return "This product is already tracked."
	case errors.As(err, &sizeErr):
		return fmt.Sprintf("Size %s not found. Available sizes: %s.",
			html.EscapeString(sizeErr.Size), html.EscapeString(strings.Join(sizeErr.Available, ", ")))
	case err != nil:
		b.log.ErrorContext(ctx, "Failed to add product", "url", args[0], "error", err)
		return "Could not load the product. Check the link and try again."
	}

	msg := fmt.Sprintf("Tracking <b>%s</b> (#%d), price %s.",
		html.EscapeString(res.Product.Name), res.Product.ID, res.Product.Price.StringFixed(2))
	if res.Product.DesiredSize != "" {
		state := "out of stock, you will be alerted when it is back"
		if res.DesiredInStock {
			state = "in stock right now"
		}
		msg += fmt.Sprintf("\nSize %s is %s.", html.EscapeString(res.Product.DesiredSize), state)
	}

	return msg
}

func (b *Bot) removeReply(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /remove &lt;id&gt;"
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return "The id must be a number, see /list."
	}

	err = b.tracker.Remove(ctx, id)
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return fmt.Sprintf("Product #%d is not tracked.", id)
	case err != nil:
		b.log.ErrorContext(ctx, "Failed to remove product", "product_id", id, "error", err)
		return "Something went wrong, please try again later."
	}

	return fmt.Sprintf("Product #%d removed.", id)
}
