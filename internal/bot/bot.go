package bot

import (
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/telebot.v4"
)

// commandTimeout bounds the work a single command may do, scraping included.
const commandTimeout = 60 * time.Second

// Bot contains the bot API instance and other information.
type Bot struct {
	bot     API
	log     *slog.Logger
	tracker Tracker
	subs    Subscriptions
}

func NewBot(log *slog.Logger, token string, poller time.Duration, tracker Tracker, subs Subscriptions) (*Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", bot.Me.Username)

	botInstance := &Bot{bot: bot, log: log, tracker: tracker, subs: subs}

	botInstance.registerRoutes()

	return botInstance, nil
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
}

// registerRoutes configures all routes (commands).
func (b *Bot) registerRoutes() {
	b.bot.Handle("/start", b.startHandler)
	b.bot.Handle("/stop", b.stopHandler)
	b.bot.Handle("/list", b.listHandler)
	b.bot.Handle("/add", b.addHandler)
	b.bot.Handle("/remove", b.removeHandler)
}
