package bot

import (
	"context"

	"github.com/Houeta/stock-flow/internal/models"
	"github.com/Houeta/stock-flow/internal/services/tracker"
	"gopkg.in/telebot.v4"
)

type API interface {
	// Handle lets you set the handler for some command name or one of the supported endpoints. It also applies middleware if such passed to the function.
	Handle(endpoint interface{}, h telebot.HandlerFunc, m ...telebot.MiddlewareFunc)
	// Start brings bot into motion by consuming incoming updates (see Bot.Updates channel).
	Start()
	// Stop gracefully shuts the poller down.
	Stop()

	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Tracker manages the tracked products behind /add, /remove and /list.
type Tracker interface {
	Add(ctx context.Context, url, desiredSize string) (*tracker.AddResult, error)
	Remove(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.TrackedProduct, error)
}

// Subscriptions keeps the chats that receive alerts.
type Subscriptions interface {
	SubscribeChat(ctx context.Context, chatID int64) (bool, error)
	UnsubscribeChat(ctx context.Context, chatID int64) (bool, error)
	GetSubscribedChats(ctx context.Context) ([]int64, error)
}
