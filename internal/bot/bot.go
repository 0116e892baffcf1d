// Package bot is the Telegram delivery surface: it drives study sessions,
// shows the stats dashboard and accepts word-list uploads. The core
// packages never depend on it.
package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/importer"
	"github.com/example/vocabtrainer/internal/study"
)

// Bot serves a single Telegram chat. At most one study session is active
// at a time; starting a new one discards the old cursor.
type Bot struct {
	api   *tgbotapi.BotAPI
	cfg   Config
	store *database.Store
	study *study.Service
	imp   *importer.Importer

	session *study.Session
	// Name of the vocabulary the next uploaded document goes into.
	pendingImport string
}

// New creates a bot instance.
func New(cfg Config, store *database.Store, svc *study.Service, imp *importer.Importer) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API client: %w", err)
	}
	return &Bot{
		api:   api,
		cfg:   cfg,
		store: store,
		study: svc,
		imp:   imp,
	}, nil
}

// Start processes updates until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	log.Printf("bot: authorized as @%s", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop shuts down the update channel.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// NotifyDueWords implements reminder.Notifier.
func (b *Bot) NotifyDueWords(count int) error {
	text := fmt.Sprintf("🔔 You have %d word(s) due for review. Send /review to start.", count)
	return b.send(tgbotapi.NewMessage(b.cfg.ChatID, text))
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if update.CallbackQuery.Message == nil || update.CallbackQuery.Message.Chat.ID != b.cfg.ChatID {
			return
		}
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			log.Printf("bot: callback error: %v", err)
		}
	case update.Message != nil:
		if update.Message.Chat.ID != b.cfg.ChatID {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("bot: message error: %v", err)
		}
	}
}

func (b *Bot) send(c tgbotapi.Chattable) error {
	if _, err := b.api.Send(c); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (b *Bot) reply(text string) error {
	return b.send(tgbotapi.NewMessage(b.cfg.ChatID, text))
}
