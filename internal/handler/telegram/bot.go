package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/passerby7890/v2board-bot/internal/domain"
	"github.com/passerby7890/v2board-bot/pkg/logger"
)

const selfDestructDelay = 5 * time.Second

// Bare-text aliases for the check-in command.
var checkinKeywords = map[string]struct{}{
	"簽到": {},
	"签到": {},
}

type binder interface {
	Bind(ctx context.Context, telegramID int64, email string) (*domain.BindResult, error)
}

type checkiner interface {
	Checkin(ctx context.Context, telegramID int64, today time.Time) (*domain.CheckinResult, error)
}

// Handler is the chat-transport edge of the bot. It parses inbound commands,
// calls the core services and renders their structured results; no reward or
// binding decision is made here.
type Handler struct {
	api      *tgbotapi.BotAPI
	bind     binder
	checkin  checkiner
	location *time.Location
	workers  int
}

func New(api *tgbotapi.BotAPI, bind binder, checkin checkiner, location *time.Location, workers int) *Handler {
	return &Handler{
		api:      api,
		bind:     bind,
		checkin:  checkin,
		location: location,
		workers:  workers,
	}
}

// Run drains the update channel on a bounded worker pool and blocks until the
// context is cancelled and the workers have finished.
func (h *Handler) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	updates := h.api.GetUpdatesChan(updateConfig)

	var wg sync.WaitGroup
	for i := 0; i < h.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.worker(ctx, updates)
		}()
	}

	<-ctx.Done()
	h.api.StopReceivingUpdates()
	wg.Wait()
}

func (h *Handler) worker(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			h.handle(ctx, update)
		}
	}
}

func (h *Handler) handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	switch {
	case msg.IsCommand():
		switch msg.Command() {
		case "start":
			h.handleStart(msg)
		case "bind":
			h.handleBind(ctx, msg)
		case "checkin":
			h.handleCheckin(ctx, msg)
		}
	default:
		if _, ok := checkinKeywords[strings.TrimSpace(msg.Text)]; ok {
			h.handleCheckin(ctx, msg)
		}
	}
}

func (h *Handler) handleStart(msg *tgbotapi.Message) {
	var text string
	if msg.Chat.IsPrivate() {
		text = "👋 <b>Welcome!</b>\n\nSend <code>/bind your@email</code> to link your panel account, then check in once a day for traffic rewards."
	} else {
		text = "👋 <b>Welcome!</b>\n\nUse the button below to bind your account in a private chat."
	}

	h.send(h.htmlMessage(msg.Chat.ID, text, h.bindKeyboard()))
}

func (h *Handler) handleBind(ctx context.Context, msg *tgbotapi.Message) {
	email := strings.TrimSpace(msg.CommandArguments())

	// In group chats the command carries the user's email; remove it before
	// anyone can read it.
	if !msg.Chat.IsPrivate() {
		h.delete(msg.Chat.ID, msg.MessageID)

		if email == "" {
			reply := h.send(h.htmlMessage(msg.Chat.ID, "🚫 For privacy, please bind in a private chat:", h.bindKeyboard()))
			h.deleteLater(msg.Chat.ID, reply)
			return
		}
	}

	if email == "" {
		h.send(h.htmlMessage(msg.Chat.ID, "❌ Usage: <code>/bind your@email</code>", nil))
		return
	}

	result, err := h.bind.Bind(ctx, msg.From.ID, email)
	if err != nil {
		h.send(h.htmlMessage(msg.Chat.ID, renderBindError(err), nil))
		return
	}

	if msg.Chat.IsPrivate() {
		h.send(h.htmlMessage(msg.Chat.ID, renderBind(result), nil))
		return
	}

	reply := h.send(h.htmlMessage(msg.Chat.ID, "✅ <b>Bound!</b>\n(This message self-destructs in 5 seconds.)", nil))
	h.deleteLater(msg.Chat.ID, reply)
}

func (h *Handler) handleCheckin(ctx context.Context, msg *tgbotapi.Message) {
	result, err := h.checkin.Checkin(ctx, msg.From.ID, time.Now().In(h.location))
	if err != nil {
		if errors.Is(err, domain.ErrNotBound) {
			h.send(h.htmlMessage(msg.Chat.ID, "⚠️ You haven't bound an account yet:", h.bindKeyboard()))
			return
		}
		h.send(h.htmlMessage(msg.Chat.ID, renderCheckinError(err), nil))
		return
	}

	h.send(h.htmlMessage(msg.Chat.ID, renderCheckin(result, msg.From.FirstName, h.location), nil))
}

func (h *Handler) bindKeyboard() *tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔒 Bind in private chat", fmt.Sprintf("https://t.me/%s?start=bind", h.api.Self.UserName)),
		),
	)

	return &keyboard
}

func (h *Handler) htmlMessage(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) tgbotapi.MessageConfig {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		m.ReplyMarkup = *keyboard
	}

	return m
}

func (h *Handler) send(msg tgbotapi.MessageConfig) *tgbotapi.Message {
	sent, err := h.api.Send(msg)
	if err != nil {
		logger.Log.Error("error sending telegram message", logger.Int64("chat_id", msg.ChatID), logger.Error(err))
		return nil
	}

	return &sent
}

func (h *Handler) delete(chatID int64, messageID int) {
	if _, err := h.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		logger.Log.Warn("error deleting telegram message", logger.Int64("chat_id", chatID), logger.Error(err))
	}
}

func (h *Handler) deleteLater(chatID int64, msg *tgbotapi.Message) {
	if msg == nil {
		return
	}

	messageID := msg.MessageID
	time.AfterFunc(selfDestructDelay, func() {
		h.delete(chatID, messageID)
	})
}
