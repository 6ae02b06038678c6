package bot

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/smallery/sleeper-fantasy-api/internal/logging"
)

const pollTimeoutSeconds = 60

var ErrChatIDNotSet = errors.New("chat ID not set")

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramBot answers chat commands through a Handler and pushes scheduled
// reports to the configured chat.
type TelegramBot struct {
	api     *tgbotapi.BotAPI
	sender  sender
	handler *Handler
	chatID  int64
	logger  *slog.Logger
}

func NewTelegramBot(token string, chatID int64, reports Reports, logger *slog.Logger) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &TelegramBot{
		api:     api,
		sender:  api,
		handler: NewHandler(reports),
		chatID:  chatID,
		logger:  logger,
	}, nil
}

// Start long-polls for updates until ctx is cancelled.
func (t *TelegramBot) Start(ctx context.Context) error {
	if t.logger != nil {
		t.logger.Info("telegram bot authorized", "username", t.api.Self.UserName)
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds
	updates := t.api.GetUpdatesChan(cfg)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate replies to command messages and ignores everything else.
func (t *TelegramBot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	logging.Debug(t.logger, "handling command",
		"command", update.Message.Command(), "chat_id", update.Message.Chat.ID)

	reply := t.handler.HandleCommand(ctx, update)
	if _, err := t.sender.Send(reply); err != nil {
		logging.Warn(t.logger, "could not send reply", "command", update.Message.Command(), "error", err)
	}
}

// SendMessage posts Markdown text to the configured chat.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return ErrChatIDNotSet
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.sender.Send(msg); err != nil {
		logging.Warn(t.logger, "could not send message", "chat_id", t.chatID, "error", err)
		return err
	}
	return nil
}
