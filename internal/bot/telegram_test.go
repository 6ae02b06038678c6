package bot

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func newTestBot(reports Reports, chatID int64) (*TelegramBot, *fakeSender) {
	s := &fakeSender{}
	return &TelegramBot{sender: s, handler: NewHandler(reports), chatID: chatID}, s
}

func TestHandleUpdateRepliesToCommands(t *testing.T) {
	reports := &fakeReports{}
	tb, s := newTestBot(reports, 0)

	tb.handleUpdate(context.Background(), commandUpdate("/standings"))

	require.Len(t, s.sent, 1)
	assert.Equal(t, int64(99), s.sent[0].ChatID)
	assert.Equal(t, "report: standings", s.sent[0].Text)
}

func TestHandleUpdateIgnoresNonCommands(t *testing.T) {
	reports := &fakeReports{}
	tb, s := newTestBot(reports, 0)

	tb.handleUpdate(context.Background(), tgbotapi.Update{})
	tb.handleUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 99}},
	})

	assert.Empty(t, s.sent)
	assert.Empty(t, reports.calls)
}

func TestHandleUpdateSendFailureIsNotFatal(t *testing.T) {
	tb, s := newTestBot(&fakeReports{}, 0)
	s.err = errors.New("telegram down")

	assert.NotPanics(t, func() {
		tb.handleUpdate(context.Background(), commandUpdate("/scores"))
	})
	assert.Len(t, s.sent, 1)
}

func TestSendMessage(t *testing.T) {
	tb, s := newTestBot(&fakeReports{}, 0)
	assert.ErrorIs(t, tb.SendMessage("hi"), ErrChatIDNotSet)
	assert.Empty(t, s.sent)

	tb.chatID = 42
	require.NoError(t, tb.SendMessage("*Week 6*"))
	require.Len(t, s.sent, 1)
	assert.Equal(t, int64(42), s.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, s.sent[0].ParseMode)

	s.err = errors.New("telegram down")
	assert.Error(t, tb.SendMessage("again"))
}
