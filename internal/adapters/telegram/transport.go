// Package telegram connects the chat router to the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/example/dutybot/internal/adapters/chat"
	"github.com/example/dutybot/internal/apperr"
	"github.com/example/dutybot/internal/ports/secondary"
)

const (
	defaultMaxTries = 4
	defaultWorkers  = 8
)

// botAPI is the subset of *tgbotapi.BotAPI the transport uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Transport sends bot output to Telegram and feeds incoming commands to a
// Dispatcher.
type Transport struct {
	api        botAPI
	limiter    *rate.Limiter
	logger     *slog.Logger
	users      *userCache
	newBackOff func() backoff.BackOff
	maxTries   uint
	workers    int
}

// New connects to the Bot API with token.
func New(token string, sendRate float64, logger *slog.Logger) (*Transport, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	logger.Info("connected to telegram", "bot", api.Self.UserName)
	return newTransport(api, sendRate, logger), nil
}

func newTransport(api botAPI, sendRate float64, logger *slog.Logger) *Transport {
	burst := int(sendRate)
	if burst < 1 {
		burst = 1
	}
	return &Transport{
		api:        api,
		limiter:    rate.NewLimiter(rate.Limit(sendRate), burst),
		logger:     logger,
		users:      newUserCache(),
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		maxTries:   defaultMaxTries,
		workers:    defaultWorkers,
	}
}

var _ secondary.Notifier = (*Transport)(nil)

// Notify sends a direct message. Telegram user ids double as private chat ids.
func (t *Transport) Notify(ctx context.Context, userID, message string) error {
	chatID, err := parseChatID(userID)
	if err != nil {
		return err
	}
	return t.send(ctx, tgbotapi.NewMessage(chatID, RenderHTML(message)))
}

// PostToChannel posts to a group or channel.
func (t *Transport) PostToChannel(ctx context.Context, channelID, message string) error {
	chatID, err := parseChatID(channelID)
	if err != nil {
		return err
	}
	return t.send(ctx, tgbotapi.NewMessage(chatID, RenderHTML(message)))
}

// RegisterCommands publishes the command list shown in Telegram clients.
func (t *Transport) RegisterCommands(commands []chat.Command) error {
	botCommands := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, c := range commands {
		botCommands = append(botCommands, tgbotapi.BotCommand{Command: c.Name, Description: c.Description})
	}
	if _, err := t.api.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	return nil
}

func (t *Transport) send(ctx context.Context, msg tgbotapi.MessageConfig) error {
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := backoff.Retry(ctx, func() (tgbotapi.Message, error) {
		sent, err := t.api.Send(msg)
		if err != nil {
			return sent, classifySendError(err)
		}
		return sent, nil
	},
		backoff.WithBackOff(t.newBackOff()),
		backoff.WithMaxTries(t.maxTries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			t.logger.WarnContext(ctx, "telegram send failed, retrying", "chat_id", msg.ChatID, "error", err, "wait", wait)
		}),
	)
	if err != nil {
		return fmt.Errorf("send to %d: %w", msg.ChatID, err)
	}
	return nil
}

// classifySendError marks client errors permanent and honours flood waits.
func classifySendError(err error) error {
	var tgErr *tgbotapi.Error
	if !errors.As(err, &tgErr) {
		return err
	}
	if tgErr.RetryAfter > 0 {
		return backoff.RetryAfter(tgErr.RetryAfter)
	}
	if tgErr.Code >= 400 && tgErr.Code < 500 {
		return backoff.Permanent(err)
	}
	return err
}

func parseChatID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrValidation, "%q is not a telegram chat id", id)
	}
	return n, nil
}
