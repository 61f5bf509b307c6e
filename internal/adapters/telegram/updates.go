package telegram

import (
	"context"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/example/dutybot/internal/adapters/chat"
)

// Dispatcher answers one command.
type Dispatcher interface {
	Dispatch(ctx context.Context, req chat.Request) chat.Response
}

// Run long-polls for updates and dispatches commands until ctx is done or
// the update stream closes. Handlers run concurrently up to a fixed limit.
func (t *Transport) Run(ctx context.Context, d Dispatcher) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.api.GetUpdatesChan(u)
	defer t.api.StopReceivingUpdates()

	var g errgroup.Group
	g.SetLimit(t.workers)
	defer func() { _ = g.Wait() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg := update.Message
			req, ok := t.requestFrom(msg)
			if !ok {
				continue
			}
			g.Go(func() error {
				t.reply(ctx, msg, d.Dispatch(ctx, req))
				return nil
			})
		}
	}
}

// requestFrom turns a command message into a router request. Commands may
// arrive as text or as a photo caption; the largest photo becomes the
// attachment.
func (t *Transport) requestFrom(msg *tgbotapi.Message) (chat.Request, bool) {
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return chat.Request{}, false
	}
	t.users.remember(msg.From)

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return chat.Request{}, false
	}

	args := fields[1:]
	var usernames map[string]string
	for _, a := range args {
		if id, ok := t.users.resolve(a); ok {
			if usernames == nil {
				usernames = map[string]string{}
			}
			usernames[strings.ToLower(a[1:])] = id
		}
	}

	req := chat.Request{
		Operation: fields[0],
		CallerID:  strconv.FormatInt(msg.From.ID, 10),
		ChatID:    strconv.FormatInt(msg.Chat.ID, 10),
		Args:      args,
		Usernames: usernames,
	}
	if n := len(msg.Photo); n > 0 {
		req.Attachment = msg.Photo[n-1].FileID
	}
	return req, true
}

// reply sends the response. Ephemeral replies to group commands go to the
// caller's private chat; if that fails they fall back to the group.
func (t *Transport) reply(ctx context.Context, msg *tgbotapi.Message, resp chat.Response) {
	if resp.Text == "" {
		return
	}
	if resp.Ephemeral && !msg.Chat.IsPrivate() {
		err := t.send(ctx, tgbotapi.NewMessage(msg.From.ID, RenderHTML(resp.Text)))
		if err == nil {
			return
		}
		t.logger.WarnContext(ctx, "private reply failed, answering in chat", "user_id", msg.From.ID, "error", err)
	}
	out := tgbotapi.NewMessage(msg.Chat.ID, RenderHTML(resp.Text))
	out.ReplyToMessageID = msg.MessageID
	if err := t.send(ctx, out); err != nil {
		t.logger.ErrorContext(ctx, "reply failed", "chat_id", msg.Chat.ID, "error", err)
	}
}

// userCache maps @usernames seen in updates to user ids, since the Bot API
// cannot look a username up.
type userCache struct {
	mu    sync.Mutex
	byTag map[string]string
}

func newUserCache() *userCache {
	return &userCache{byTag: map[string]string{}}
}

func (c *userCache) remember(u *tgbotapi.User) {
	if u.UserName == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byTag[strings.ToLower(u.UserName)] = strconv.FormatInt(u.ID, 10)
}

func (c *userCache) resolve(arg string) (string, bool) {
	if !strings.HasPrefix(arg, "@") {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.byTag[strings.ToLower(arg[1:])]
	return id, ok
}
