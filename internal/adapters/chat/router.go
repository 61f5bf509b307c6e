// Package chat routes chat commands to the application services. It is the
// transport-independent half of the bot: transports turn platform updates
// into a Request and render the Response.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/dutybot/internal/apperr"
	"github.com/example/dutybot/internal/ctxutil"
	"github.com/example/dutybot/internal/ports/primary"
)

// Request is one command invocation.
type Request struct {
	Operation  string   // command name without the leading slash
	CallerID   string   // platform user id of the caller
	ChatID     string   // chat the command was sent in, used as a default channel
	Args       []string // whitespace-split arguments
	Attachment string   // platform reference of an attached image, if any
	// Usernames maps lowercased @usernames in Args to user ids when the
	// transport knows them. Args themselves are left as typed.
	Usernames map[string]string
}

// Response is the reply to a command. Ephemeral replies are shown only to
// the caller.
type Response struct {
	Text      string
	Ephemeral bool
}

// Command describes one routed command.
type Command struct {
	Name        string
	Usage       string
	Description string
	Category    string
	Manager     bool // requires a rank allowed to manage levels
}

type handler func(ctx context.Context, req Request) (Response, error)

type route struct {
	Command
	handle handler
}

// Router dispatches commands to the services.
type Router struct {
	duty     primary.DutyService
	missions primary.MissionService
	economy  primary.EconomyService
	setup    primary.SetupService
	logger   *slog.Logger
	now      func() time.Time
	routes   map[string]route
}

// NewRouter creates a Router with every command registered.
func NewRouter(
	duty primary.DutyService,
	missions primary.MissionService,
	economy primary.EconomyService,
	setup primary.SetupService,
	logger *slog.Logger,
) *Router {
	r := &Router{
		duty:     duty,
		missions: missions,
		economy:  economy,
		setup:    setup,
		logger:   logger,
		now:      time.Now,
		routes:   map[string]route{},
	}
	r.registerDuty()
	r.registerMissions()
	r.registerEconomy()
	r.registerSetup()
	r.register(Command{Name: "ping", Usage: "/ping", Description: "Check that the bot is alive", Category: "General"}, r.handlePing)
	r.register(Command{Name: "help", Usage: "/help [command]", Description: "Display the help message", Category: "General"}, r.handleHelp)
	return r
}

func (r *Router) register(cmd Command, h handler) {
	r.routes[cmd.Name] = route{Command: cmd, handle: h}
}

// Commands lists the registered commands sorted by category then name.
func (r *Router) Commands() []Command {
	out := make([]Command, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, rt.Command)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Dispatch runs one command and always produces a reply. Failures become
// ephemeral error text; unexpected ones are logged.
func (r *Router) Dispatch(ctx context.Context, req Request) (resp Response) {
	op := strings.ToLower(strings.TrimPrefix(req.Operation, "/"))
	if i := strings.IndexByte(op, '@'); i >= 0 {
		op = op[:i]
	}

	requestID := uuid.NewString()
	ctx = ctxutil.WithRequestID(ctxutil.WithActorID(ctx, req.CallerID), requestID)
	logger := r.logger.With("request_id", requestID, "op", op, "caller", req.CallerID)
	defer func() {
		if p := recover(); p != nil {
			resp = r.errorResponse(ctx, logger, fmt.Errorf("panic: %v", p))
		}
	}()

	rt, ok := r.routes[op]
	if !ok {
		return Response{Text: fmt.Sprintf("Unknown command /%s. Try /help.", op), Ephemeral: true}
	}

	if rt.Manager {
		if err := r.setup.RequireManager(ctx, req.CallerID); err != nil {
			return r.errorResponse(ctx, logger, err)
		}
	}

	start := r.now()
	resp, err := rt.handle(ctx, req)
	if err != nil {
		return r.errorResponse(ctx, logger, err)
	}
	logger.DebugContext(ctx, "command handled", "elapsed", r.now().Sub(start))
	return resp
}

func (r *Router) errorResponse(ctx context.Context, logger *slog.Logger, err error) Response {
	var usage usageError
	if errors.As(err, &usage) {
		return Response{Text: "Usage: " + string(usage), Ephemeral: true}
	}
	kind := apperr.Kind(err)
	if kind == nil {
		logger.ErrorContext(ctx, "command failed", "error", err)
		return Response{Text: "Something went wrong: " + err.Error(), Ephemeral: true}
	}
	logger.InfoContext(ctx, "command refused", "kind", kind.Error(), "error", err)
	return Response{Text: userMessage(err, kind), Ephemeral: true}
}

// userMessage strips wrapping prefixes and the sentinel text, leaving the
// human-readable reason.
func userMessage(err, kind error) string {
	msg := err.Error()
	marker := kind.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

func (r *Router) handlePing(ctx context.Context, req Request) (Response, error) {
	start := r.now()
	if _, err := r.duty.OnDuty(ctx); err != nil {
		return Response{}, err
	}
	return Response{Text: fmt.Sprintf("Pong! %dms", r.now().Sub(start).Milliseconds())}, nil
}

func (r *Router) handleHelp(ctx context.Context, req Request) (Response, error) {
	if len(req.Args) > 0 {
		name := strings.ToLower(strings.TrimPrefix(req.Args[0], "/"))
		rt, ok := r.routes[name]
		if !ok {
			return Response{}, apperr.Wrap(apperr.ErrNotFound, "No command named /%s", name)
		}
		return Response{Text: fmt.Sprintf("%s\n%s", rt.Usage, rt.Description), Ephemeral: true}, nil
	}

	var b strings.Builder
	category := ""
	for _, cmd := range r.Commands() {
		if cmd.Category != category {
			if category != "" {
				b.WriteString("\n")
			}
			category = cmd.Category
			fmt.Fprintf(&b, "%s:\n", category)
		}
		fmt.Fprintf(&b, "  %s - %s\n", cmd.Usage, cmd.Description)
	}
	return Response{Text: strings.TrimRight(b.String(), "\n"), Ephemeral: true}, nil
}

// withWarnings appends operation warnings to a reply.
func withWarnings(text string, warnings []string) string {
	if len(warnings) == 0 {
		return text
	}
	return text + "\nWarning: " + strings.Join(warnings, "\nWarning: ")
}
