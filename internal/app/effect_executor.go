package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/dutybot/internal/core/effects"
	"github.com/example/dutybot/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place platform I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor against the chat platform.
type DefaultEffectExecutor struct {
	notifier secondary.Notifier
	roles    secondary.RoleGranter
	logger   *slog.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(notifier secondary.Notifier, roles secondary.RoleGranter, logger *slog.Logger) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		notifier: notifier,
		roles:    roles,
		logger:   logger,
	}
}

// Execute runs every effect in order. A failing effect does not stop the
// rest; all failures are joined into the returned error.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	var errs []error
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			errs = append(errs, fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err))
		}
	}
	return errors.Join(errs...)
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.NotifyEffect:
		return e.notifier.Notify(ctx, typed.UserID, typed.Message)
	case effects.PostEffect:
		return e.notifier.PostToChannel(ctx, typed.ChannelID, typed.Content)
	case effects.RoleEffect:
		return e.executeRole(ctx, typed)
	case effects.LogEffect:
		e.log(ctx, typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeRole(ctx context.Context, eff effects.RoleEffect) error {
	switch eff.Operation {
	case "add":
		return e.roles.AddRole(ctx, eff.UserID, eff.RoleID)
	case "remove":
		return e.roles.RemoveRole(ctx, eff.UserID, eff.RoleID)
	default:
		return fmt.Errorf("unknown role operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) log(ctx context.Context, eff effects.LogEffect) {
	level := slog.LevelInfo
	switch eff.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	attrs := make([]any, 0, len(eff.Fields)*2)
	for _, k := range sortedKeys(eff.Fields) {
		attrs = append(attrs, k, eff.Fields[k])
	}
	e.logger.Log(ctx, level, eff.Message, attrs...)
}
