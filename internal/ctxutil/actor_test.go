package ctxutil

import (
	"context"
	"testing"
)

func TestActorAndRequestID(t *testing.T) {
	ctx := context.Background()
	if got := ActorFromContext(ctx); got != "" {
		t.Errorf("ActorFromContext(empty) = %q", got)
	}

	ctx = WithRequestID(WithActorID(ctx, "42"), "req-1")
	if got := ActorFromContext(ctx); got != "42" {
		t.Errorf("ActorFromContext() = %q, want 42", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext() = %q, want req-1", got)
	}
}
