package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestConsoleNotifier(t *testing.T) {
	out := &bytes.Buffer{}
	n := NewConsoleNotifier(out)

	if err := n.Notify(context.Background(), "42", "Please confirm with /confirm 1234"); err != nil {
		t.Fatal(err)
	}
	if err := n.PostToChannel(context.Background(), "-100", "Mission 1 Completed"); err != nil {
		t.Fatal(err)
	}

	output := out.String()
	for _, w := range []string{"user 42", "/confirm 1234", "channel -100", "Mission 1 Completed"} {
		if !strings.Contains(output, w) {
			t.Errorf("output missing %q: %s", w, output)
		}
	}
}
