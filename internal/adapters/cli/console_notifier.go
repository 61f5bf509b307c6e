package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/example/dutybot/internal/ports/secondary"
)

// ConsoleNotifier prints platform messages instead of delivering them. It
// stands in for the chat transport when commands run from a terminal.
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleNotifier creates a ConsoleNotifier writing to out.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

var _ secondary.Notifier = (*ConsoleNotifier)(nil)

// Notify prints a direct message.
func (n *ConsoleNotifier) Notify(ctx context.Context, userID, message string) error {
	return n.print(color.New(color.FgCyan).Sprintf("→ user %s", userID), message)
}

// PostToChannel prints a channel post.
func (n *ConsoleNotifier) PostToChannel(ctx context.Context, channelID, message string) error {
	return n.print(color.New(color.FgBlue).Sprintf("→ channel %s", channelID), message)
}

func (n *ConsoleNotifier) print(header, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.out, "%s\n%s\n\n", header, message)
	return err
}
