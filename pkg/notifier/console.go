package notifier

import (
	"context"
	"fmt"
	"io"
)

// ConsoleNotifier prints alerts to a writer, normally stdout.
type ConsoleNotifier struct {
	w io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (c *ConsoleNotifier) Name() string {
	return "console"
}

func (c *ConsoleNotifier) Send(ctx context.Context, alert Alert) error {
	if _, err := fmt.Fprintf(c.w, "[ALERT] %s [%s]\n", alert.Title, alert.Severity); err != nil {
		return fmt.Errorf("failed to write alert: %w", err)
	}
	for _, line := range alert.Lines {
		fmt.Fprintf(c.w, "  - %s\n", line)
	}
	if alert.Link != "" {
		fmt.Fprintf(c.w, "  Full report: %s\n", alert.Link)
	}
	return nil
}
