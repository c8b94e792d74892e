package output

import (
	"fmt"
	"io"

	"github.com/secwatch/sectest-insights/pkg/reporter"
)

// Handler renders a finished report for the CLI.
type Handler interface {
	Render(w io.Writer, report *reporter.Report) error
	Format() string
}

// ForFormat returns the handler for an --output value. Empty selects text.
func ForFormat(format string) (Handler, error) {
	switch format {
	case "", "text":
		return &TextHandler{}, nil
	case "json":
		return &JSONHandler{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}
