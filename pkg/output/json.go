package output

import (
	"io"

	"github.com/secwatch/sectest-insights/pkg/reporter"
)

// JSONHandler writes the report as indented JSON.
type JSONHandler struct{}

func (h *JSONHandler) Format() string { return "json" }

func (h *JSONHandler) Render(w io.Writer, r *reporter.Report) error {
	return reporter.RenderJSON(w, r)
}
