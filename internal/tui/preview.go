package tui

import (
	"strconv"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width. Building one with WithAutoStyle can
	// trigger terminal background queries that block on some terminals, so
	// a fixed style is used and renderers are reused across redraws.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders note text for the preview pane, falling back to the
// raw text when rendering fails.
func renderMarkdown(md string, width int) string {
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	key := strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
