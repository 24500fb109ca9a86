package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/idilsaglam/itemdesk/internal/ui"
)

var (
	mdMu sync.Mutex
	// Renderers keyed by style and wrap width. A fixed style avoids the
	// terminal background query WithAutoStyle performs.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func markdownStyle() string {
	if ui.Current().Name == "mono" {
		return styles.NoTTYStyle
	}
	return styles.DarkStyle
}

// renderMarkdown renders an item description for the detail view. Rendering
// errors fall back to the raw text.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	style := markdownStyle()
	k := style + ":" + strconv.Itoa(width)

	mdMu.Lock()
	defer mdMu.Unlock()
	r := mdRenderers[k]
	if r == nil {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[k] = r
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
