package tui

import (
	"fmt"
	"strings"

	"novadash/pkg/router"

	"github.com/charmbracelet/glamour"
)

const globalHelp = `
| Key | Action |
|-----|--------|
| 1-5 | Jump to Overview, Market, Portfolio, Explorer, Settings |
| tab / shift+tab | Next / previous view |
| r | Refresh market data now |
| ? | Toggle this help |
| q / esc | Quit |
`

var viewHelp = map[router.View]string{
	router.ViewDashboard: `
Balance is looked up through the configured wallet endpoint. If it does not
answer within two seconds a placeholder balance is shown.

Network latency is measured every five seconds while this view is open.
`,
	router.ViewMarket: `
| Key | Action |
|-----|--------|
| ←/→ h/l | Select asset card |
| o | Open the selected chart in a browser |
`,
	router.ViewPortfolio: `
Holdings are sorted by USD value. The top 10 are listed; the total covers every asset.
`,
	router.ViewExplorer: `
| Key | Action |
|-----|--------|
| ↑/↓ j/k | Move selection |
| enter | Chart the selected coin |
| o | Open the chart in a browser |
| n / p | Next / previous page |
| g / G | First / last page |
| / | Filter the current page by name or symbol |
`,
	router.ViewSettings: `
| Key | Action |
|-----|--------|
| c | Copy wallet address |
| L | Disconnect wallet and clear the session |
`,
}

// helpMarkdown assembles the help page for v.
func helpMarkdown(v router.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# NOVA %s\n\n## %s\n", Version, v.Title())
	if text, ok := viewHelp[v]; ok {
		b.WriteString(text)
	}
	b.WriteString("\n## Everywhere\n")
	b.WriteString(globalHelp)
	return b.String()
}

// renderHelp renders the help page, falling back to the raw markdown.
func renderHelp(v router.View, width int) string {
	md := helpMarkdown(v)
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
