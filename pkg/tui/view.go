package tui

import (
	"fmt"
	"strings"

	"novadash/pkg/router"
	"novadash/pkg/utils"
	"novadash/pkg/views"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

func (m model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}
	if m.mount.View == "" {
		return m.spinner.View() + " Starting..."
	}
	if m.mount.View == router.ViewEntry {
		return m.viewEntry()
	}

	var content string
	switch m.mount.View {
	case router.ViewDashboard:
		content = m.viewOverview()
	case router.ViewMarket:
		content = m.viewMarket()
	case router.ViewPortfolio:
		content = m.viewPortfolio()
	case router.ViewExplorer:
		content = m.viewExplorer()
	case router.ViewSettings:
		content = m.viewSettings()
	}

	footer := subtleStyle.Render("1-5/tab: views • r: refresh • ?: help • q: quit")
	if m.statusMessage != "" {
		footer = infoStyle.Render(m.statusMessage)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		m.viewTicker(),
		"",
		content,
		"",
		footer,
	)
}

func (m model) viewHeader() string {
	var items []string
	for i, v := range router.NavViews {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if v == m.mount.View {
			items = append(items, menuActiveStyle.Render(label))
		} else {
			items = append(items, menuStyle.Render(label))
		}
	}
	wallet := infoStyle.Render("● " + utils.ShortAddress(m.deps.Store.Wallet()))
	return lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("NOVA"), " ", strings.Join(items, ""), "  ", wallet)
}

func (m model) viewTicker() string {
	var parts []string
	for _, it := range views.Ticker(m.snapshot) {
		style := upStyle
		if !it.Up {
			style = downStyle
		}
		parts = append(parts, fmt.Sprintf("%s %s", subtleStyle.Render(it.Label), style.Render(it.Value)))
	}
	return strings.Join(parts, "   ")
}

func (m model) viewEntry() string {
	e := views.BuildEntry(m.deps.Wallet != nil, m.entryNotice)
	lines := []string{
		titleStyle.Render(e.Title),
		"",
		e.Prompt,
		"",
		m.addressInput.View(),
	}
	if e.Notice != "" {
		lines = append(lines, "", errStyle.Render(e.Notice))
	}
	lines = append(lines, "", subtleStyle.Render("enter: continue • esc/ctrl+c: quit"))
	box := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	if m.width == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m model) viewHelp() string {
	header := titleStyle.Render(fmt.Sprintf("Help: %s", m.mount.View.Title()))
	footer := subtleStyle.Render("Press '?' or 'esc' to close")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.help.View(), footer)
}

func card(label, value, note string, valueStyle lipgloss.Style) string {
	return boxStyle.Width(30).Render(lipgloss.JoinVertical(lipgloss.Left,
		subtleStyle.Render(strings.ToUpper(label)),
		valueStyle.Render(value),
		subtleStyle.Render(note),
	))
}

func (m model) viewOverview() string {
	o := views.BuildOverview(m.deps.Store.Wallet(), m.balance, m.latency, m.latencyHistory)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Net Worth (ETH)", o.Balance, o.BalanceNote, valueStyle),
		" ",
		card("Network Latency", o.Latency.Display, "Real-time RTT", latencyStyle(o.Latency.Tier)),
	)

	graph := subtleStyle.Render("Collecting latency samples...")
	if len(o.History) >= 2 {
		width := m.width - 12
		if width < 20 {
			width = 40
		}
		graph = asciigraph.Plot(o.History,
			asciigraph.Height(6),
			asciigraph.Width(width),
			asciigraph.Caption("Round trip (ms)"),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(o.Title), "", cards, "", graph)
}

func (m model) viewMarket() string {
	mk := views.BuildMarket(m.snapshot, m.marketIdx)
	var cards []string
	for _, c := range mk.Cards {
		style := boxStyle
		if c.Selected {
			style = selectedBoxStyle
		}
		cards = append(cards, style.Width(22).Render(lipgloss.JoinVertical(lipgloss.Left,
			subtleStyle.Render(strings.ToUpper(c.Label)),
			valueStyle.Render(c.Price),
		)))
	}
	chart := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Chart: %s", valueStyle.Render(mk.ChartSymbol)),
		subtleStyle.Render(mk.ChartURL),
	))
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(mk.Title),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		chart,
		subtleStyle.Render("←/→: select • o: open chart"),
	)
}

func (m model) viewPortfolio() string {
	p := views.BuildPortfolio(m.deps.Store.Wallet(), m.assets, m.portfolioLoading)
	header := titleStyle.Render(p.Title)
	total := card("Net Worth", p.Total, "On-Chain Assets (Ethereum Mainnet)", valueStyle)

	if p.Message != "" && len(p.Rows) == 0 {
		msg := p.Message
		if p.Loading {
			msg = m.spinner.View() + " " + msg + "\n" + subtleStyle.Render("Powered by Ethplorer")
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, "", total, "", msg)
	}

	rows := []string{
		fmt.Sprintf("%s  %s",
			tableHeaderStyle.Render(fmt.Sprintf("%-28s %16s %16s", "Top 10 Holdings", "Balance", "Value")),
			subtleStyle.Render(p.Count)),
	}
	for _, r := range p.Rows {
		line := fmt.Sprintf("%-8s %-19s %16s %16s",
			r.Symbol, utils.TruncateString(r.Name, 19), r.Balance, r.Value)
		if r.Muted {
			line = subtleStyle.Render(line)
		}
		rows = append(rows, line)
	}

	alloc := []string{tableHeaderStyle.Render("Allocation")}
	for _, s := range p.Allocation {
		if p.Empty {
			alloc = append(alloc, subtleStyle.Render(s.Label))
			break
		}
		bar := strings.Repeat("█", int(s.Share*20+0.5))
		alloc = append(alloc, fmt.Sprintf("%-6s %-20s %5.1f%%", s.Label, infoStyle.Render(bar), s.Share*100))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header, "", total, "",
		lipgloss.JoinHorizontal(lipgloss.Top,
			boxStyle.Render(strings.Join(rows, "\n")),
			" ",
			boxStyle.Render(strings.Join(alloc, "\n")),
		),
	)
}

func (m model) viewExplorer() string {
	e := views.BuildExplorer(m.explorer)

	search := subtleStyle.Render("/: filter current page")
	if m.searching || e.Search != "" {
		search = m.searchInput.View()
	}
	head := lipgloss.JoinHorizontal(lipgloss.Center, titleStyle.Render(e.Title), "  ", search)
	chart := subtleStyle.Render(fmt.Sprintf("Chart: %s • o: open", e.ChartSymbol))

	var body []string
	body = append(body, tableHeaderStyle.Render(fmt.Sprintf("%-5s %-22s %14s %12s %14s %14s %12s %12s",
		"#", "Asset", "Price", "24h", "Low", "High", "Mkt Cap", "Volume")))
	if e.Message != "" {
		msg := e.Message
		if e.Loading {
			msg = m.spinner.View() + " " + msg
		}
		body = append(body, "", subtleStyle.Render(msg))
	}
	for i, r := range e.Rows {
		change := upStyle.Render(fmt.Sprintf("%12s", r.Change))
		if !r.Up {
			change = downStyle.Render(fmt.Sprintf("%12s", r.Change))
		}
		line := fmt.Sprintf("%-5s %-22s %14s %s %14s %14s %12s %12s",
			r.Rank, utils.TruncateString(r.Name+" "+r.Symbol, 22), r.Price, change, r.Low, r.High, r.MarketCap, r.Volume)
		if i == m.explorerIdx {
			line = menuActiveStyle.Render("›") + line
		} else {
			line = " " + line
		}
		body = append(body, line)
	}

	pages := subtleStyle.Render("Loading...")
	if !e.Loading {
		var btns []string
		for _, b := range e.Pagination {
			switch {
			case b.Ellipsis:
				btns = append(btns, subtleStyle.Render(b.Label))
			case b.Active:
				btns = append(btns, menuActiveStyle.Render("["+b.Label+"]"))
			default:
				btns = append(btns, menuStyle.Render(b.Label))
			}
		}
		pages = strings.Join(btns, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		head, chart, "",
		boxStyle.Render(strings.Join(body, "\n")),
		pages,
		subtleStyle.Render("↑/↓: select • enter: chart • n/p: page • g/G: first/last"),
	)
}

func (m model) viewSettings() string {
	s := views.BuildSettings(m.deps.Store.Wallet(), m.deps.Store.Path())
	lines := []string{
		fmt.Sprintf("Wallet:  %s", valueStyle.Render(s.Wallet)),
		fmt.Sprintf("Session: %s", subtleStyle.Render(s.Session)),
		"",
		"c: copy address",
		errStyle.Render("L: DISCONNECT WALLET"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(s.Title), "", boxStyle.Render(strings.Join(lines, "\n")))
}
