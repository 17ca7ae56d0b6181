package tui

import (
	"fmt"
	"time"

	"novadash/pkg/explorer"
	"novadash/pkg/models"
	"novadash/pkg/router"
	"novadash/pkg/views"
	"novadash/pkg/wallet"
	"novadash/pkg/watcher"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case startMsg:
		cmd := m.mountCmds(m.deps.Router.Start())
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 4
		m.help.Height = msg.Height - 6
		if m.showHelp {
			m.help.SetContent(renderHelp(m.mount.View, m.help.Width))
		}

	case watcher.Event:
		// Keep listening on the same subscription.
		cmds = append(cmds, listenForWatcher(m.sub))
		if snap, ok := msg.Data.(models.MarketSnapshot); ok {
			m.snapshot = snap
		}

	case balanceMsg:
		if !m.deps.Router.IsCurrent(msg.gen) {
			m.log.Debug("dropping stale balance", zap.Uint64("generation", msg.gen))
			break
		}
		m.balance = msg.reading.Display

	case latencyTickMsg:
		if msg.handle != m.latencyHandle || !m.deps.Router.LatencyRunning(msg.handle) {
			break
		}
		cmds = append(cmds, m.measureCmd(msg.handle), latencyTick(msg.handle))

	case latencyMsg:
		if msg.handle != m.latencyHandle || !m.deps.Router.LatencyRunning(msg.handle) {
			break
		}
		m.latency = msg.reading
		m.latencyHistory = views.PushLatency(m.latencyHistory, msg.reading)

	case portfolioMsg:
		if !m.deps.Router.IsCurrent(msg.gen) {
			break
		}
		m.assets = msg.assets
		m.portfolioLoading = false

	case explorerMsg:
		if !m.deps.Router.IsCurrent(msg.gen) || msg.page != m.explorer.Page {
			break
		}
		m.explorer.Loading = false
		m.explorer.Coins = msg.coins
		m.explorerIdx = 0

	case accountsMsg:
		if m.mount.View != router.ViewEntry {
			break
		}
		switch {
		case errors.Is(msg.err, wallet.ErrNoWallet):
			m.entryNotice = views.NoWalletNotice
		case msg.err != nil:
			m.log.Debug("account request failed", zap.Error(msg.err))
		case len(msg.accounts) == 0:
			m.log.Debug("wallet exposed no accounts")
		default:
			return m.login(msg.accounts[0])
		}

	case clearStatusMsg:
		m.statusMessage = ""

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		switch key {
		case "?", "esc", "q":
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}

	if m.mount.View == router.ViewEntry {
		return m.handleEntryKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		m.help.SetContent(renderHelp(m.mount.View, m.help.Width))
		m.help.GotoTop()
		return m, nil
	case "1", "2", "3", "4", "5":
		idx := int(key[0] - '1')
		return m.navigate(router.NavViews[idx])
	case "tab":
		return m.navigate(m.cycleView(1))
	case "shift+tab":
		return m.navigate(m.cycleView(-1))
	case "r":
		m.statusMessage = "Refreshing market data..."
		return m, tea.Batch(m.refreshCmd(), clearStatusAfter(2*time.Second))
	}

	switch m.mount.View {
	case router.ViewMarket:
		return m.handleMarketKey(key)
	case router.ViewExplorer:
		return m.handleExplorerKey(key)
	case router.ViewSettings:
		return m.handleSettingsKey(key)
	}
	return m, nil
}

func (m model) cycleView(step int) router.View {
	n := len(router.NavViews)
	for i, v := range router.NavViews {
		if v == m.mount.View {
			return router.NavViews[((i+step)%n+n)%n]
		}
	}
	return router.HomeView
}

func (m model) navigate(v router.View) (tea.Model, tea.Cmd) {
	mt, err := m.deps.Router.Navigate(v)
	if err != nil {
		m.log.Warn("navigate", zap.Error(err))
		return m, nil
	}
	cmd := m.mountCmds(mt)
	return m, cmd
}

func (m model) login(address string) (tea.Model, tea.Cmd) {
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		m.entryNotice = "That does not look like a wallet address."
		return m, nil
	}
	mt, err := m.deps.Router.Login(addr)
	if err != nil {
		m.log.Warn("login", zap.Error(err))
		m.entryNotice = "Could not save the session."
		return m, nil
	}
	m.entryNotice = ""
	m.addressInput.Blur()
	cmd := m.mountCmds(mt)
	return m, cmd
}

func (m model) handleEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		return m.login(m.addressInput.Value())
	case "ctrl+w":
		if m.deps.Wallet == nil {
			m.entryNotice = views.NoWalletNotice
			return m, nil
		}
		m.entryNotice = ""
		return m, m.requestAccountsCmd()
	}
	var cmd tea.Cmd
	m.addressInput, cmd = m.addressInput.Update(msg)
	return m, cmd
}

func (m model) handleMarketKey(key string) (tea.Model, tea.Cmd) {
	n := views.MarketCardCount()
	switch key {
	case "left", "h", "up", "k":
		m.marketIdx = (m.marketIdx - 1 + n) % n
	case "right", "l", "down", "j":
		m.marketIdx = (m.marketIdx + 1) % n
	case "o":
		return m.open(views.BuildMarket(m.snapshot, m.marketIdx).ChartURL)
	}
	return m, nil
}

func (m model) handleExplorerKey(key string) (tea.Model, tea.Cmd) {
	rows := explorer.Filter(m.explorer.Coins, m.explorer.Search)
	switch key {
	case "/":
		m.searching = true
		cmd := m.searchInput.Focus()
		return m, cmd
	case "up", "k":
		if m.explorerIdx > 0 {
			m.explorerIdx--
		}
	case "down", "j":
		if m.explorerIdx < len(rows)-1 {
			m.explorerIdx++
		}
	case "enter":
		if m.explorerIdx < len(rows) {
			m.explorer.Chart = explorer.ChartSymbol(rows[m.explorerIdx].Symbol)
		}
	case "o":
		return m.open(views.ChartURL(views.BuildExplorer(m.explorer).ChartSymbol))
	case "n", "right", "l":
		return m.loadPage(m.explorer.Page + 1)
	case "p", "left", "h":
		return m.loadPage(m.explorer.Page - 1)
	case "g":
		return m.loadPage(1)
	case "G":
		return m.loadPage(explorer.TotalPages())
	}
	return m, nil
}

func (m model) loadPage(page int) (tea.Model, tea.Cmd) {
	if page < 1 || page > explorer.TotalPages() || page == m.explorer.Page {
		return m, nil
	}
	chart := m.explorer.Chart
	m.explorer = exploreState(page)
	m.explorer.Chart = chart
	m.explorer.Search = m.searchInput.Value()
	m.explorerIdx = 0
	return m, m.explorerCmd(m.mount.Generation, page)
}

func (m model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.explorer.Search = m.searchInput.Value()
	m.explorerIdx = 0
	return m, cmd
}

func (m model) handleSettingsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "c":
		if err := clipboard.WriteAll(m.deps.Store.Wallet()); err != nil {
			m.statusMessage = "Failed to copy to clipboard"
		} else {
			m.statusMessage = "Full address copied to clipboard!"
		}
		return m, clearStatusAfter(2 * time.Second)
	case "L":
		mt := m.deps.Router.Logout()
		m.balance = m.deps.Store.Balance()
		m.latency = m.deps.Latency.Cached()
		m.latencyHistory = nil
		m.assets = nil
		cmd := m.mountCmds(mt)
		return m, cmd
	}
	return m, nil
}

func (m model) open(url string) (tea.Model, tea.Cmd) {
	if err := openBrowser(url); err != nil {
		m.statusMessage = fmt.Sprintf("Failed to open browser: %v", err)
	} else {
		m.statusMessage = "Opened in browser"
	}
	return m, clearStatusAfter(2 * time.Second)
}
