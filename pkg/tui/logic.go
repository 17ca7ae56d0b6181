package tui

import (
	"time"

	"novadash/pkg/monitor"
	"novadash/pkg/router"
	"novadash/pkg/views"
	"novadash/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
)

func listenForWatcher(sub watcher.Subscriber) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub
		if !ok {
			return nil
		}
		return ev
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// mountCmds starts the work listed in the mounted view's lifecycle.
func (m *model) mountCmds(mt router.Mount) tea.Cmd {
	m.mount = mt
	m.latencyHandle = 0
	m.searching = false
	m.searchInput.Blur()

	var cmds []tea.Cmd
	wallet := m.deps.Store.Wallet()
	lc := mt.Lifecycle

	if mt.View == router.ViewEntry {
		m.addressInput.SetValue("")
		cmds = append(cmds, m.addressInput.Focus())
	}
	if lc.Balance {
		m.balance = m.deps.Store.Balance()
		cmds = append(cmds, m.checkBalanceCmd(mt.Generation, wallet))
	}
	if lc.Latency {
		m.latency = m.deps.Latency.Cached()
		m.latencyHandle = m.deps.Router.StartLatency()
		cmds = append(cmds, m.measureCmd(m.latencyHandle), latencyTick(m.latencyHandle))
	}
	if lc.MarketRefresh {
		cmds = append(cmds, m.refreshCmd())
	}
	if lc.Portfolio {
		m.assets = nil
		m.portfolioLoading = wallet != ""
		if wallet != "" {
			cmds = append(cmds, m.portfolioCmd(mt.Generation, wallet))
		}
	}
	if lc.Explorer {
		m.explorer = exploreState(1)
		m.explorerIdx = 0
		m.searchInput.SetValue("")
		cmds = append(cmds, m.explorerCmd(mt.Generation, 1))
	}
	return tea.Batch(cmds...)
}

func exploreState(page int) views.ExplorerState {
	return views.ExplorerState{Page: page, Loading: true}
}

func (m model) checkBalanceCmd(gen uint64, address string) tea.Cmd {
	ctx, balance := m.ctx, m.deps.Balance
	return func() tea.Msg {
		return balanceMsg{gen: gen, reading: balance.CheckBalance(ctx, address)}
	}
}

func latencyTick(handle uint64) tea.Cmd {
	return tea.Tick(monitor.LatencyInterval, func(time.Time) tea.Msg {
		return latencyTickMsg{handle: handle}
	})
}

func (m model) measureCmd(handle uint64) tea.Cmd {
	ctx, r, meter := m.ctx, m.deps.Router, m.deps.Latency
	return func() tea.Msg {
		if !r.LatencyRunning(handle) {
			return nil
		}
		return latencyMsg{handle: handle, reading: meter.Measure(ctx)}
	}
}

func (m model) refreshCmd() tea.Cmd {
	ctx, w := m.ctx, m.deps.Watcher
	return func() tea.Msg {
		w.Refresh(ctx)
		return nil
	}
}

func (m model) portfolioCmd(gen uint64, address string) tea.Cmd {
	ctx, src := m.ctx, m.deps.Portfolio
	return func() tea.Msg {
		return portfolioMsg{gen: gen, assets: src.GetWalletPortfolio(ctx, address)}
	}
}

func (m model) explorerCmd(gen uint64, page int) tea.Cmd {
	ctx, src := m.ctx, m.deps.Explorer
	return func() tea.Msg {
		return explorerMsg{gen: gen, page: page, coins: src.GetMarketCoins(ctx, page)}
	}
}

func (m model) requestAccountsCmd() tea.Cmd {
	ctx, w := m.ctx, m.deps.Wallet
	return func() tea.Msg {
		accounts, err := w.RequestAccounts(ctx)
		return accountsMsg{accounts: accounts, err: err}
	}
}
