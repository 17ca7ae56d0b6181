package tui

import (
	"context"

	"novadash/pkg/cache"
	"novadash/pkg/models"
	"novadash/pkg/router"
	"novadash/pkg/views"
	"novadash/pkg/wallet"
	"novadash/pkg/watcher"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Version is set by Start()
var Version = "dev"

// PortfolioSource scans a wallet into display assets.
type PortfolioSource interface {
	GetWalletPortfolio(ctx context.Context, address string) []models.Asset
}

// ListingSource returns one page of the market listing.
type ListingSource interface {
	GetMarketCoins(ctx context.Context, page int) []models.ExplorerCoin
}

// BalanceChecker runs the balance race for an address.
type BalanceChecker interface {
	CheckBalance(ctx context.Context, address string) models.BalanceReading
}

// LatencyMeter measures round trips to the reference endpoint.
type LatencyMeter interface {
	Measure(ctx context.Context) models.LatencyReading
	Cached() models.LatencyReading
}

// Deps wires the dashboard to its data sources.
type Deps struct {
	Store     *cache.Store
	Router    *router.Router
	Watcher   *watcher.Watcher
	Portfolio PortfolioSource
	Explorer  ListingSource
	Balance   BalanceChecker
	Latency   LatencyMeter
	Wallet    wallet.Capability
	Log       *zap.Logger
}

// --- Messages ---

type clearStatusMsg struct{}

// balanceMsg, portfolioMsg and explorerMsg carry the generation of the
// mount that requested them.
type balanceMsg struct {
	gen     uint64
	reading models.BalanceReading
}

type portfolioMsg struct {
	gen    uint64
	assets []models.Asset
}

type explorerMsg struct {
	gen   uint64
	page  int
	coins []models.ExplorerCoin
}

// latencyTickMsg and latencyMsg carry the interval handle that produced them.
type latencyTickMsg struct {
	handle uint64
}

type latencyMsg struct {
	handle  uint64
	reading models.LatencyReading
}

type accountsMsg struct {
	accounts []string
	err      error
}

// --- Model ---

type model struct {
	ctx  context.Context
	deps Deps
	log  *zap.Logger
	sub  watcher.Subscriber

	mount    router.Mount
	snapshot models.MarketSnapshot
	width    int
	height   int
	spinner  spinner.Model

	statusMessage string
	showHelp      bool
	help          viewport.Model

	// entry
	addressInput textinput.Model
	entryNotice  string

	// overview
	balance        string
	latency        models.LatencyReading
	latencyHandle  uint64
	latencyHistory []float64

	// market
	marketIdx int

	// portfolio
	assets           []models.Asset
	portfolioLoading bool

	// explorer
	explorer    views.ExplorerState
	explorerIdx int
	searching   bool
	searchInput textinput.Model
}

func initialModel(ctx context.Context, d Deps) model {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ai := textinput.New()
	ai.Placeholder = "0x..."
	ai.CharLimit = 42
	ai.Width = 44

	si := textinput.New()
	si.Placeholder = "Filter current page..."
	si.Width = 30

	return model{
		ctx:          ctx,
		deps:         d,
		log:          log,
		sub:          d.Watcher.Subscribe(),
		snapshot:     d.Watcher.Snapshot(),
		spinner:      s,
		help:         viewport.New(0, 0),
		addressInput: ai,
		searchInput:  si,
		balance:      d.Store.Balance(),
		latency:      d.Latency.Cached(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		listenForWatcher(m.sub),
		m.spinner.Tick,
		func() tea.Msg { return startMsg{} },
	)
}

// startMsg mounts the initial view.
type startMsg struct{}
