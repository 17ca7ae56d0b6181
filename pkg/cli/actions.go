package cli

import (
	"context"
	"fmt"

	"novadash/pkg/explorer"
	"novadash/pkg/market"
	"novadash/pkg/models"
	"novadash/pkg/portfolio"
	"novadash/pkg/server"
	"novadash/pkg/tui"
	"novadash/pkg/utils"
	"novadash/pkg/views"
	"novadash/pkg/wallet"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNoAddress is returned when a command needs a wallet and none is stored.
var ErrNoAddress = errors.New("no wallet address: pass one or run 'novadash login <address>'")

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

// Dashboard runs the terminal UI with the snapshot watcher in the background.
func (a *App) Dashboard(ctx context.Context) error {
	w := a.Watcher()
	w.Start(ctx)
	defer w.Stop()
	return tui.Start(ctx, a.Deps(w), Version)
}

// Serve runs the HTTP server with the snapshot watcher in the background.
func (a *App) Serve(ctx context.Context, port int, staticDir string) error {
	w := a.Watcher()
	w.Start(ctx)
	defer w.Stop()
	return server.NewServer(w, staticDir, a.Log.Named("server")).Start(ctx, port)
}

// Login stores address as the session wallet.
func (a *App) Login(address string) (string, error) {
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return "", err
	}
	if _, err := a.Router().Login(addr); err != nil {
		return "", err
	}
	return addr, nil
}

// Logout clears the whole session.
func (a *App) Logout() {
	a.Router().Logout()
}

// Prices refreshes the snapshot and prints it. When the refresh fails the
// cached snapshot is printed instead.
func (a *App) Prices(ctx context.Context) error {
	w := a.Watcher()
	fresh := w.Refresh(ctx)
	snap := w.Snapshot()

	t := newTable("Asset", "Price (USD)")
	for _, p := range market.Pairs {
		t.Row(p.Ticker, "$"+utils.FormatFloat(snap.USD(p.ID), a.Config.FiatDecimals))
	}
	t.Row("NASDAQ", utils.FormatFloat(snap.Stocks.Nasdaq, 2)+"%")
	t.Row("GOLD", utils.FormatFloat(snap.Stocks.Gold, 2)+"%")
	_, _ = fmt.Fprintln(a.Out, t.String())
	if !fresh {
		_, _ = fmt.Fprintln(a.Out, "Price lookup failed; showing last known values.")
	}
	return nil
}

// PortfolioReport scans address, or the stored wallet, and prints the
// balance and the top holdings.
func (a *App) PortfolioReport(ctx context.Context, address string) error {
	if address == "" {
		address = a.Store.Wallet()
	}
	if address == "" {
		return ErrNoAddress
	}
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return err
	}

	balance := a.BalanceMonitor().CheckBalance(ctx, addr)
	if balance.Err != nil {
		a.Log.Debug("balance unavailable", zap.Error(balance.Err))
	}
	assets := a.Portfolio().GetWalletPortfolio(ctx, addr)
	p := views.BuildPortfolio(addr, assets, false)

	sorted := append([]models.Asset(nil), assets...)
	portfolio.SortByValue(sorted)

	t := newTable("Symbol", "Name", "Balance", "Value")
	for _, asset := range portfolio.Top(sorted, views.TopHoldings) {
		t.Row(
			asset.Symbol,
			utils.TruncateString(asset.Name, 24),
			utils.AddCommas(decimal.NewFromFloat(asset.Balance).Round(int32(a.Config.TokenDecimals)).String()),
			utils.FormatUSD(asset.Value),
		)
	}

	_, _ = fmt.Fprintf(a.Out, "Wallet:  %s\n", addr)
	_, _ = fmt.Fprintf(a.Out, "Balance: %s\n", balance.Display)
	_, _ = fmt.Fprintf(a.Out, "Total:   %s (%s)\n", p.Total, p.Count)
	_, _ = fmt.Fprintln(a.Out, t.String())
	return nil
}

// Explore prints one listing page, optionally filtered by search.
func (a *App) Explore(ctx context.Context, page int, search string) error {
	if page < 1 || page > explorer.TotalPages() {
		return errors.Newf("page must be between 1 and %d", explorer.TotalPages())
	}
	coins := a.Explorer().GetMarketCoins(ctx, page)
	e := views.BuildExplorer(views.ExplorerState{Page: page, Coins: coins, Search: search})

	t := newTable("#", "Asset", "Price", "24h", "Low", "High", "Mkt Cap", "Volume")
	for _, r := range e.Rows {
		t.Row(r.Rank, r.Name+" "+r.Symbol, r.Price, r.Change, r.Low, r.High, r.MarketCap, r.Volume)
	}
	_, _ = fmt.Fprintln(a.Out, t.String())
	if e.Message != "" {
		_, _ = fmt.Fprintln(a.Out, e.Message)
	}
	_, _ = fmt.Fprintf(a.Out, "Page %d of %d\n", e.Page, e.TotalPages)
	return nil
}

// Ping measures one round trip to the reference endpoint.
func (a *App) Ping(ctx context.Context) error {
	r := a.LatencyMonitor().Measure(ctx)
	_, _ = fmt.Fprintf(a.Out, "%s (%s)\n", r.Display, r.Tier)
	if r.Err != nil {
		return errors.Wrap(r.Err, "ping")
	}
	return nil
}
