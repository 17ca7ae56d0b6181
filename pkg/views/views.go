// Package views turns application state into render-ready view models.
// Every builder is a pure function so formatting, pagination and
// allocation math can be tested without a terminal.
package views

import (
	"net/url"
	"strings"

	"novadash/pkg/models"
	"novadash/pkg/utils"
)

// ChartBaseURL opens a chart symbol in the browser.
const ChartBaseURL = "https://www.tradingview.com/chart/?symbol="

// ChartURL returns the browser URL for a chart symbol such as COINBASE:BTCUSD.
func ChartURL(symbol string) string {
	return ChartBaseURL + url.QueryEscape(symbol)
}

// TickerItem is one entry of the scrolling ticker bar.
type TickerItem struct {
	Label string
	Value string
	Up    bool
}

// Ticker lists spot prices followed by the simulated indices.
func Ticker(snap models.MarketSnapshot) []TickerItem {
	snap = snap.Normalized()
	items := make([]TickerItem, 0, len(models.TrackedAssets)+2)
	for _, id := range models.TrackedAssets {
		items = append(items, TickerItem{
			Label: tickerLabel(id),
			Value: SpotPrice(snap, id),
			Up:    true,
		})
	}
	items = append(items,
		TickerItem{Label: "NASDAQ", Value: utils.FormatFloat(snap.Stocks.Nasdaq, 2) + "%", Up: snap.Stocks.Nasdaq >= 0},
		TickerItem{Label: "GOLD", Value: utils.FormatFloat(snap.Stocks.Gold, 2) + "%", Up: snap.Stocks.Gold >= 0},
	)
	return items
}

func tickerLabel(id string) string {
	switch id {
	case models.Bitcoin:
		return "BTC"
	case models.Ethereum:
		return "ETH"
	case models.Solana:
		return "SOL"
	}
	return strings.ToUpper(id)
}

// SpotPrice renders the snapshot price of id, "$0.00" when unknown.
func SpotPrice(snap models.MarketSnapshot, id string) string {
	v := snap.USD(id)
	if v <= 0 {
		return "$0.00"
	}
	return utils.FormatUSD(v)
}

// Entry is the connect screen.
type Entry struct {
	Title           string
	Prompt          string
	WalletAvailable bool
	Notice          string
}

// NoWalletNotice is shown when connecting without a wallet capability.
const NoWalletNotice = "No wallet detected. Enter an address manually or set wallet_rpc_url in the config file."

func BuildEntry(walletAvailable bool, notice string) Entry {
	prompt := "Paste a wallet address and press enter."
	if walletAvailable {
		prompt = "Paste a wallet address and press enter, or press ctrl+w to connect your wallet."
	}
	return Entry{Title: "NOVA // Connect", Prompt: prompt, WalletAvailable: walletAvailable, Notice: notice}
}

// Settings is the session screen.
type Settings struct {
	Title   string
	Wallet  string
	Short   string
	Session string
}

func BuildSettings(wallet, sessionPath string) Settings {
	if sessionPath == "" {
		sessionPath = "(in memory)"
	}
	return Settings{Title: "Settings", Wallet: wallet, Short: "● " + utils.ShortAddress(wallet), Session: sessionPath}
}
