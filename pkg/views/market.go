package views

import (
	"novadash/pkg/models"
)

// MarketCard is one selectable asset card.
type MarketCard struct {
	ID       string
	Label    string
	Price    string
	Chart    string
	Selected bool
}

// Market is the market analysis view.
type Market struct {
	Title       string
	Cards       []MarketCard
	ChartSymbol string
	ChartURL    string
}

var marketCards = []struct {
	id, label, chart string
}{
	{models.Bitcoin, "Bitcoin", "COINBASE:BTCUSD"},
	{models.Ethereum, "Ethereum", "COINBASE:ETHUSD"},
	{models.Solana, "Solana", "COINBASE:SOLUSD"},
}

// MarketCardCount is the number of selectable cards.
func MarketCardCount() int {
	return len(marketCards)
}

// BuildMarket renders the cards with selected (clamped) highlighted.
func BuildMarket(snap models.MarketSnapshot, selected int) Market {
	if selected < 0 || selected >= len(marketCards) {
		selected = 0
	}
	m := Market{Title: "Market Analysis"}
	for i, c := range marketCards {
		m.Cards = append(m.Cards, MarketCard{
			ID:       c.id,
			Label:    c.label,
			Price:    SpotPrice(snap, c.id),
			Chart:    c.chart,
			Selected: i == selected,
		})
	}
	m.ChartSymbol = marketCards[selected].chart
	m.ChartURL = ChartURL(m.ChartSymbol)
	return m
}
