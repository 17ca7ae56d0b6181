package views

import (
	"fmt"
	"math"
	"strconv"

	"novadash/pkg/explorer"
	"novadash/pkg/models"
	"novadash/pkg/utils"
)

// paginationWindow is how many pages are shown on each side of the current one.
const paginationWindow = 5

// PageButton is one pagination control. Ellipsis entries carry no page.
type PageButton struct {
	Page     int
	Label    string
	Active   bool
	Ellipsis bool
}

// Pagination lays out: previous, 1, gap, current±5, gap, last, next.
func Pagination(current, total int) []PageButton {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	var out []PageButton
	if current > 1 {
		out = append(out, PageButton{Page: current - 1, Label: "←"})
	}
	out = append(out, PageButton{Page: 1, Label: "1", Active: current == 1})
	if current-paginationWindow > 2 {
		out = append(out, PageButton{Label: "...", Ellipsis: true})
	}

	start := max(2, current-paginationWindow)
	end := min(total-1, current+paginationWindow)
	for i := start; i <= end; i++ {
		out = append(out, PageButton{Page: i, Label: strconv.Itoa(i), Active: i == current})
	}

	if current+paginationWindow < total-1 {
		out = append(out, PageButton{Label: "...", Ellipsis: true})
	}
	if total > 1 {
		out = append(out, PageButton{Page: total, Label: strconv.Itoa(total), Active: current == total})
	}
	if current < total {
		out = append(out, PageButton{Page: current + 1, Label: "→"})
	}
	return out
}

// CoinRow is one listing row.
type CoinRow struct {
	Rank        string
	Name        string
	Symbol      string
	Price       string
	Change      string
	Up          bool
	Low         string
	High        string
	MarketCap   string
	Volume      string
	ChartSymbol string
}

// ExplorerState is the explorer view's local state.
type ExplorerState struct {
	Page    int
	Loading bool
	Coins   []models.ExplorerCoin
	Search  string
	Chart   string
}

// Explorer is the listing view.
type Explorer struct {
	Title       string
	Page        int
	TotalPages  int
	Loading     bool
	Message     string
	Search      string
	Rows        []CoinRow
	Pagination  []PageButton
	ChartSymbol string
	ChartURL    string
}

// DefaultExplorerChart is selected until a row is picked.
var DefaultExplorerChart = explorer.ChartSymbol("BTC")

func BuildExplorer(s ExplorerState) Explorer {
	page := s.Page
	if page < 1 {
		page = 1
	}
	chart := s.Chart
	if chart == "" {
		chart = DefaultExplorerChart
	}
	e := Explorer{
		Title:       "Coin Explorer",
		Page:        page,
		TotalPages:  explorer.TotalPages(),
		Search:      s.Search,
		ChartSymbol: chart,
		ChartURL:    ChartURL(chart),
	}
	if s.Loading {
		e.Loading = true
		e.Message = fmt.Sprintf("Fetching Page %d...", page)
		return e
	}

	coins := explorer.Filter(s.Coins, s.Search)
	if len(coins) == 0 {
		e.Message = "No coins found."
	}
	for _, c := range coins {
		e.Rows = append(e.Rows, CoinRowFor(c))
	}
	e.Pagination = Pagination(page, e.TotalPages)
	return e
}

// CoinRowFor formats one sanitized coin.
func CoinRowFor(c models.ExplorerCoin) CoinRow {
	up := c.Change24h >= 0
	arrow := "▼"
	if up {
		arrow = "▲"
	}
	return CoinRow{
		Rank:        c.Rank,
		Name:        c.Name,
		Symbol:      c.Symbol,
		Price:       utils.FormatPrice(c.Price),
		Change:      fmt.Sprintf("%s %.2f%%", arrow, math.Abs(c.Change24h)),
		Up:          up,
		Low:         utils.FormatPrice(c.Low24h),
		High:        utils.FormatPrice(c.High24h),
		MarketCap:   utils.FormatLargeNumber(c.MarketCap),
		Volume:      utils.FormatLargeNumber(c.Volume),
		ChartSymbol: explorer.ChartSymbol(c.Symbol),
	}
}
