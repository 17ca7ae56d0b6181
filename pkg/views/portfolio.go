package views

import (
	"fmt"

	"novadash/pkg/models"
	"novadash/pkg/portfolio"
	"novadash/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	// TopHoldings is the number of rows and allocation slices shown.
	TopHoldings = 10
	// DustValue is the USD value under which a row is muted.
	DustValue = 0.01

	NoValueLabel = "No Value"
)

// HoldingRow is one table row.
type HoldingRow struct {
	Symbol  string
	Name    string
	Balance string
	Value   string
	Image   string
	Muted   bool
}

// AllocationSlice is one segment of the allocation breakdown.
type AllocationSlice struct {
	Label string
	Value float64
	Share float64
}

// Portfolio is the holdings view.
type Portfolio struct {
	Title      string
	Connected  bool
	Loading    bool
	Message    string
	Total      string
	Count      string
	Rows       []HoldingRow
	Allocation []AllocationSlice
	Empty      bool
}

// BuildPortfolio sorts assets by value, totals all of them and renders the
// top rows. assets is not modified.
func BuildPortfolio(wallet string, assets []models.Asset, loading bool) Portfolio {
	p := Portfolio{Title: "My Portfolio", Connected: wallet != "", Total: "$0.00", Count: "0 Assets"}
	switch {
	case wallet == "":
		p.Message = "Please Connect Wallet"
		return p
	case loading:
		p.Loading = true
		p.Message = "Scanning Wallet..."
		return p
	}

	sorted := append([]models.Asset(nil), assets...)
	portfolio.SortByValue(sorted)
	top := portfolio.Top(sorted, TopHoldings)

	p.Total = utils.FormatUSD(portfolio.TotalValue(sorted))
	p.Count = fmt.Sprintf("%d Assets Found", len(sorted))
	if len(top) == 0 {
		p.Message = "No assets found."
	}
	for _, a := range top {
		p.Rows = append(p.Rows, HoldingRow{
			Symbol:  a.Symbol,
			Name:    a.Name,
			Balance: FormatBalance(a.Balance),
			Value:   utils.FormatUSD(a.Value),
			Image:   a.Image,
			Muted:   a.Value < DustValue,
		})
	}
	p.Allocation, p.Empty = Allocation(top)
	return p
}

// Allocation splits the positive-value assets into shares of their sum.
// With nothing of value it returns a single "No Value" slice and true.
func Allocation(assets []models.Asset) ([]AllocationSlice, bool) {
	var sum float64
	var slices []AllocationSlice
	for _, a := range assets {
		if a.Value > 0 {
			sum += a.Value
			slices = append(slices, AllocationSlice{Label: a.Symbol, Value: a.Value})
		}
	}
	if len(slices) == 0 {
		return []AllocationSlice{{Label: NoValueLabel, Value: 1, Share: 1}}, true
	}
	for i := range slices {
		slices[i].Share = slices[i].Value / sum
	}
	return slices, false
}

// FormatBalance shows at most four decimals with trailing zeros dropped.
func FormatBalance(v float64) string {
	return utils.AddCommas(decimal.NewFromFloat(v).Round(4).String())
}
