package portfolio

import (
	"sort"
	"strings"

	"novadash/pkg/models"
)

// MinDisplayAssets is the size a portfolio is padded to with filler entries.
const MinDisplayAssets = 10

type fillerToken struct {
	symbol, name, image string
}

// Well-known assets used to pad sparse wallets, in display order.
var fillerCatalog = []fillerToken{
	{"ETH", "Ethereum", "https://assets.coingecko.com/coins/images/279/small/ethereum.png"},
	{"USDT", "Tether USD", "https://assets.coingecko.com/coins/images/325/small/Tether.png"},
	{"USDC", "USDC", "https://assets.coingecko.com/coins/images/6319/small/USD_Coin_icon.png"},
	{"WBTC", "Wrapped BTC", "https://assets.coingecko.com/coins/images/7598/small/wrapped_bitcoin_wbtc.png"},
	{"LINK", "Chainlink", "https://assets.coingecko.com/coins/images/877/small/chainlink-new-logo.png"},
	{"UNI", "Uniswap", "https://assets.coingecko.com/coins/images/12504/small/uniswap-uni.png"},
	{"SHIB", "Shiba Inu", "https://assets.coingecko.com/coins/images/11939/small/shiba.png"},
	{"DAI", "Dai", "https://assets.coingecko.com/coins/images/9956/small/4943.png"},
	{"PEPE", "Pepe", "https://assets.coingecko.com/coins/images/29850/small/pepe-token.jpeg"},
	{"AAVE", "Aave", "https://assets.coingecko.com/coins/images/12645/small/AAVE.png"},
}

func (f fillerToken) asset() models.Asset {
	return models.Asset{Symbol: f.symbol, Name: f.name, Image: f.image, Filler: true}
}

// FillerCatalog returns the whole catalog with zero balance, price and value.
func FillerCatalog() []models.Asset {
	out := make([]models.Asset, 0, len(fillerCatalog))
	for _, f := range fillerCatalog {
		out = append(out, f.asset())
	}
	return out
}

// Pad appends zero-valued filler entries for symbols not already held until
// the list reaches MinDisplayAssets. Held symbols win, compared case-insensitively.
// Lists already at the minimum are returned untouched.
func Pad(assets []models.Asset) []models.Asset {
	held := make(map[string]bool, len(assets))
	for _, a := range assets {
		held[strings.ToUpper(a.Symbol)] = true
	}
	for _, f := range fillerCatalog {
		if len(assets) >= MinDisplayAssets {
			break
		}
		if held[f.symbol] {
			continue
		}
		held[f.symbol] = true
		assets = append(assets, f.asset())
	}
	return assets
}

// SortByValue orders assets by value, highest first, keeping fetch order on ties.
func SortByValue(assets []models.Asset) {
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].Value > assets[j].Value
	})
}

// Top returns at most n leading assets.
func Top(assets []models.Asset, n int) []models.Asset {
	if len(assets) <= n {
		return assets
	}
	return assets[:n]
}

// TotalValue sums the USD value of every asset.
func TotalValue(assets []models.Asset) float64 {
	var total float64
	for _, a := range assets {
		total += a.Value
	}
	return total
}
