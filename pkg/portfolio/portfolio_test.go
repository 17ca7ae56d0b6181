package portfolio

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"novadash/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"

func scanServer(t *testing.T, body string, status int) (*httptest.Server, *string) {
	t.Helper()
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path + "?" + r.URL.RawQuery
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &path
}

func symbols(assets []models.Asset) []string {
	var out []string
	for _, a := range assets {
		out = append(out, a.Symbol)
	}
	return out
}

func assertNoDuplicateSymbols(t *testing.T, assets []models.Asset) {
	t.Helper()
	seen := map[string]bool{}
	for _, a := range assets {
		key := strings.ToUpper(a.Symbol)
		assert.False(t, seen[key], "duplicate symbol %s", a.Symbol)
		seen[key] = true
	}
}

func TestGetWalletPortfolio_RealAndFiller(t *testing.T) {
	body := `{
	  "address": "` + testAddress + `",
	  "ETH": {"balance": 1.5, "rawBalance": "1500000000000000000", "price": {"rate": 2000}},
	  "tokens": [
	    {"tokenInfo": {"symbol": "usdc", "name": "USD Coin", "decimals": "6", "price": {"rate": 1}, "image": "/images/usdc.png"},
	     "balance": 250000000, "rawBalance": "250000000"},
	    {"tokenInfo": {"symbol": "DUST", "name": "Dust", "decimals": "18", "price": false},
	     "balance": 0, "rawBalance": "0"},
	    {"tokenInfo": {"symbol": "NOPR", "name": "No Precision", "price": false},
	     "balance": 3e18}
	  ]
	}`
	server, path := scanServer(t, body, http.StatusOK)

	c := NewClient(server.URL, "freekey", server.Client(), nil)
	assets := c.GetWalletPortfolio(context.Background(), testAddress)

	assert.Equal(t, "/getAddressInfo/"+testAddress+"?apiKey=freekey", *path)
	require.Len(t, assets, MinDisplayAssets)
	assertNoDuplicateSymbols(t, assets)

	eth := assets[0]
	assert.Equal(t, "ETH", eth.Symbol)
	assert.Equal(t, 1.5, eth.Balance)
	assert.Equal(t, 2000.0, eth.Price)
	assert.Equal(t, 3000.0, eth.Value)
	assert.False(t, eth.Filler)

	usdc := assets[1]
	assert.Equal(t, "usdc", usdc.Symbol)
	assert.Equal(t, 250.0, usdc.Balance)
	assert.Equal(t, 250.0, usdc.Value)
	assert.Equal(t, ImageBaseURL+"/images/usdc.png", usdc.Image)

	nopr := assets[2]
	assert.Equal(t, "NOPR", nopr.Symbol)
	assert.Equal(t, 3.0, nopr.Balance)
	assert.Equal(t, 0.0, nopr.Price)
	assert.Equal(t, "", nopr.Image)

	// DUST has a zero balance and is dropped; ETH and USDC are not repeated as filler.
	assert.Equal(t, []string{"ETH", "usdc", "NOPR", "USDT", "WBTC", "LINK", "UNI", "SHIB", "DAI", "PEPE"}, symbols(assets))
	for _, a := range assets[3:] {
		assert.True(t, a.Filler)
		assert.Zero(t, a.Balance)
		assert.Zero(t, a.Price)
		assert.Zero(t, a.Value)
	}
}

func TestGetWalletPortfolio_ScanFailure(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"server error", `oops`, http.StatusInternalServerError},
		{"malformed json", `{"ETH": {`, http.StatusOK},
		{"provider error", `{"error": {"code": 104, "message": "Invalid address format"}}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := scanServer(t, tt.body, tt.status)
			assets := NewClient(server.URL, "freekey", server.Client(), nil).GetWalletPortfolio(context.Background(), testAddress)

			require.Len(t, assets, 10)
			assert.Equal(t, FillerCatalog(), assets)
			for _, a := range assets {
				assert.Zero(t, a.Balance)
				assert.Zero(t, a.Price)
				assert.Zero(t, a.Value)
			}
		})
	}
}

func TestGetWalletPortfolio_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	assets := NewClient(url, "freekey", nil, nil).GetWalletPortfolio(context.Background(), testAddress)
	assert.Equal(t, FillerCatalog(), assets)
}

func TestGetWalletPortfolio_EmptyWallet(t *testing.T) {
	server, _ := scanServer(t, `{"address":"`+testAddress+`","tokens":[]}`, http.StatusOK)
	assets := NewClient(server.URL, "freekey", server.Client(), nil).GetWalletPortfolio(context.Background(), testAddress)
	assert.Equal(t, FillerCatalog(), assets)
}

func TestGetWalletPortfolio_TwelveRealTokens(t *testing.T) {
	var tokens []string
	for i := 1; i <= 12; i++ {
		tokens = append(tokens, fmt.Sprintf(
			`{"tokenInfo": {"symbol": "TK%d", "name": "Token %d", "decimals": "0", "price": {"rate": %d}}, "rawBalance": "%d"}`,
			i, i, i, 10))
	}
	server, _ := scanServer(t, `{"tokens": [`+strings.Join(tokens, ",")+`]}`, http.StatusOK)

	assets := NewClient(server.URL, "freekey", server.Client(), nil).GetWalletPortfolio(context.Background(), testAddress)
	require.Len(t, assets, 12)
	for _, a := range assets {
		assert.False(t, a.Filler)
	}

	SortByValue(assets)
	assert.Equal(t, "TK12", assets[0].Symbol)
	assert.Equal(t, 120.0, assets[0].Value)
	assert.Equal(t, "TK1", assets[11].Symbol)
	for i := 1; i < len(assets); i++ {
		assert.GreaterOrEqual(t, assets[i-1].Value, assets[i].Value)
	}
}

func TestPad_LengthProperty(t *testing.T) {
	catalogSymbols := map[string]bool{}
	for _, a := range FillerCatalog() {
		catalogSymbols[a.Symbol] = true
	}

	cases := [][]string{
		{},
		{"eth"},
		{"ETH", "USDT", "FOO"},
		{"FOO", "BAR", "BAZ", "QUX", "ONE", "TWO", "THREE", "FOUR", "FIVE"},
		{"ETH", "USDT", "USDC", "WBTC", "LINK", "UNI", "SHIB", "DAI", "PEPE"},
	}
	for _, held := range cases {
		var owned []models.Asset
		overlap := 0
		for _, s := range held {
			owned = append(owned, models.Asset{Symbol: s, Balance: 1})
			if catalogSymbols[strings.ToUpper(s)] {
				overlap++
			}
		}
		candidates := len(catalogSymbols) - overlap
		want := len(held) + candidates
		if want > MinDisplayAssets {
			want = MinDisplayAssets
		}

		got := Pad(owned)
		assert.Len(t, got, want, "held %v", held)
		assertNoDuplicateSymbols(t, got)
		assert.Equal(t, held, symbols(got)[:len(held)], "real entries keep their order")
	}
}

func TestPad_NoFillerAtMinimum(t *testing.T) {
	var owned []models.Asset
	for i := 0; i < MinDisplayAssets; i++ {
		owned = append(owned, models.Asset{Symbol: fmt.Sprintf("R%d", i)})
	}
	got := Pad(owned)
	assert.Len(t, got, MinDisplayAssets)
	for _, a := range got {
		assert.False(t, a.Filler)
	}
}

func TestSortByValue_StableTies(t *testing.T) {
	assets := []models.Asset{
		{Symbol: "A", Value: 0},
		{Symbol: "B", Value: 5},
		{Symbol: "C", Value: 0},
		{Symbol: "D", Value: 5},
		{Symbol: "E", Value: 9},
	}
	SortByValue(assets)
	assert.Equal(t, []string{"E", "B", "D", "A", "C"}, symbols(assets))
}

func TestTopAndTotal(t *testing.T) {
	assets := []models.Asset{{Value: 1.5}, {Value: 2.25}, {Value: 0}}
	assert.Equal(t, 3.75, TotalValue(assets))
	assert.Len(t, Top(assets, 2), 2)
	assert.Len(t, Top(assets, 10), 3)
}

func TestTokenUnits_Precision(t *testing.T) {
	tests := []struct {
		name string
		h    tokenHolding
		want string
	}{
		{"default 18", tokenHolding{RawBalance: amount{Raw: "2500000000000000000"}}, "2.5"},
		{"explicit 6", tokenHolding{RawBalance: amount{Raw: "1234567"}, TokenInfo: tokenInfo{Decimals: precision{Value: 6, Set: true}}}, "1.234567"},
		{"explicit 0", tokenHolding{RawBalance: amount{Raw: "42"}, TokenInfo: tokenInfo{Decimals: precision{Value: 0, Set: true}}}, "42"},
		{"scientific balance", tokenHolding{Balance: amount{Raw: "1.5e+21"}}, "1500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tokenUnits(tt.h)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestGetWalletPortfolio_MalformedTokenBalanceSkipped(t *testing.T) {
	tests := []struct {
		name    string
		balance string
	}{
		{"word", `"abc"`},
		{"bool", `true`},
		{"object", `{"v":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{
			  "ETH": {"balance": 1.5, "price": {"rate": 2000}},
			  "tokens": [
			    {"tokenInfo": {"symbol": "BAD", "name": "Bad", "decimals": "18"}, "balance": ` + tt.balance + `},
			    {"tokenInfo": {"symbol": "USDC", "name": "USD Coin", "decimals": "6", "price": {"rate": 1}},
			     "balance": 5000000, "rawBalance": "5000000"}
			  ]
			}`
			server, _ := scanServer(t, body, http.StatusOK)
			c := NewClient(server.URL, "freekey", server.Client(), nil)

			assets := c.GetWalletPortfolio(context.Background(), testAddress)
			require.GreaterOrEqual(t, len(assets), 2)
			assert.Equal(t, "ETH", assets[0].Symbol)
			assert.Equal(t, 3000.0, assets[0].Value)
			assert.False(t, assets[0].Filler)
			assert.Equal(t, "USDC", assets[1].Symbol)
			assert.Equal(t, 5.0, assets[1].Balance)
			assert.NotContains(t, symbols(assets), "BAD")
		})
	}
}

func TestGetWalletPortfolio_MalformedETHBalanceIsZero(t *testing.T) {
	server, _ := scanServer(t, `{"ETH": {"balance": "n/a", "price": {"rate": 2000}}, "tokens": []}`, http.StatusOK)
	c := NewClient(server.URL, "freekey", server.Client(), nil)

	assets := c.GetWalletPortfolio(context.Background(), testAddress)
	require.NotEmpty(t, assets)
	assert.Equal(t, "ETH", assets[0].Symbol)
	assert.Zero(t, assets[0].Value)
	assert.False(t, assets[0].Filler)
}
