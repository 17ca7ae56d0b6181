package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"novadash/pkg/cache"
	"novadash/pkg/config"
	"novadash/pkg/models"
	"novadash/pkg/router"
	"novadash/pkg/wallet"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"

func newTestApp(t *testing.T, cfg config.Config) (*App, *bytes.Buffer) {
	t.Helper()
	a := New(cfg, cache.NewMemory(), nil)
	out := &bytes.Buffer{}
	a.Out = out
	return a, out
}

func TestNew_WalletFromConfig(t *testing.T) {
	a, _ := newTestApp(t, config.Default())
	assert.Nil(t, a.Wallet)
	assert.Equal(t, config.Default().HTTPTimeout(), a.HTTP.Timeout)

	cfg := config.Default()
	cfg.WalletRPCURL = "http://127.0.0.1:8545"
	a, _ = newTestApp(t, cfg)
	assert.NotNil(t, a.Wallet)
	a.Close()
}

func TestLoginLogout(t *testing.T) {
	a, _ := newTestApp(t, config.Default())

	addr, err := a.Login(strings.ToLower(testAddress))
	require.NoError(t, err)
	assert.Equal(t, testAddress, addr)
	assert.Equal(t, testAddress, a.Store.Wallet())
	assert.Equal(t, string(router.HomeView), a.Store.ActiveView())

	a.Logout()
	assert.Empty(t, a.Store.Wallet())
	assert.Equal(t, cache.DefaultBalance, a.Store.Balance())
}

func TestLogin_InvalidAddress(t *testing.T) {
	a, _ := newTestApp(t, config.Default())
	_, err := a.Login("0x123")
	assert.True(t, errors.Is(err, wallet.ErrInvalidAddress))
	assert.Empty(t, a.Store.Wallet())
}

func TestPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		amount := map[string]string{
			"/BTC-USD/spot": "65000.5",
			"/ETH-USD/spot": "3100",
			"/SOL-USD/spot": "150.25",
		}[r.URL.Path]
		_, _ = fmt.Fprintf(w, `{"data":{"base":"X","currency":"USD","amount":"%s"}}`, amount)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.PriceBaseURL = server.URL
	a, out := newTestApp(t, cfg)

	require.NoError(t, a.Prices(context.Background()))
	assert.Contains(t, out.String(), "$65,000.50")
	assert.Contains(t, out.String(), "$150.25")
	assert.Contains(t, out.String(), "NASDAQ")
	assert.NotContains(t, out.String(), "last known values")
	assert.Equal(t, 3100.0, a.Store.MarketSnapshot().USD(models.Ethereum))
}

func TestPrices_FailureShowsCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.PriceBaseURL = server.URL
	a, out := newTestApp(t, cfg)
	cached := models.DefaultSnapshot()
	cached.Crypto[models.Bitcoin] = models.Price{USD: 42000}
	require.NoError(t, a.Store.SetMarketSnapshot(cached))

	require.NoError(t, a.Prices(context.Background()))
	assert.Contains(t, out.String(), "$42,000.00")
	assert.Contains(t, out.String(), "last known values")
}

func TestExplore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		_, _ = fmt.Fprint(w, `[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":65000,"market_cap":1280000000000,
			 "market_cap_rank":1,"total_volume":35000000000,"high_24h":66000,"low_24h":64000,"price_change_percentage_24h":-1.5},
			{"id":"solana","symbol":"sol","name":"Solana","current_price":150,"market_cap_rank":5}
		]`)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.ExplorerBaseURL = server.URL
	cfg.ExplorerProxyURL = ""
	a, out := newTestApp(t, cfg)

	require.NoError(t, a.Explore(context.Background(), 3, ""))
	assert.Contains(t, out.String(), "Bitcoin BTC")
	assert.Contains(t, out.String(), "▼ 1.50%")
	assert.Contains(t, out.String(), "$1280.00B")
	assert.Contains(t, out.String(), "Page 3 of 400")

	out.Reset()
	require.NoError(t, a.Explore(context.Background(), 3, "doge"))
	assert.Contains(t, out.String(), "No coins found.")
}

func TestExplore_PageOutOfRange(t *testing.T) {
	a, _ := newTestApp(t, config.Default())
	assert.Error(t, a.Explore(context.Background(), 0, ""))
	assert.Error(t, a.Explore(context.Background(), 401, ""))
}

func TestPortfolioReport_NoAddress(t *testing.T) {
	a, _ := newTestApp(t, config.Default())
	err := a.PortfolioReport(context.Background(), "")
	assert.True(t, errors.Is(err, ErrNoAddress))
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.PingURL = server.URL
	a, out := newTestApp(t, cfg)

	require.NoError(t, a.Ping(context.Background()))
	assert.Contains(t, out.String(), "ms")
	assert.NotEqual(t, cache.DefaultLatency, a.Store.Latency())
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "novadash.json")

	require.NoError(t, InitConfig(path, false))
	cfg, err := config.LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	err = InitConfig(path, false)
	assert.True(t, errors.Is(err, ErrConfigExists))

	require.NoError(t, os.WriteFile(path, []byte(`{"fiat_decimals": 6}`), 0644))
	require.NoError(t, InitConfig(path, true))
	cfg, err = config.LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.FiatDecimals)

	backups, err := filepath.Glob(path + ".*.bak")
	require.NoError(t, err)
	require.Len(t, backups, 1)
	old, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Contains(t, string(old), `"fiat_decimals": 6`)
}
