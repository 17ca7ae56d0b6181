package explorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"novadash/pkg/models"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	PageSize = 25
	// EstimatedCoins sizes the pagination; the listing provider does not report a total.
	EstimatedCoins = 10000
)

// TotalPages is the number of pages offered by the pagination bar.
func TotalPages() int {
	return (EstimatedCoins + PageSize - 1) / PageSize
}

// Client reads the ranked market listing, optionally through a relay that
// takes the escaped target URL as a suffix.
type Client struct {
	client   *http.Client
	baseURL  string
	proxyURL string
	log      *zap.Logger
}

func NewClient(baseURL, proxyURL string, client *http.Client, log *zap.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{client: client, baseURL: baseURL, proxyURL: proxyURL, log: log}
}

// marketCoin mirrors the provider row; every numeric field may be null.
type marketCoin struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	Image                    string   `json:"image"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	MarketCapRank            *int     `json:"market_cap_rank"`
	TotalVolume              *float64 `json:"total_volume"`
	High24h                  *float64 `json:"high_24h"`
	Low24h                   *float64 `json:"low_24h"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
}

// PageURL builds the request URL for page, routed through the relay when set.
func (c *Client) PageURL(page int) string {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(PageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "24h")
	target := c.baseURL + "?" + q.Encode()
	if c.proxyURL == "" {
		return target
	}
	return c.proxyURL + url.QueryEscape(target)
}

// GetMarketCoins returns one sanitized page. Failures yield an empty slice,
// never a stale page.
func (c *Client) GetMarketCoins(ctx context.Context, page int) []models.ExplorerCoin {
	if page < 1 {
		page = 1
	}
	coins, err := c.fetchPage(ctx, page)
	if err != nil {
		c.log.Warn("market listing fetch failed", zap.Int("page", page), zap.Error(err))
		return []models.ExplorerCoin{}
	}
	return coins
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]models.ExplorerCoin, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PageURL(page), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("api limit or network error: %s", resp.Status)
	}

	var raw []marketCoin
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode listing")
	}

	coins := make([]models.ExplorerCoin, 0, len(raw))
	for _, r := range raw {
		if len(coins) == PageSize {
			break
		}
		coins = append(coins, sanitize(r))
	}
	return coins, nil
}

func sanitize(r marketCoin) models.ExplorerCoin {
	rank := models.RankPlaceholder
	if r.MarketCapRank != nil && *r.MarketCapRank > 0 {
		rank = strconv.Itoa(*r.MarketCapRank)
	}
	return models.ExplorerCoin{
		Rank:      rank,
		ID:        r.ID,
		Symbol:    strings.ToUpper(r.Symbol),
		Name:      r.Name,
		Image:     r.Image,
		Price:     orZero(r.CurrentPrice),
		Change24h: orZero(r.PriceChangePercentage24h),
		MarketCap: orZero(r.MarketCap),
		Volume:    orZero(r.TotalVolume),
		High24h:   orZero(r.High24h),
		Low24h:    orZero(r.Low24h),
	}
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Filter keeps coins whose name or symbol contains term, case-insensitively.
func Filter(coins []models.ExplorerCoin, term string) []models.ExplorerCoin {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return coins
	}
	var out []models.ExplorerCoin
	for _, c := range coins {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(strings.ToLower(c.Symbol), term) {
			out = append(out, c)
		}
	}
	return out
}

// ChartSymbol is the exchange symbol charted for a listed coin.
func ChartSymbol(symbol string) string {
	return "BINANCE:" + strings.ToUpper(symbol) + "USDT"
}
