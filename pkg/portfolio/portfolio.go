package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"novadash/pkg/models"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultTokenDecimals applies when a token does not declare its precision.
	DefaultTokenDecimals = 18
	// ImageBaseURL prefixes the relative token image paths of the scan provider.
	ImageBaseURL = "https://ethplorer.io"
	nativeImage  = "https://assets.coingecko.com/coins/images/279/small/ethereum.png"
)

// Client scans a wallet address through the wallet-scan provider.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *zap.Logger
}

func NewClient(baseURL, apiKey string, client *http.Client, log *zap.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, log: log}
}

// rate decodes a price object that the provider replaces with false when unknown.
type rate struct {
	Rate float64
}

func (r *rate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("false")) || bytes.Equal(data, []byte("null")) {
		r.Rate = 0
		return nil
	}
	var obj struct {
		Rate *float64 `json:"rate"`
	}
	// Any other shape reads as "no price".
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	if obj.Rate != nil {
		r.Rate = *obj.Rate
	}
	return nil
}

// precision accepts decimals as a number or a numeric string.
type precision struct {
	Value int
	Set   bool
}

func (p *precision) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// Unreadable precision falls back to the default rather than failing the scan.
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		p.Value, p.Set = v, true
	}
	return nil
}

// amount holds a balance given as a number or a numeric string. Any other
// shape is marked Bad instead of failing the whole scan.
type amount struct {
	Raw string
	Bad bool
}

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			a.Bad = true
			return nil
		}
		a.Raw = strings.TrimSpace(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		a.Bad = true
		return nil
	}
	a.Raw = n.String()
	return nil
}

// value parses the amount. Empty reads as zero.
func (a amount) value() (decimal.Decimal, error) {
	if a.Bad {
		return decimal.Zero, errors.New("balance is not a number")
	}
	if a.Raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(a.Raw)
}

type tokenInfo struct {
	Symbol   string    `json:"symbol"`
	Name     string    `json:"name"`
	Decimals precision `json:"decimals"`
	Price    rate      `json:"price"`
	Image    string    `json:"image"`
}

type tokenHolding struct {
	TokenInfo  tokenInfo `json:"tokenInfo"`
	Balance    amount    `json:"balance"`
	RawBalance amount    `json:"rawBalance"`
}

type addressInfo struct {
	ETH *struct {
		Balance amount `json:"balance"`
		Price   rate   `json:"price"`
	} `json:"ETH"`
	Tokens []tokenHolding `json:"tokens"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GetWalletPortfolio returns the wallet's real holdings padded with filler
// entries. Any fetch or decode failure yields the whole filler catalog.
// The result is unsorted.
func (c *Client) GetWalletPortfolio(ctx context.Context, address string) []models.Asset {
	info, err := c.scan(ctx, address)
	if err != nil {
		c.log.Warn("portfolio scan failed, showing filler catalog", zap.String("address", address), zap.Error(err))
		return FillerCatalog()
	}
	return Pad(realAssets(info, c.log))
}

func (c *Client) scan(ctx context.Context, address string) (*addressInfo, error) {
	u := fmt.Sprintf("%s/getAddressInfo/%s?apiKey=%s", c.baseURL, url.PathEscape(address), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("unexpected status %s", resp.Status)
	}

	var info addressInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "decode address info")
	}
	if info.Error != nil {
		return nil, errors.Newf("provider error %d: %s", info.Error.Code, info.Error.Message)
	}
	return &info, nil
}

func realAssets(info *addressInfo, log *zap.Logger) []models.Asset {
	var assets []models.Asset

	if info.ETH != nil {
		bal, err := info.ETH.Balance.value()
		if err != nil {
			log.Debug("ETH balance unreadable, using zero", zap.Error(err))
		}
		balance := bal.InexactFloat64()
		price := info.ETH.Price.Rate
		assets = append(assets, models.Asset{
			Symbol:  "ETH",
			Name:    "Ethereum",
			Balance: balance,
			Price:   price,
			Value:   balance * price,
			Image:   nativeImage,
		})
	}

	for _, t := range info.Tokens {
		bal, err := tokenUnits(t)
		if err != nil {
			log.Debug("skipping token with unreadable balance", zap.String("symbol", t.TokenInfo.Symbol), zap.Error(err))
			continue
		}
		if !bal.IsPositive() {
			continue
		}
		balance := bal.InexactFloat64()
		price := t.TokenInfo.Price.Rate
		image := ""
		if t.TokenInfo.Image != "" {
			image = ImageBaseURL + t.TokenInfo.Image
		}
		assets = append(assets, models.Asset{
			Symbol:  t.TokenInfo.Symbol,
			Name:    t.TokenInfo.Name,
			Balance: balance,
			Price:   price,
			Value:   balance * price,
			Image:   image,
		})
	}
	return assets
}

// tokenUnits converts the raw integer balance into human units.
func tokenUnits(t tokenHolding) (decimal.Decimal, error) {
	src := t.RawBalance
	if src.Raw == "" && !src.Bad {
		src = t.Balance
	}
	units, err := src.value()
	if err != nil {
		return decimal.Zero, err
	}
	decimals := DefaultTokenDecimals
	if t.TokenInfo.Decimals.Set {
		decimals = t.TokenInfo.Decimals.Value
	}
	return units.Shift(int32(-decimals)), nil
}
