package market

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"novadash/pkg/models"

	"github.com/PaesslerAG/jsonpath"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SpotAmountPath locates the quote inside a spot price payload.
const SpotAmountPath = "$.data.amount"

// Pair maps a snapshot key to the provider's trading pair prefix.
type Pair struct {
	ID     string
	Ticker string
}

var Pairs = []Pair{
	{ID: models.Bitcoin, Ticker: "BTC"},
	{ID: models.Ethereum, Ticker: "ETH"},
	{ID: models.Solana, Ticker: "SOL"},
}

// Feed fetches spot prices and produces the simulated index values.
type Feed struct {
	client    *http.Client
	baseURL   string
	log       *zap.Logger
	randFloat func() float64
}

func NewFeed(baseURL string, client *http.Client, log *zap.Logger) *Feed {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Feed{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log,
		randFloat: rand.Float64,
	}
}

// FetchCryptoPrices looks up every pair concurrently. Any failure discards
// the whole result and returns nil, so callers keep their previous snapshot.
func (f *Feed) FetchCryptoPrices(ctx context.Context) models.CryptoPrices {
	amounts := make([]float64, len(Pairs))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range Pairs {
		g.Go(func() error {
			v, err := f.fetchSpot(gctx, p.Ticker)
			if err != nil {
				return errors.Wrapf(err, "%s-USD spot", p.Ticker)
			}
			amounts[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		f.log.Warn("spot price fetch failed, keeping previous snapshot", zap.Error(err))
		return nil
	}

	prices := make(models.CryptoPrices, len(Pairs))
	for i, p := range Pairs {
		prices[p.ID] = models.Price{USD: amounts[i]}
	}
	return prices
}

func (f *Feed) fetchSpot(ctx context.Context, ticker string) (float64, error) {
	url := fmt.Sprintf("%s/%s-USD/spot", f.baseURL, ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, errors.Newf("unexpected status %s", resp.Status)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, errors.Wrap(err, "decode payload")
	}
	raw, err := jsonpath.Get(SpotAmountPath, payload)
	if err != nil {
		return 0, errors.Wrapf(err, "lookup %s", SpotAmountPath)
	}
	return parseAmount(raw)
}

func parseAmount(raw any) (float64, error) {
	var v float64
	switch a := raw.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return 0, errors.Wrapf(err, "parse amount %q", a)
		}
		v = parsed
	case float64:
		v = a
	default:
		return 0, errors.Newf("amount has unexpected type %T", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Newf("amount is not finite: %v", v)
	}
	return v, nil
}

// SimulatedStock returns stand-in index values: nasdaq 0.8±0.1, gold 0.2±0.05,
// rounded to two decimals.
func (f *Feed) SimulatedStock() models.StockIndices {
	return models.StockIndices{
		Nasdaq: round2(0.8 + (f.randFloat()*0.2 - 0.1)),
		Gold:   round2(0.2 + (f.randFloat()*0.1 - 0.05)),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
