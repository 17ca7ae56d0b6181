package models

import "time"

// Tracked spot assets, keyed the way the snapshot stores them.
const (
	Bitcoin  = "bitcoin"
	Ethereum = "ethereum"
	Solana   = "solana"
)

// TrackedAssets lists the snapshot keys in display order.
var TrackedAssets = []string{Bitcoin, Ethereum, Solana}

// Price is one spot quote.
type Price struct {
	USD float64 `json:"usd"`
}

// CryptoPrices maps a tracked asset id to its spot quote.
type CryptoPrices map[string]Price

// StockIndices holds the simulated index values.
type StockIndices struct {
	Nasdaq float64 `json:"nasdaq"`
	Gold   float64 `json:"gold"`
}

// MarketSnapshot is one complete market-data reading. It is replaced
// wholesale, never patched.
type MarketSnapshot struct {
	Crypto CryptoPrices `json:"crypto"`
	Stocks StockIndices `json:"stocks"`
}

// DefaultSnapshot returns the zero-valued snapshot with every tracked key present.
func DefaultSnapshot() MarketSnapshot {
	crypto := make(CryptoPrices, len(TrackedAssets))
	for _, id := range TrackedAssets {
		crypto[id] = Price{}
	}
	return MarketSnapshot{Crypto: crypto}
}

// Normalized returns a copy of s with every tracked key present.
func (s MarketSnapshot) Normalized() MarketSnapshot {
	out := DefaultSnapshot()
	for id, p := range s.Crypto {
		out.Crypto[id] = p
	}
	out.Stocks = s.Stocks
	return out
}

// USD returns the spot price of id, 0 when unknown.
func (s MarketSnapshot) USD(id string) float64 {
	return s.Crypto[id].USD
}

// Asset is one portfolio entry. Filler entries are zero-valued placeholders.
type Asset struct {
	Symbol  string  `json:"symbol"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	Price   float64 `json:"price"`
	Value   float64 `json:"value"`
	Image   string  `json:"image,omitempty"`
	Filler  bool    `json:"filler,omitempty"`
}

// RankPlaceholder is shown for coins without a market-cap rank.
const RankPlaceholder = "-"

// ExplorerCoin is one sanitized row of the market listing.
type ExplorerCoin struct {
	Rank      string  `json:"rank"`
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	MarketCap float64 `json:"marketCap"`
	Volume    float64 `json:"volume"`
	High24h   float64 `json:"high24h"`
	Low24h    float64 `json:"low24h"`
}

// LatencyTier classifies a round-trip measurement.
type LatencyTier int

const (
	LatencyUnknown LatencyTier = iota
	LatencyHealthy
	LatencyDegraded
	LatencySlow
	LatencyOffline
)

func (t LatencyTier) String() string {
	switch t {
	case LatencyHealthy:
		return "healthy"
	case LatencyDegraded:
		return "degraded"
	case LatencySlow:
		return "slow"
	case LatencyOffline:
		return "offline"
	}
	return "unknown"
}

// LatencyReading is the result of one round-trip measurement.
type LatencyReading struct {
	Latency time.Duration
	Display string
	Tier    LatencyTier
	Err     error
}

// BalanceReading is the outcome of one balance race.
type BalanceReading struct {
	Address  string
	Display  string
	Fallback bool
	Err      error
}

// MarketStatus is the fixed shape served by the mock status endpoint.
type MarketStatus struct {
	Status    string `json:"status"`
	Exchange  string `json:"exchange"`
	Timestamp int64  `json:"timestamp"`
}
