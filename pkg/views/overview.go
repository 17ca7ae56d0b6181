package views

import (
	"novadash/pkg/models"
)

// LatencyHistorySize bounds the samples kept for the overview graph.
const LatencyHistorySize = 40

// Overview is the home view.
type Overview struct {
	Title       string
	Wallet      string
	Balance     string
	BalanceNote string
	Latency     models.LatencyReading
	History     []float64
}

func BuildOverview(wallet, balance string, latency models.LatencyReading, history []float64) Overview {
	return Overview{
		Title:       "Overview",
		Wallet:      wallet,
		Balance:     balance,
		BalanceNote: "Ethereum Mainnet",
		Latency:     latency,
		History:     history,
	}
}

// PushLatency appends a successful sample in milliseconds, keeping at most
// LatencyHistorySize entries. Offline readings are not recorded.
func PushLatency(history []float64, r models.LatencyReading) []float64 {
	if r.Err != nil || r.Tier == models.LatencyOffline || r.Tier == models.LatencyUnknown {
		return history
	}
	out := append(append([]float64(nil), history...), float64(r.Latency.Milliseconds()))
	if len(out) > LatencyHistorySize {
		out = out[len(out)-LatencyHistorySize:]
	}
	return out
}
